package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"bargain/internal/domain"
	"bargain/internal/domain/entity"
	"bargain/pkg/errcodes"
	"bargain/pkg/lox"
)

const uniqueViolation = "23505"

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %w", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// CommitBooking stores the booking. A session is booked at most once.
func (r *BookingRepository) CommitBooking(ctx context.Context, booking entity.Booking) error {
	schema, err := fromBooking(booking)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to map booking")
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO bookings (
				id, session_id, item_id, rate_name, stay,
				settled_price, grand_total, currency, committed_at
			) VALUES (
				:id, :session_id, :item_id, :rate_name, :stay,
				:settled_price, :grand_total, :currency, :committed_at
			)`

		if _, err := tx.NamedExecContext(ctx, query, schema); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return domain.WrapError(err, errcodes.InvalidPhase, "session already booked")
			}

			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert booking")
		}

		return nil
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (entity.Booking, error) {
	query := `
		SELECT id, session_id, item_id, rate_name, stay,
		       settled_price, grand_total, currency, committed_at
		FROM bookings
		WHERE id = $1`

	var schema bookingSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Booking{}, domain.NewError(errcodes.NotFound, "booking not found")
		}
		return entity.Booking{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get booking")
	}

	return schema.toDomain()
}

func (r *BookingRepository) List(ctx context.Context, limit, offset int) ([]entity.Booking, error) {
	query := `
		SELECT id, session_id, item_id, rate_name, stay,
		       settled_price, grand_total, currency, committed_at
		FROM bookings
		ORDER BY committed_at DESC, id
		LIMIT $1 OFFSET $2`

	var schemas []bookingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list bookings")
	}

	bookings, err := lox.MapErr(schemas, bookingSchema.toDomain)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to map booking")
	}

	return bookings, nil
}
