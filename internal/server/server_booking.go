package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"bargain/internal/domain/entity"
	"bargain/pkg/errcodes"
	"bargain/pkg/httpx/reply"
	"bargain/pkg/lox"
	"bargain/pkg/rest"
)

const (
	defaultBookingsLimit = 20
	maxBookingsLimit     = 100
)

type bookingReader interface {
	GetByID(ctx context.Context, id string) (entity.Booking, error)
	List(ctx context.Context, limit, offset int) ([]entity.Booking, error)
}

// BookingServer reads back bookings committed by negotiations.
type BookingServer struct {
	bookingReader bookingReader
}

func NewBookingServer(bookingReader bookingReader) BookingServer {
	return BookingServer{
		bookingReader: bookingReader,
	}
}

func (s BookingServer) getV1Booking(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	booking, err := s.bookingReader.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return fmt.Errorf("bookingReader.GetByID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBooking(&booking))

	return nil
}

func (s BookingServer) getV1Bookings(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, err := queryInt(r, "limit", defaultBookingsLimit, 1, maxBookingsLimit)
	if err != nil {
		return err
	}

	offset, err := queryInt(r, "offset", 0, 0, -1)
	if err != nil {
		return err
	}

	bookings, err := s.bookingReader.List(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("bookingReader.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.BookingList{
		Bookings: lox.Map(bookings, func(b entity.Booking) rest.Booking { return *newRESTBooking(&b) }),
		Limit:    limit,
		Offset:   offset,
	})

	return nil
}

// queryInt reads an optional integer parameter; a negative maximum means no
// upper bound.
func queryInt(r *http.Request, name string, def, minimum, maximum int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < minimum || (maximum >= 0 && n > maximum) {
		return 0, failure.NewInvalidArgumentError(
			fmt.Sprintf("invalid %s %q", name, raw),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(fmt.Sprintf("%s must be an integer in range", name)),
		)
	}

	return n, nil
}
