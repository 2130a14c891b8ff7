package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"

	"bargain/pkg/logx"
)

// Postgres lazily opens the booking database. The pool is created once; a
// failed connect is remembered and returned on every later call.
type Postgres struct {
	value           *sqlx.DB
	err             error
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	init            sync.Once
}

func (p *Postgres) Connect(ctx context.Context) (*sqlx.DB, error) {
	p.init.Do(func() {
		db, err := sqlx.ConnectContext(ctx, "pgx", p.DSN)
		if err != nil {
			p.err = fmt.Errorf("sqlx.ConnectContext(%s): %w", p.database(), err)
			return
		}

		db.SetMaxOpenConns(p.MaxOpenConns)
		db.SetMaxIdleConns(p.MaxIdleConns)
		db.SetConnMaxLifetime(p.ConnMaxLifetime)

		p.value = db

		logger(ctx).Info(
			"postgres connected",
			slog.String("database", p.database()),
			slog.Int("max-open-conns", p.MaxOpenConns),
		)
	})

	return p.value, p.err
}

func (p *Postgres) Close(ctx context.Context) {
	if p.value == nil {
		return
	}

	if err := p.value.Close(); err != nil {
		logger(ctx).Error("postgresClient.Close", logx.Error(err))
	}

	logger(ctx).Info(
		"postgres disconnected",
		slog.String("database", p.database()),
	)
}

// database names the target database without leaking credentials.
func (p *Postgres) database() string {
	u, err := url.Parse(p.DSN)
	if err != nil || u.Scheme == "" || u.Path == "" {
		return "unknown"
	}

	return strings.TrimPrefix(u.Path, "/")
}
