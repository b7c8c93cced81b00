package seen

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Postgres struct {
	db *sql.DB
}

func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("seen postgres: empty dsn")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s, err := NewPostgres(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgres wraps an open database and makes sure the table exists.
func NewPostgres(ctx context.Context, db *sql.DB) (*Postgres, error) {
	s := &Postgres{db: db}
	schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.ensureSchema(schemaCtx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Postgres) Add(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO seen_adverts (advert_id) VALUES ($1) ON CONFLICT (advert_id) DO NOTHING`, id)
	if err != nil {
		return false, fmt.Errorf("insert seen advert %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert seen advert %s: %w", id, err)
	}
	return n == 1, nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

func (s *Postgres) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS seen_adverts (
			advert_id TEXT PRIMARY KEY,
			first_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
