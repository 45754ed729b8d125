// Package directory answers the two identity questions the auth flow needs:
// is this contact address known, and did this person start in the claimed
// period. Both checks are read-only and safe to retry.
package directory

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

type Directory interface {
	Exists(ctx context.Context, identity string) (bool, error)
	MatchesPeriod(ctx context.Context, identity, period string) (bool, error)
}

// Store queries the employee directory table. Identity matching is exact but
// case-insensitive; the arrival period is a free-text string compared the
// same way.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Exists(ctx context.Context, identity string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM employees WHERE lower(email) = lower(?)
	`, strings.TrimSpace(identity)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) MatchesPeriod(ctx context.Context, identity, period string) (bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx, `
		SELECT start_period FROM employees WHERE lower(email) = lower(?)
	`, strings.TrimSpace(identity)).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(stored), strings.TrimSpace(period)), nil
}
