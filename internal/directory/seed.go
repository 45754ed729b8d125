package directory

import (
	"context"
	"database/sql"
	"log/slog"
)

// SeedDemo inserts a handful of demo employees when the table is empty, so a
// fresh checkout can run an event without a real directory import.
// Idempotent: does nothing once any row exists.
func SeedDemo(ctx context.Context, logger *slog.Logger, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	demo := []struct{ email, period string }{
		{"ana.torres@example.com", "January 2026"},
		{"ben.ito@example.com", "January 2026"},
		{"carla.reyes@example.com", "February 2026"},
		{"host@example.com", "January 2026"},
	}
	for _, e := range demo {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO employees (email, start_period) VALUES (?, ?)
		`, e.email, e.period); err != nil {
			return err
		}
	}

	logger.Info("demo employees seeded", "count", len(demo))
	return nil
}
