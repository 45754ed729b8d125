// Package database opens the embedded SQLite store backing the employee
// directory.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

// Open connects to the libSQL/SQLite file at path and prepares it for the
// directory workload: WAL journal for concurrent reads during the join rush,
// a 5 s busy timeout, foreign keys enabled.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for _, p := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if err := applyPragma(ctx, db, p); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// applyPragma runs stmt through QueryContext rather than Exec: libSQL rejects
// Exec for pragmas that return rows, while row-less pragmas still work as a
// query whose result set is simply drained.
func applyPragma(ctx context.Context, db *sql.DB, stmt string) error {
	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("executing %s: %w", stmt, err)
	}
	return rows.Close()
}
