// Package migrations holds the employee-directory schema and applies it with
// goose. The migration files are embedded so a deploy stays a single binary.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

// Run brings the directory schema up to date. Safe to call on every start;
// already-applied migrations are skipped.
func Run(db *sql.DB) error {
	goose.SetBaseFS(files)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
