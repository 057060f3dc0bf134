// Package migrations applies the SQL schema migrations that back the
// subsystem catalog.
package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where the server looks for migration files, relative to its
// working directory.
const DefaultDir = "migrations"

const dialect = "sqlite3"

// Up applies all pending migrations found in dir.
func Up(db *sql.DB, dir string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("apply catalog migrations: %w", err)
	}

	return nil
}
