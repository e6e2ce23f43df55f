package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"
)

// Migrate applies every .sql file under dir in the given filesystem, in
// lexical order. Files are expected to use IF NOT EXISTS guards so running
// the migrations twice is harmless.
func Migrate(ctx context.Context, db *sqlx.DB, fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		statements, err := fs.ReadFile(fsys, dir+"/"+name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		// Relies on multiStatements being enabled on the connection.
		if _, err := db.ExecContext(ctx, string(statements)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
