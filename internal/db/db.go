// Package db opens the workspace SQLite database kept under .orga/.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const fileName = "orga.db"

// Path returns the database location for a workspace: <workspace>/.orga/orga.db.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, ".orga", fileName)
}

// Open creates the .orga directory if needed and opens the database with
// foreign keys, WAL journaling and a busy timeout, so the CLI and a running
// server can share the file.
func Open(workspace string) (*sql.DB, error) {
	path := Path(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)"
	return sql.Open("sqlite", dsn)
}
