package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// MemoryDB is the path of a database that lives only as long as its connection.
const MemoryDB = ":memory:"

// NewDB opens the agent database at path, a file in the data folder or MemoryDB.
// The pool holds one connection: DuckDB allows a single writer and the export
// history is written from the scheduler workers.
func NewDB(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	if path == MemoryDB {
		return db, nil
	}

	// extensions go to the data folder, the home directory is read-only in the container image
	dir := strings.ReplaceAll(filepath.Dir(path), "'", "''")
	if _, err := db.Exec("SET extension_directory = '" + dir + "'"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting extension directory: %w", err)
	}

	return db, nil
}
