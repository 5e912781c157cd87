package database

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// InitDB opens the database and migrates it to the latest schema found in migrationsDir.
// With an empty primaryURL, dbPath names a local SQLite file (or ":memory:").
// The returned teardown closes the database.
func InitDB(dbPath, primaryURL, authToken, migrationsDir string) (*sql.DB, func(), error) {
	var (
		db      *sql.DB
		dialect string
		err     error
	)
	if primaryURL == "" {
		log.Info("Initializing local SQLite database", "path", dbPath)
		db, err = sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open local database: %w", err)
		}
		// One connection serializes writers and keeps ":memory:" a single database.
		db.SetMaxOpenConns(1)
		dialect = "sqlite3"
	} else {
		log.Info("Initializing Turso database", "url", primaryURL)
		db, err = sql.Open("libsql", primaryURL+"?authToken="+authToken)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db %s: %w", primaryURL, err)
		}
		dialect = "turso"
	}

	if err = migrate(db, dialect, migrationsDir); err != nil {
		db.Close()
		return nil, nil, err
	}

	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}
	log.Info("Database initialized successfully")
	return db, teardown, nil
}

func migrate(db *sql.DB, dialect, dir string) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		log.Error("Error enabling foreign keys", "error", err)
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	goose.SetLogger(log.Default())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to run migrations from %s: %w", dir, err)
	}
	return nil
}
