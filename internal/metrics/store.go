package metrics

import (
	"database/sql"

	"github.com/charmbracelet/log"
)

// New creates a new CounterStore.
func New(db *sql.DB) CounterStore {
	return &store{
		db: db,
	}
}

// Increment upserts a counter key and increments its value by one.
func (s *store) Increment(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stmt, err := s.db.Prepare(`
		INSERT INTO counters (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1;
	`)
	if err != nil {
		log.Error("Failed to prepare statement for counter increment", "error", err, "key", key)
		return
	}
	defer stmt.Close()

	_, err = stmt.Exec(key)
	if err != nil {
		log.Error("Failed to execute statement for counter increment", "error", err, "key", key)
	} else {
		log.Debug("Incremented counter", "key", key)
	}
}

// GetAll returns all counters from the database.
func (s *store) GetAll() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT key, value FROM counters")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counters := make(map[string]int)
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		counters[key] = value
	}
	return counters, rows.Err()
}
