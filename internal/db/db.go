// internal/db/db.go
package db

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

// campaigns is a document collection: the whole aggregate lives in one JSONB
// column so an insert/replace is a single atomic statement.
const schema = `
CREATE TABLE IF NOT EXISTS campaigns (
    id         TEXT PRIMARY KEY,
    doc        JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	if _, err = db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to ensure campaigns table: %w", err)
	}

	log.Println("✅ Connected to database")
	return db, nil
}
