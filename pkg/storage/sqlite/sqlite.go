// Package sqlite provides a SQLite-backed storage driver for local
// single-user imports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/gavel/pkg/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	source_file TEXT,
	imported_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS turns (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL REFERENCES conversations(id),
	turn_number     INTEGER NOT NULL,
	user_prompt     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS responses (
	id             TEXT PRIMARY KEY,
	turn_id        TEXT NOT NULL REFERENCES turns(id),
	model_name     TEXT NOT NULL,
	response_text  TEXT NOT NULL,
	response_order INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS response_positions (
	id          TEXT PRIMARY KEY,
	turn_id     TEXT NOT NULL REFERENCES turns(id),
	response_id TEXT NOT NULL REFERENCES responses(id),
	position    TEXT NOT NULL
);
`

// Driver implements storage.Driver using SQLite via database/sql.
type Driver struct {
	// DB is exported so callers (and tests) can run their own queries.
	DB *sql.DB
}

// NewDriver creates a SQLite-backed driver and bootstraps the schema.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewDriver(ctx context.Context, dbPath string) (*Driver, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps writes serialized and makes ":memory:"
	// behave as one database instead of one per pooled connection.
	db.SetMaxOpenConns(1)

	// SQLite-specific pragmas
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Driver{DB: db}, nil
}

func (d *Driver) CreateConversation(ctx context.Context, rec storage.ConversationRecord) (string, error) {
	id := uuid.New().String()
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO conversations (id, title, source_file, imported_at)
		VALUES (?, ?, ?, ?)`,
		id, rec.Title, rec.SourceFile, rec.ImportedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert conversation: %w", err)
	}
	return id, nil
}

func (d *Driver) CreateTurn(ctx context.Context, rec storage.TurnRecord) (string, error) {
	id := uuid.New().String()
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO turns (id, conversation_id, turn_number, user_prompt)
		VALUES (?, ?, ?, ?)`,
		id, rec.ConversationID, rec.TurnNumber, rec.UserPrompt,
	)
	if err != nil {
		return "", fmt.Errorf("insert turn %d: %w", rec.TurnNumber, err)
	}
	return id, nil
}

func (d *Driver) CreateResponse(ctx context.Context, rec storage.ResponseRecord) (string, error) {
	id := uuid.New().String()
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO responses (id, turn_id, model_name, response_text, response_order)
		VALUES (?, ?, ?, ?, ?)`,
		id, rec.TurnID, rec.ModelName, rec.ResponseText, rec.ResponseOrder,
	)
	if err != nil {
		return "", fmt.Errorf("insert response: %w", err)
	}
	return id, nil
}

func (d *Driver) CreatePosition(ctx context.Context, rec storage.PositionRecord) error {
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO response_positions (id, turn_id, response_id, position)
		VALUES (?, ?, ?, ?)`,
		uuid.New().String(), rec.TurnID, rec.ResponseID, rec.Position,
	)
	if err != nil {
		return fmt.Errorf("insert position: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.DB.Close()
}
