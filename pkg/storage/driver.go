// Package storage defines the persistence contract for imported
// conversations. Implementations mint record identifiers and enforce
// nothing about transcript shape: validation is the importer's job.
package storage

import (
	"context"
	"time"
)

// ConversationRecord is one imported transcript.
type ConversationRecord struct {
	Title      string
	SourceFile string
	ImportedAt time.Time
}

// TurnRecord is one prompt/response group within a conversation.
type TurnRecord struct {
	ConversationID string
	TurnNumber     int
	UserPrompt     string
}

// ResponseRecord is one model's answer within a turn. ResponseOrder is
// the 1-based roster position, not the blinded display position.
type ResponseRecord struct {
	TurnID        string
	ModelName     string
	ResponseText  string
	ResponseOrder int
}

// PositionRecord binds a response to its blinded display label.
type PositionRecord struct {
	TurnID     string
	ResponseID string
	Position   string
}

// Driver is the interface importers persist conversations through.
// Records are created in dependency order: the conversation, then its
// turns in turn order, then each turn's responses in roster order, then
// one position row per response. Create methods return the identifier
// of the new record.
type Driver interface {
	CreateConversation(ctx context.Context, rec ConversationRecord) (string, error)

	CreateTurn(ctx context.Context, rec TurnRecord) (string, error)

	CreateResponse(ctx context.Context, rec ResponseRecord) (string, error)

	CreatePosition(ctx context.Context, rec PositionRecord) error

	// Close releases the backend's resources.
	Close() error
}
