// Package inmemory provides a map-backed storage driver used by tests
// and dry runs.
package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/papercomputeco/gavel/pkg/storage"
)

// Driver implements storage.Driver using in-memory maps.
type Driver struct {
	// mu guards all record maps; batch ingest writes concurrently.
	mu sync.RWMutex

	conversations map[string]storage.ConversationRecord
	turns         map[string]storage.TurnRecord
	responses     map[string]storage.ResponseRecord
	positions     []storage.PositionRecord
}

// NewDriver creates an empty in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		conversations: make(map[string]storage.ConversationRecord),
		turns:         make(map[string]storage.TurnRecord),
		responses:     make(map[string]storage.ResponseRecord),
	}
}

func (d *Driver) CreateConversation(_ context.Context, rec storage.ConversationRecord) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := uuid.New().String()
	d.conversations[id] = rec
	return id, nil
}

func (d *Driver) CreateTurn(_ context.Context, rec storage.TurnRecord) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.conversations[rec.ConversationID]; !ok {
		return "", storage.NotFoundError{ID: rec.ConversationID}
	}

	id := uuid.New().String()
	d.turns[id] = rec
	return id, nil
}

func (d *Driver) CreateResponse(_ context.Context, rec storage.ResponseRecord) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.turns[rec.TurnID]; !ok {
		return "", storage.NotFoundError{ID: rec.TurnID}
	}

	id := uuid.New().String()
	d.responses[id] = rec
	return id, nil
}

func (d *Driver) CreatePosition(_ context.Context, rec storage.PositionRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.responses[rec.ResponseID]; !ok {
		return storage.NotFoundError{ID: rec.ResponseID}
	}

	d.positions = append(d.positions, rec)
	return nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

// Conversation returns a stored conversation record by ID.
func (d *Driver) Conversation(id string) (storage.ConversationRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.conversations[id]
	return rec, ok
}

// ConversationCount returns the number of stored conversations.
func (d *Driver) ConversationCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.conversations)
}

// TurnsFor returns the turns of a conversation in turn-number order.
func (d *Driver) TurnsFor(conversationID string) []storage.TurnRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var turns []storage.TurnRecord
	for _, rec := range d.turns {
		if rec.ConversationID == conversationID {
			turns = append(turns, rec)
		}
	}

	sort.Slice(turns, func(i, j int) bool { return turns[i].TurnNumber < turns[j].TurnNumber })

	return turns
}

// ResponsesFor returns a turn's responses in roster order.
func (d *Driver) ResponsesFor(turnID string) []storage.ResponseRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var responses []storage.ResponseRecord
	for _, rec := range d.responses {
		if rec.TurnID == turnID {
			responses = append(responses, rec)
		}
	}

	sort.Slice(responses, func(i, j int) bool { return responses[i].ResponseOrder < responses[j].ResponseOrder })

	return responses
}

// PositionsFor returns the position rows recorded for a turn.
func (d *Driver) PositionsFor(turnID string) []storage.PositionRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var positions []storage.PositionRecord
	for _, rec := range d.positions {
		if rec.TurnID == turnID {
			positions = append(positions, rec)
		}
	}

	return positions
}

// TurnIDsFor returns the turn IDs of a conversation in turn-number order.
func (d *Driver) TurnIDsFor(conversationID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	type entry struct {
		id  string
		num int
	}
	var entries []entry
	for id, rec := range d.turns {
		if rec.ConversationID == conversationID {
			entries = append(entries, entry{id: id, num: rec.TurnNumber})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].num < entries[j].num })

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}

	return ids
}
