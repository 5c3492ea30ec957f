// Package ingest runs the import pipeline: read a transcript file,
// parse it into turns, validate the shape, draw blinded display
// positions, and hand the records to the storage driver. Batch mode
// fans independent files out across workers; failures in one file never
// abort the rest.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/papercomputeco/gavel/pkg/logger"
	"github.com/papercomputeco/gavel/pkg/position"
	"github.com/papercomputeco/gavel/pkg/storage"
	"github.com/papercomputeco/gavel/pkg/transcript"
	"github.com/papercomputeco/gavel/pkg/utils"
)

var (
	defaultExtension      = ".md"
	defaultNumWorkers uint = 3
)

// ErrNoTurns reports a readable transcript that produced zero valid
// turns. It is distinct from a read failure: the file was fine, its
// content was not. Nothing is written to storage.
var ErrNoTurns = errors.New("no valid turns found")

// Options configures an Ingester.
type Options struct {
	// Driver is the storage backend conversations are written to.
	Driver storage.Driver

	// Roster is the ordered model identifiers; its length fixes the
	// required response count per turn.
	Roster []string

	// Randomizer draws the per-turn display positions. Its alphabet
	// must match the roster length.
	Randomizer *position.Randomizer

	// Logger receives progress and skip reports. Defaults to a
	// discard logger.
	Logger *slog.Logger

	// Extension selects which files a directory ingest picks up
	// (defaults to ".md").
	Extension string

	// Workers is the number of files ingested concurrently in batch
	// mode (defaults to 3).
	Workers uint
}

// Ingester imports transcripts through a storage.Driver.
type Ingester struct {
	driver     storage.Driver
	parser     *transcript.Parser
	randomizer *position.Randomizer
	logger     *slog.Logger
	extension  string
	workers    uint
}

// New creates an Ingester from the given options.
func New(opts Options) (*Ingester, error) {
	if opts.Driver == nil {
		return nil, errors.New("ingest: a storage driver is required")
	}
	if opts.Randomizer == nil {
		return nil, errors.New("ingest: a position randomizer is required")
	}

	parser, err := transcript.NewParser(opts.Roster)
	if err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Extension == "" {
		opts.Extension = defaultExtension
	}
	if opts.Workers == 0 {
		opts.Workers = defaultNumWorkers
	}

	return &Ingester{
		driver:     opts.Driver,
		parser:     parser,
		randomizer: opts.Randomizer,
		logger:     opts.Logger,
		extension:  opts.Extension,
		workers:    opts.Workers,
	}, nil
}

// IngestFile imports one transcript file and returns the stored
// conversation ID. A file that reads fine but parses to zero turns
// returns ErrNoTurns; a shape violation rejects the whole file before
// anything is written.
func (ing *Ingester) IngestFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}

	conv := ing.parser.Parse(string(data), path)
	ing.logger.Debug("parsed transcript",
		"file", path,
		"title", conv.Title,
		"turns", len(conv.Turns),
	)

	if len(conv.Turns) == 0 {
		return "", ErrNoTurns
	}

	// The parser enforces the shape at finalization; re-check anyway
	// and reject the whole file rather than store a partial result.
	if err := ing.parser.Validate(conv); err != nil {
		return "", err
	}

	return ing.store(ctx, conv)
}

// store writes one conversation in dependency order: conversation,
// turns in turn order, responses in roster order, then one position row
// per response with a fresh random assignment per turn.
func (ing *Ingester) store(ctx context.Context, conv *transcript.Conversation) (string, error) {
	convID, err := ing.driver.CreateConversation(ctx, storage.ConversationRecord{
		Title:      conv.Title,
		SourceFile: conv.SourceFile,
		ImportedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("storing conversation: %w", err)
	}

	for _, turn := range conv.Turns {
		turnID, err := ing.driver.CreateTurn(ctx, storage.TurnRecord{
			ConversationID: convID,
			TurnNumber:     turn.Number,
			UserPrompt:     turn.UserPrompt,
		})
		if err != nil {
			return "", fmt.Errorf("storing turn %d: %w", turn.Number, err)
		}

		ing.logger.Debug("stored turn",
			"turn", turn.Number,
			"prompt", utils.Truncate(turn.UserPrompt, 50),
		)

		responseIDs := make([]string, 0, len(turn.Responses))
		for _, resp := range turn.Responses {
			respID, err := ing.driver.CreateResponse(ctx, storage.ResponseRecord{
				TurnID:        turnID,
				ModelName:     resp.Model,
				ResponseText:  resp.Text,
				ResponseOrder: resp.Order,
			})
			if err != nil {
				return "", fmt.Errorf("storing response %d of turn %d: %w", resp.Order, turn.Number, err)
			}
			responseIDs = append(responseIDs, respID)
		}

		assignment, err := ing.randomizer.Assign(responseIDs)
		if err != nil {
			return "", fmt.Errorf("randomizing turn %d: %w", turn.Number, err)
		}

		for _, respID := range responseIDs {
			err := ing.driver.CreatePosition(ctx, storage.PositionRecord{
				TurnID:     turnID,
				ResponseID: respID,
				Position:   assignment[respID],
			})
			if err != nil {
				return "", fmt.Errorf("storing position for turn %d: %w", turn.Number, err)
			}
		}
	}

	ing.logger.Info("stored conversation",
		"title", conv.Title,
		"turns", len(conv.Turns),
		"id", convID,
	)

	return convID, nil
}
