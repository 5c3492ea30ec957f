// Package ingestcmder provides the `gavel ingest` CLI command.
package ingestcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/gavel/pkg/cliui"
	"github.com/papercomputeco/gavel/pkg/config"
	"github.com/papercomputeco/gavel/pkg/ingest"
	"github.com/papercomputeco/gavel/pkg/logger"
	"github.com/papercomputeco/gavel/pkg/position"
	"github.com/papercomputeco/gavel/pkg/storage"
	"github.com/papercomputeco/gavel/pkg/storage/inmemory"
	"github.com/papercomputeco/gavel/pkg/storage/postgres"
	"github.com/papercomputeco/gavel/pkg/storage/sqlite"
)

const ingestLongDesc string = `Import chat transcripts for blind evaluation.

Reads a transcript markdown file (or every transcript in a directory),
splits it into turns, assigns each turn's responses shuffled display
positions, and writes the result to storage. Files that cannot be
parsed are skipped and reported; they never abort the rest of a
directory import.

Examples:
  gavel ingest chat.md
  gavel ingest ./exports
  gavel ingest ./exports --dry-run
  gavel ingest chat.md --backend postgres --postgres-dsn $DSN
  gavel ingest ./exports --sqlite ./gavel.db --workers 6`

const ingestShortDesc string = "Import chat transcripts for blind evaluation"

type ingestCommander struct {
	backend     string
	sqlitePath  string
	postgresDSN string
	extension   string
	workers     uint
	dryRun      bool
	verbose     bool
}

// NewIngestCmd creates the ingest cobra command.
func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest <path>",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, err := cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(cmd, args[0], configDir, debug)
		},
	}

	config.AddStringFlag(cmd, config.IngestFlags, config.FlagBackend, &cmder.backend)
	config.AddStringFlag(cmd, config.IngestFlags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.IngestFlags, config.FlagPostgresDSN, &cmder.postgresDSN)
	config.AddStringFlag(cmd, config.IngestFlags, config.FlagExtension, &cmder.extension)
	config.AddUintFlag(cmd, config.IngestFlags, config.FlagWorkers, &cmder.workers)
	cmd.Flags().BoolVar(&cmder.dryRun, "dry-run", false, "Parse and randomize without writing to storage")
	cmd.Flags().BoolVarP(&cmder.verbose, "verbose", "v", false, "Show stored conversation IDs")

	return cmd
}

func (c *ingestCommander) run(cmd *cobra.Command, path, configDir string, debug bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	v, err := config.InitViper(configDir)
	if err != nil {
		return err
	}
	config.BindRegisteredFlags(v, cmd, config.IngestFlags, []string{
		config.FlagBackend,
		config.FlagSQLite,
		config.FlagPostgresDSN,
		config.FlagExtension,
		config.FlagWorkers,
	})

	cfg := config.FromViper(v)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(
		logger.WithPretty(true),
		logger.WithDebug(debug),
		logger.WithWriter(cmd.ErrOrStderr()),
	)

	if c.dryRun {
		fmt.Fprintln(out, "Dry run mode — nothing will be written")
	}

	driver, err := c.openDriver(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = driver.Close() }()

	ing, err := ingest.New(ingest.Options{
		Driver:     driver,
		Roster:     cfg.Ingest.Models,
		Randomizer: position.New(cfg.Ingest.Labels),
		Logger:     log,
		Extension:  cfg.Ingest.Extension,
		Workers:    cfg.Ingest.Workers,
	})
	if err != nil {
		return err
	}

	var result *ingest.Result
	err = cliui.Step(out, fmt.Sprintf("Ingesting %s", cliui.NameStyle.Render(path)), func() error {
		var stepErr error
		result, stepErr = ing.IngestPath(ctx, path)
		return stepErr
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	for _, failure := range result.Failures {
		fmt.Fprintf(out, "  %s %s: %v\n", cliui.FailMark, failure.Path, failure.Err)
	}
	if c.verbose {
		for _, id := range result.Stored {
			fmt.Fprintf(out, "  %s stored %s\n", cliui.SuccessMark, cliui.DimStyle.Render(id))
		}
	}
	fmt.Fprintln(out, result.Summary())

	return nil
}

// openDriver opens the configured storage backend. Dry runs always get
// an in-memory driver so the full pipeline executes without persisting.
func (c *ingestCommander) openDriver(ctx context.Context, cfg *config.Config) (storage.Driver, error) {
	if c.dryRun {
		return inmemory.NewDriver(), nil
	}

	switch cfg.Storage.Backend {
	case "sqlite":
		driver, err := sqlite.NewDriver(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		return driver, nil
	case "postgres":
		driver, err := postgres.NewDriver(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres storage: %w", err)
		}
		return driver, nil
	case "inmemory":
		return inmemory.NewDriver(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
