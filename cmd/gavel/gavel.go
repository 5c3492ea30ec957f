// Package gavelcmder
package gavelcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/gavel/cmd/gavel/config"
	ingestcmder "github.com/papercomputeco/gavel/cmd/gavel/ingest"
	versioncmder "github.com/papercomputeco/gavel/cmd/version"
)

const gavelLongDesc string = `Gavel imports multi-model chat transcripts for blind evaluation.

Transcripts are split into turns, each turn's responses are assigned
shuffled display positions, and everything is written to storage so
reviewers vote on responses without knowing which model wrote them.

Common commands:
  gavel ingest <path>    Import a transcript file or directory
  gavel config list      Show the current configuration`

const gavelShortDesc string = "Gavel - Blind transcript evaluation"

func NewGavelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gavel",
		Short: gavelShortDesc,
		Long:  gavelLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the config directory (default $HOME/.gavel)")

	// Add subcommands
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
