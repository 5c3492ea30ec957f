// Package configcmder provides the config command for managing persistent
// gavel configuration stored in the .gavel/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent gavel configuration.

Configuration is stored as config.toml in the .gavel/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  storage.backend, storage.sqlite_path, storage.postgres_dsn,
  ingest.models, ingest.labels, ingest.extension, ingest.workers

Use subcommands to get, set, or list configuration values:
  gavel config set <key> <value>    Set a configuration value
  gavel config get <key>            Get a configuration value
  gavel config list                 List all configuration values

Examples:
  gavel config set storage.backend postgres
  gavel config set ingest.workers 6
  gavel config get ingest.models
  gavel config list`

const configShortDesc string = "Manage persistent gavel configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
