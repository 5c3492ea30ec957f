package config

const (
	defaultBackend    = "sqlite"
	defaultSQLitePath = "gavel.db"
	defaultExtension  = ".md"
	defaultWorkers    = 3
)

// defaultModels is the roster of the reference deployment, in the
// order the upstream export writes responses.
var defaultModels = []string{
	"google/gemini-2.5-pro",
	"anthropic/claude-sonnet-4.5",
	"openai/gpt-4.1",
	"openai/gpt-5",
}

// defaultLabels is the blinded display alphabet, one label per roster
// model.
var defaultLabels = []string{"A", "B", "C", "D"}

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Backend:    defaultBackend,
			SQLitePath: defaultSQLitePath,
		},
		Ingest: IngestConfig{
			Models:    append([]string(nil), defaultModels...),
			Labels:    append([]string(nil), defaultLabels...),
			Extension: defaultExtension,
			Workers:   defaultWorkers,
		},
	}
}
