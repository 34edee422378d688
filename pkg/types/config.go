package types

import "time"

// HTTPConfig holds shared HTTP settings for components that talk to a
// lineage backend.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "lineage-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retry attempts for rate-limited or
	// transiently failing requests (default 4).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// DefaultNamespace is the dataset namespace used when a task's
	// configuration does not name one (default "default").
	DefaultNamespace string `json:"default_namespace" yaml:"default_namespace"`

	// Strict makes a task type with no registered extractor a failure
	// instead of a skip.
	Strict bool `json:"strict" yaml:"strict"`
}

// EmitFormat selects the serialization used by the writer emitter.
type EmitFormat string

const (
	EmitJSON EmitFormat = "json"
	EmitYAML EmitFormat = "yaml"
)

// EmitConfig holds settings for the emission boundary.
type EmitConfig struct {
	HTTPConfig `yaml:",inline"`

	// Format selects the writer output serialization: json or yaml.
	Format EmitFormat `json:"format" yaml:"format"`

	// JournalPath, when set, appends every emitted record to a local
	// SQLite journal at this path.
	JournalPath string `json:"journal_path,omitempty" yaml:"journal_path,omitempty"`

	// BackendURL, when set, posts every emitted record to this lineage
	// backend endpoint.
	BackendURL string `json:"backend_url,omitempty" yaml:"backend_url,omitempty"`

	// BackendAPIKey authenticates backend requests. Usually supplied via
	// the lineage-api-key secret rather than the config file.
	BackendAPIKey string `json:"backend_api_key,omitempty" yaml:"backend_api_key,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Emit       EmitConfig       `json:"emit" yaml:"emit"`
}
