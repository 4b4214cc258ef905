package config

// ProviderType identifies a summarization provider.
type ProviderType string

const (
	// ProviderNone disables summarization entirely.
	ProviderNone   ProviderType = ""
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// StoreBackend identifies the key-value store implementation.
type StoreBackend string

const (
	StoreFile   StoreBackend = "file"
	StoreSQLite StoreBackend = "sqlite"
)

// Config is the top-level blockdex configuration, corresponding to
// .blockdex.yml.
type Config struct {
	Provider       ProviderType `yaml:"provider" koanf:"provider"`
	Model          string       `yaml:"model" koanf:"model"`
	Store          StoreBackend `yaml:"store" koanf:"store"`
	DataDir        string       `yaml:"data_dir" koanf:"data_dir"`
	Include        []string     `yaml:"include" koanf:"include"`
	Exclude        []string     `yaml:"exclude" koanf:"exclude"`
	MaxConcurrency int          `yaml:"max_concurrency" koanf:"max_concurrency"`
	SummaryTimeout int          `yaml:"summary_timeout" koanf:"summary_timeout"` // seconds per LLM call
	MaxFileSize    int64        `yaml:"max_file_size" koanf:"max_file_size"`     // bytes
}
