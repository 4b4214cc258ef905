package config

// defaultModels maps each provider to the model used when the config
// does not name one.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3",
}

// DefaultConfig returns a Config with sensible defaults: no
// summarization, file-backed store under .blockdex, walker-default
// include/exclude patterns.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderNone,
		Store:          StoreFile,
		DataDir:        ".blockdex",
		MaxConcurrency: 4,
		SummaryTimeout: 60,
	}
}

// DefaultModel returns the default model for a provider, or "".
func DefaultModel(p ProviderType) string {
	return defaultModels[p]
}
