package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// projectTypePatterns maps marker files to human-readable project types
// and a recommended include glob.
var projectTypePatterns = map[string]struct {
	Name    string
	Include string
}{
	"go.mod":           {Name: "Go", Include: "**/*.go"},
	"package.json":     {Name: "Node.js/TypeScript", Include: "**/*.{js,ts,jsx,tsx}"},
	"requirements.txt": {Name: "Python", Include: "**/*.py"},
	"pyproject.toml":   {Name: "Python", Include: "**/*.py"},
	"Cargo.toml":       {Name: "Rust", Include: "**/*.rs"},
	"pom.xml":          {Name: "Java", Include: "**/*.java"},
	"Gemfile":          {Name: "Ruby", Include: "**/*.rb"},
}

// detectProjectType checks the current directory for well-known project
// markers. The returned include glob is a suggestion only; the default
// walker patterns also cover Markdown, stylesheets and YAML.
func detectProjectType() (name string, include string) {
	for marker, info := range projectTypePatterns {
		matches, _ := filepath.Glob(marker)
		if len(matches) > 0 {
			return info.Name, info.Include
		}
	}
	return "", ""
}

// RunWizard runs an interactive configuration wizard and saves the
// result to .blockdex.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to blockdex! Let's configure your project.")
	fmt.Println()

	projType, suggestedInclude := detectProjectType()
	if projType != "" {
		fmt.Printf("Detected project type: %s\n\n", projType)
	}

	providerPrompt := promptui.Select{
		Label: "Summarization provider",
		Items: []string{
			"none   — index without summaries",
			"openai — summarize with the OpenAI API",
			"ollama — summarize with a local Ollama server",
		},
	}
	providerIdx, _, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := []ProviderType{ProviderNone, ProviderOpenAI, ProviderOllama}[providerIdx]

	model := ""
	if provider != ProviderNone {
		modelPrompt := promptui.Prompt{
			Label:   "Model",
			Default: DefaultModel(provider),
		}
		model, err = modelPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("model selection: %w", err)
		}
	}

	storePrompt := promptui.Select{
		Label: "Store backend",
		Items: []string{
			"file   — single JSON file, no dependencies",
			"sqlite — SQLite database, better for large indexes",
		},
	}
	storeIdx, _, err := storePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("store selection: %w", err)
	}
	backend := []StoreBackend{StoreFile, StoreSQLite}[storeIdx]

	includePrompt := promptui.Prompt{
		Label:   "Include patterns (comma-separated globs, blank for defaults)",
		Default: suggestedInclude,
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}

	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, blank for none)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = model
	cfg.Store = backend
	cfg.Include = splitAndTrim(includeStr)
	cfg.Exclude = splitAndTrim(excludeStr)

	if envVar := APIKeyEnvVar(provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: set %s in your environment before running blockdex index --summaries.\n", envVar)
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace,
// dropping empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
