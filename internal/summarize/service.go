package summarize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ErrUnavailable is returned when summaries are requested but no
// summarization provider is configured. Indexing runs check this
// before any file work begins.
var ErrUnavailable = errors.New("summarize: no provider configured (set provider and API key, or disable summaries)")

// Result is the outcome of one summarization call.
type Result struct {
	Summary string
	Cost    float64 // USD, estimated from token usage
}

// FileSummary pairs a file path with its generated summary, as input to
// the whole-project aggregation.
type FileSummary struct {
	Path    string `json:"path"`
	Summary string `json:"summary"`
}

// Summarizer produces per-file summaries and an aggregated project
// summary. Implementations bound each call's latency; the LLM is the
// only collaborator with unbounded external latency.
type Summarizer interface {
	SummarizeFile(ctx context.Context, content, relPath string) (*Result, error)
	SummarizeProject(ctx context.Context, files []FileSummary) (*Result, error)
}

// maxFileChars caps how much of a file is sent for summarization,
// roughly 8k tokens at 4 chars per token.
const maxFileChars = 32_000

// Service implements Summarizer over a completion Provider with
// retry-on-rate-limit and a per-call timeout.
type Service struct {
	provider Provider
	model    string
	timeout  time.Duration
}

// NewService creates a Service. A zero timeout defaults to 60s.
func NewService(provider Provider, model string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{provider: provider, model: model, timeout: timeout}
}

// NewFromEnv builds a Summarizer for the given provider type, reading
// credentials from the conventional environment variables. An empty
// provider type yields (nil, nil): summarization is simply not
// configured, which callers surface as ErrUnavailable only when
// summaries are actually requested.
func NewFromEnv(providerType, model string, timeout time.Duration) (Summarizer, error) {
	switch providerType {
	case "":
		return nil, nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("summarize: OPENAI_API_KEY environment variable is not set")
		}
		return NewService(NewOpenAIProvider(apiKey, model), model, timeout), nil
	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewService(NewOllamaProvider(host, model), model, timeout), nil
	default:
		return nil, fmt.Errorf("summarize: unsupported provider type: %s", providerType)
	}
}

// SummarizeFile produces a 2-3 sentence summary of one file.
func (s *Service) SummarizeFile(ctx context.Context, content, relPath string) (*Result, error) {
	if len(content) > maxFileChars {
		content = content[:maxFileChars]
	}

	resp, err := s.complete(ctx, []Message{
		{Role: RoleSystem, Content: "You summarize source and documentation files for a search index. Reply with 2-3 plain sentences describing what the file contains and what it is for. No preamble, no markdown."},
		{Role: RoleUser, Content: fmt.Sprintf("File: %s\n\n%s", relPath, content)},
	})
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", relPath, err)
	}

	return &Result{
		Summary: strings.TrimSpace(resp.Content),
		Cost:    estimateCost(resp.Model, resp.InputTokens, resp.OutputTokens),
	}, nil
}

// SummarizeProject aggregates per-file summaries into one project
// overview.
func (s *Service) SummarizeProject(ctx context.Context, files []FileSummary) (*Result, error) {
	var sb strings.Builder
	for _, f := range files {
		fmt.Fprintf(&sb, "- %s: %s\n", f.Path, f.Summary)
	}

	resp, err := s.complete(ctx, []Message{
		{Role: RoleSystem, Content: "You write a short overview of a software project from its per-file summaries. Reply with one paragraph covering the project's purpose and main components. No preamble, no markdown."},
		{Role: RoleUser, Content: sb.String()},
	})
	if err != nil {
		return nil, fmt.Errorf("summarize project: %w", err)
	}

	return &Result{
		Summary: strings.TrimSpace(resp.Content),
		Cost:    estimateCost(resp.Model, resp.InputTokens, resp.OutputTokens),
	}, nil
}

// complete calls the provider with the per-call timeout and exponential
// backoff on rate-limit errors.
func (s *Service) complete(ctx context.Context, messages []Message) (*CompletionResponse, error) {
	const maxRetries = 3
	backoff := 5 * time.Second

	req := CompletionRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   512,
		Temperature: 0.1,
	}

	for attempt := 0; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		resp, err := s.provider.Complete(callCtx, req)
		cancel()
		if err == nil {
			return resp, nil
		}

		if !isRateLimit(err) || attempt == maxRetries {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

func isRateLimit(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "overloaded")
}

// modelRates holds USD per 1M tokens, keyed by model name prefix.
var modelRates = []struct {
	prefix  string
	in, out float64
}{
	{"gpt-4o-mini", 0.15, 0.60},
	{"gpt-4o", 2.50, 10.00},
	{"gpt-4", 30.00, 60.00},
	{"gpt-3.5", 0.50, 1.50},
}

// estimateCost converts token usage to USD. Unknown models (including
// local Ollama models) cost nothing.
func estimateCost(model string, inputTokens, outputTokens int) float64 {
	for _, r := range modelRates {
		if strings.HasPrefix(model, r.prefix) {
			return float64(inputTokens)/1_000_000*r.in + float64(outputTokens)/1_000_000*r.out
		}
	}
	return 0
}
