// Package summarize is the LLM-backed summarization collaborator used
// by indexing runs: one short summary per file, plus an aggregated
// whole-project summary. It must be configured before a run that
// requests summaries; absence is a precondition failure for the run,
// while a failure on one file only leaves that file unsummarized.
package summarize

import "context"

// Role identifies a message sender in a completion conversation.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is a single message in a completion conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for one LLM completion.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse contains the result of one LLM completion.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
}

// Provider is a minimal LLM completion backend.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Name() string
}
