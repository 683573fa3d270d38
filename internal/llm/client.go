package llm

import (
	"context"
)

// Client generates a completion for a prompt. The interview agent is the
// only consumer; providers are wired through NewClient.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
