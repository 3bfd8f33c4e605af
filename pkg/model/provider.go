package model

import (
	"context"

	"github.com/docdesk/docdesk/pkg/domain"
)

// Provider represents a hosted text-generation service (e.g. Gemini).
type Provider interface {
	// Name returns the provider's identifier (e.g. "gemini").
	Name() string

	// Generate sends the conversation turns to the LLM and returns the full
	// text of its reply. instructions is the system prompt; the final turn is
	// expected to be the user's new question. An empty reply is not an error.
	Generate(ctx context.Context, modelName, instructions string, turns []domain.Turn) (string, error)
}
