package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docdesk/docdesk/pkg/domain"
	"github.com/docdesk/docdesk/pkg/model"
	"google.golang.org/genai"
)

// temperature favors deterministic answers over creative ones; policy lookup
// should not improvise.
const temperature = 0.1

// Provider implements model.Provider using the Google Gen AI SDK.
type Provider struct {
	client *genai.Client
}

// Verify interface compliance.
var _ model.Provider = (*Provider)(nil)

// New creates a new Gemini provider.
func New(ctx context.Context, apiKey string) (*Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Provider{client: client}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "gemini" }

// Generate sends the turns to the model and relays its reply text verbatim.
func (p *Provider) Generate(ctx context.Context, modelName, instructions string, turns []domain.Turn) (string, error) {
	slog.Debug("Gemini.Generate", "model", modelName, "turnCount", len(turns))

	var contents []*genai.Content
	for _, turn := range turns {
		role := "user"
		if turn.Role == domain.RoleModel {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](temperature),
	}
	if instructions != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: instructions}},
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
