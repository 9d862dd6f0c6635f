package provider

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gtr-comics/comic-grader/internal/model"
	"github.com/gtr-comics/comic-grader/pkg/anthropic"
)

// AnthropicProvider grades comics with Claude vision models.
type AnthropicProvider struct {
	client       anthropic.Client
	model        string
	maxTokens    int64
	systemPrompt string
	configured   bool
}

// NewAnthropicProvider builds a provider backed by the Anthropic API. An
// empty apiKey leaves the provider registered but unconfigured.
func NewAnthropicProvider(apiKey, modelID string, maxTokens int64, systemPrompt string) *AnthropicProvider {
	p := &AnthropicProvider{
		model:        modelID,
		maxTokens:    maxTokens,
		systemPrompt: systemPrompt,
		configured:   apiKey != "",
	}
	if p.configured {
		p.client = anthropic.NewClient(apiKey)
	}
	return p
}

func (p *AnthropicProvider) Name() string        { return "anthropic" }
func (p *AnthropicProvider) DisplayName() string { return "Claude" }

func (p *AnthropicProvider) Configured(ctx context.Context) bool {
	return p.configured
}

func (p *AnthropicProvider) GradeComic(ctx context.Context, req model.GradeRequest) (*model.ProviderResult, error) {
	if !p.configured {
		return nil, eris.New("anthropic: API key not configured")
	}
	if len(req.Images) == 0 {
		return nil, eris.New("anthropic: no images provided for grading")
	}

	images := make([]anthropic.Image, len(req.Images))
	for i, img := range req.Images {
		images[i] = anthropic.Image{MediaType: img.MediaType, Data: img.Data}
	}

	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System:    p.systemPrompt,
		Messages: []anthropic.Message{
			{
				Role:    "user",
				Content: userMessage(req.ComicName, req.IssueNumber),
				Images:  images,
			},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "anthropic: create message")
	}

	text := resp.Text()
	if text == "" {
		return nil, eris.New("anthropic: empty response from model")
	}

	resp.Usage.LogCost(p.model)
	zap.L().Debug("anthropic grading complete",
		zap.String("comic", req.ComicName),
		zap.Int("response_length", len(text)),
	)

	return &model.ProviderResult{
		Provider:  p.DisplayName(),
		Model:     p.model,
		Response:  text,
		Timestamp: time.Now().UTC(),
	}, nil
}
