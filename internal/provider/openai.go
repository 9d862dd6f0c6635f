package provider

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gtr-comics/comic-grader/internal/model"
	"github.com/gtr-comics/comic-grader/pkg/openai"
)

const openAIMaxTokens = 2000

// OpenAIProvider grades comics with GPT vision models.
type OpenAIProvider struct {
	client       openai.Client
	model        string
	systemPrompt string
	configured   bool
}

// NewOpenAIProvider builds a provider backed by the OpenAI API.
func NewOpenAIProvider(apiKey, baseURL, modelID, systemPrompt string) *OpenAIProvider {
	p := &OpenAIProvider{
		model:        modelID,
		systemPrompt: systemPrompt,
		configured:   apiKey != "",
	}
	if p.configured {
		opts := []openai.Option{openai.WithModel(modelID)}
		if baseURL != "" {
			opts = append(opts, openai.WithBaseURL(baseURL))
		}
		p.client = openai.NewClient(apiKey, opts...)
	}
	return p
}

func (p *OpenAIProvider) Name() string        { return "openai" }
func (p *OpenAIProvider) DisplayName() string { return "OpenAI" }

func (p *OpenAIProvider) Configured(ctx context.Context) bool {
	return p.configured
}

func (p *OpenAIProvider) GradeComic(ctx context.Context, req model.GradeRequest) (*model.ProviderResult, error) {
	if !p.configured {
		return nil, eris.New("openai: API key not configured")
	}
	if len(req.Images) == 0 {
		return nil, eris.New("openai: no images provided for grading")
	}

	parts := []openai.ContentPart{
		{Type: "text", Text: userMessage(req.ComicName, req.IssueNumber)},
	}
	for _, img := range req.Images {
		parts = append(parts, openai.ImagePart(img.MediaType, img.Data))
	}

	maxTokens := openAIMaxTokens
	resp, err := p.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.Message{
			openai.TextMessage("system", p.systemPrompt),
			{Role: "user", Content: parts},
		},
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, eris.Wrap(err, "openai: chat completion")
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, eris.New("openai: empty response from model")
	}
	text := resp.Choices[0].Message.Content

	zap.L().Debug("openai grading complete",
		zap.String("comic", req.ComicName),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return &model.ProviderResult{
		Provider:  p.DisplayName(),
		Model:     p.model,
		Response:  text,
		Timestamp: time.Now().UTC(),
	}, nil
}
