package provider

import (
	"context"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/gtr-comics/comic-grader/internal/model"
)

// GeminiProvider grades comics with Google Gemini vision models.
type GeminiProvider struct {
	apiKey       string
	model        string
	systemPrompt string
}

// NewGeminiProvider builds a provider backed by the Gemini API.
func NewGeminiProvider(apiKey, modelID, systemPrompt string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:       apiKey,
		model:        modelID,
		systemPrompt: systemPrompt,
	}
}

func (p *GeminiProvider) Name() string        { return "gemini" }
func (p *GeminiProvider) DisplayName() string { return "Gemini" }

func (p *GeminiProvider) Configured(ctx context.Context) bool {
	return p.apiKey != ""
}

func (p *GeminiProvider) GradeComic(ctx context.Context, req model.GradeRequest) (*model.ProviderResult, error) {
	if p.apiKey == "" {
		return nil, eris.New("gemini: API key not configured")
	}
	if len(req.Images) == 0 {
		return nil, eris.New("gemini: no images provided for grading")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	defer client.Close()

	m := client.GenerativeModel(p.model)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(p.systemPrompt)},
	}

	parts := []genai.Part{
		genai.Text(userMessage(req.ComicName, req.IssueNumber)),
	}
	for _, img := range req.Images {
		parts = append(parts, &genai.Blob{MIMEType: img.MediaType, Data: img.Data})
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: generate content")
	}

	text := firstText(resp)
	if text == "" {
		return nil, eris.New("gemini: empty response from model")
	}

	zap.L().Debug("gemini grading complete",
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

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
