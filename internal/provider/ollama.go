package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gtr-comics/comic-grader/internal/model"
)

// OllamaProvider grades comics with a local vision model served by Ollama.
type OllamaProvider struct {
	baseURL      string
	model        string
	systemPrompt string
	http         *http.Client
}

// NewOllamaProvider builds a provider talking to a local Ollama daemon.
// The long timeout accommodates local inference on modest hardware.
func NewOllamaProvider(baseURL, modelID, systemPrompt string) *OllamaProvider {
	return &OllamaProvider{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		model:        modelID,
		systemPrompt: systemPrompt,
		http:         &http.Client{Timeout: 10 * time.Minute},
	}
}

func (p *OllamaProvider) Name() string        { return "ollama" }
func (p *OllamaProvider) DisplayName() string { return "Ollama" }

// Configured reports whether the Ollama daemon is reachable.
func (p *OllamaProvider) Configured(ctx context.Context) bool {
	_, err := p.ListModels(ctx)
	return err == nil
}

// OllamaModel describes one locally pulled model.
type OllamaModel struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
}

type ollamaTagsResponse struct {
	Models []OllamaModel `json:"models"`
}

// ListModels returns the models available on the daemon via GET /api/tags.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]OllamaModel, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, eris.Wrap(err, "ollama: create tags request")
	}

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "ollama: list models")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("ollama: tags status %d", resp.StatusCode)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, eris.Wrap(err, "ollama: decode tags response")
	}
	return tags.Models, nil
}

// ModelAvailable checks whether the named model is pulled. Names match with
// or without a ":latest" suffix.
func (p *OllamaProvider) ModelAvailable(ctx context.Context, name string) (bool, error) {
	models, err := p.ListModels(ctx)
	if err != nil {
		return false, err
	}

	want := strings.TrimSuffix(name, ":latest")
	for _, m := range models {
		have := strings.TrimSuffix(m.Name, ":latest")
		if have == want || have == strings.SplitN(want, ":", 2)[0] {
			return true, nil
		}
	}
	return false, nil
}

type ollamaChatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  map[string]any      `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

func (p *OllamaProvider) GradeComic(ctx context.Context, req model.GradeRequest) (*model.ProviderResult, error) {
	if len(req.Images) == 0 {
		return nil, eris.New("ollama: no images provided for grading")
	}

	available, err := p.ModelAvailable(ctx, p.model)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, eris.Errorf("ollama: model %q is not available, pull it first with: ollama pull %s", p.model, p.model)
	}

	images := make([]string, len(req.Images))
	for i, img := range req.Images {
		images[i] = base64.StdEncoding.EncodeToString(img.Data)
	}

	body, err := json.Marshal(ollamaChatRequest{
		Model: p.model,
		Messages: []ollamaChatMessage{
			{Role: "system", Content: p.systemPrompt},
			{Role: "user", Content: userMessage(req.ComicName, req.IssueNumber), Images: images},
		},
		Stream: false,
		// Low temperature keeps grades consistent across runs.
		Options: map[string]any{"temperature": 0.3},
	})
	if err != nil {
		return nil, eris.Wrap(err, "ollama: marshal chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "ollama: create chat request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "ollama: send chat request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "ollama: read chat response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("ollama: chat status %d: %s", resp.StatusCode, respBody)
	}

	var chat ollamaChatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return nil, eris.Wrap(err, "ollama: decode chat response")
	}
	if chat.Message.Content == "" {
		return nil, eris.New("ollama: empty response from model")
	}

	zap.L().Debug("ollama grading complete",
		zap.String("comic", req.ComicName),
		zap.String("model", p.model),
		zap.Int("response_length", len(chat.Message.Content)),
	)

	return &model.ProviderResult{
		Provider:  p.DisplayName(),
		Model:     p.model,
		Response:  chat.Message.Content,
		Timestamp: time.Now().UTC(),
	}, nil
}
