package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtr-comics/comic-grader/internal/model"
)

func ollamaServer(t *testing.T, models []string, chatContent string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			tags := ollamaTagsResponse{}
			for _, name := range models {
				tags.Models = append(tags.Models, OllamaModel{Name: name})
			}
			require.NoError(t, json.NewEncoder(w).Encode(tags))
		case "/api/chat":
			var req ollamaChatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.False(t, req.Stream)
			require.Len(t, req.Messages, 2)
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.NotEmpty(t, req.Messages[1].Images)

			var resp ollamaChatResponse
			resp.Message.Role = "assistant"
			resp.Message.Content = chatContent
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestOllamaGradeComic(t *testing.T) {
	srv := ollamaServer(t, []string{"llama3-vision:latest"}, "GRADE: 8.0 Very Fine (VF)")
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3-vision", "grade comics")

	result, err := p.GradeComic(context.Background(), model.GradeRequest{
		ComicName:   "Saga",
		IssueNumber: "1",
		Images:      []model.Image{{MediaType: "image/jpeg", Data: []byte{0xff, 0xd8}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ollama", result.Provider)
	assert.Equal(t, "GRADE: 8.0 Very Fine (VF)", result.Response)
}

func TestOllamaModelNotAvailable(t *testing.T) {
	srv := ollamaServer(t, []string{"qwen3-vl:latest"}, "")
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3-vision", "grade comics")

	_, err := p.GradeComic(context.Background(), model.GradeRequest{
		Images: []model.Image{{MediaType: "image/jpeg", Data: []byte{0xff}}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama pull llama3-vision")
}

func TestOllamaModelAvailableNormalizesLatest(t *testing.T) {
	srv := ollamaServer(t, []string{"llama3-vision:latest"}, "")
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3-vision", "")

	tests := []struct {
		model string
		want  bool
	}{
		{"llama3-vision", true},
		{"llama3-vision:latest", true},
		{"qwen3-vl", false},
	}
	for _, tt := range tests {
		got, err := p.ModelAvailable(context.Background(), tt.model)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.model)
	}
}

func TestOllamaConfigured(t *testing.T) {
	srv := ollamaServer(t, nil, "")
	p := NewOllamaProvider(srv.URL, "llama3-vision", "")
	assert.True(t, p.Configured(context.Background()))

	srv.Close()
	assert.False(t, p.Configured(context.Background()))
}

func TestOllamaNoImages(t *testing.T) {
	p := NewOllamaProvider("http://localhost:11434", "llama3-vision", "")
	_, err := p.GradeComic(context.Background(), model.GradeRequest{})
	assert.Error(t, err)
}
