package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gtr-comics/comic-grader/internal/model"
)

type fakeProvider struct {
	name       string
	display    string
	configured bool
	grade      func(ctx context.Context, req model.GradeRequest) (*model.ProviderResult, error)
}

func (f *fakeProvider) Name() string                        { return f.name }
func (f *fakeProvider) DisplayName() string                 { return f.display }
func (f *fakeProvider) Configured(ctx context.Context) bool { return f.configured }

func (f *fakeProvider) GradeComic(ctx context.Context, req model.GradeRequest) (*model.ProviderResult, error) {
	return f.grade(ctx, req)
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	p := &fakeProvider{name: "anthropic", display: "Claude", configured: true}
	r.Register(p)

	assert.Same(t, Provider(p), r.Get("anthropic"))
	assert.Nil(t, r.Get("missing"))
}

func TestRegistryListSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeProvider{name: "ollama"})
	r.Register(&fakeProvider{name: "anthropic"})
	r.Register(&fakeProvider{name: "gemini"})

	assert.Equal(t, []string{"anthropic", "gemini", "ollama"}, r.List())
}

func TestRegistryAvailable(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeProvider{name: "anthropic", configured: true})
	r.Register(&fakeProvider{name: "openai", configured: false})
	r.Register(&fakeProvider{name: "gemini", configured: true})

	assert.Equal(t, []string{"anthropic", "gemini"}, r.Available(context.Background()))
}

func TestUserMessage(t *testing.T) {
	msg := userMessage("Amazing Spider-Man", "300")

	assert.Contains(t, msg, "Title: Amazing Spider-Man")
	assert.Contains(t, msg, "Issue #: 300")
	assert.Contains(t, msg, "grading assessment")
}
