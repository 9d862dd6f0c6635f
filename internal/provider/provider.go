// Package provider defines the interface and implementations for AI vision
// providers that grade comic books from photographs.
package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gtr-comics/comic-grader/internal/model"
)

// Provider grades a comic from its images using one AI backend.
type Provider interface {
	// Name returns the provider key used in configuration and API routes.
	Name() string
	// DisplayName returns the human-facing name stamped on reports.
	DisplayName() string
	// Configured reports whether the provider has what it needs to run.
	Configured(ctx context.Context) bool
	// GradeComic sends the images to the model and returns its raw
	// assessment text.
	GradeComic(ctx context.Context, req model.GradeRequest) (*model.ProviderResult, error)
}

// userMessage builds the grading request text sent alongside the images.
func userMessage(comicName, issueNumber string) string {
	return fmt.Sprintf(
		"Please grade the following comic book:\n\nTitle: %s\nIssue #: %s\n\nAnalyze all provided images and provide your grading assessment.",
		comicName, issueNumber,
	)
}

// Registry manages the available grading providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry, keyed by its Name.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns a provider by name, or nil if not registered.
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Available returns the names of providers that report themselves
// configured and ready to grade.
func (r *Registry) Available(ctx context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, p := range r.providers {
		if p.Configured(ctx) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
