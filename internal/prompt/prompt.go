// Package prompt supplies the grading system prompt sent to every provider.
package prompt

import (
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

//go:embed system_prompt.txt
var defaultSystemPrompt string

// Default returns the embedded grading system prompt.
func Default() string {
	return strings.TrimSpace(defaultSystemPrompt)
}

// Load returns the prompt at path, or the embedded default when path is
// empty. An empty file is an error so a misconfigured override fails loudly.
func Load(path string) (string, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "prompt: read %s", path)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", eris.Errorf("prompt: file %s is empty", path)
	}
	return text, nil
}
