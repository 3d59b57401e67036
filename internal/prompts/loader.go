// Package prompts serves the LLM prompt templates. Each agent's prompts
// live in one JSON file (key → template text) embedded into the binary,
// so prompt wording can change without touching agent code.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var files embed.FS

// Parsed files are cached; a file is only unmarshalled once per process.
var (
	mu     sync.RWMutex
	parsed = make(map[string]map[string]string)
)

// Get returns the template stored under key in filename (no path prefix,
// e.g. "compose.json").
func Get(filename, key string) (string, error) {
	templates, err := load(filename)
	if err != nil {
		return "", err
	}

	template, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return template, nil
}

// MustGet is Get for templates the pipeline cannot run without; a missing
// one is a packaging bug, so it panics.
func MustGet(filename, key string) string {
	template, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return template
}

// Format substitutes {{.Key}} placeholders with values from data.
// Placeholders without a matching key are left in place.
func Format(template string, data map[string]string) string {
	for key, value := range data {
		template = strings.ReplaceAll(template, "{{."+key+"}}", value)
	}
	return template
}

func load(filename string) (map[string]string, error) {
	mu.RLock()
	templates, ok := parsed[filename]
	mu.RUnlock()
	if ok {
		return templates, nil
	}

	data, err := files.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	mu.Lock()
	parsed[filename] = templates
	mu.Unlock()
	return templates, nil
}

// ClearCache drops every cached file. Only tests need it.
func ClearCache() {
	mu.Lock()
	parsed = make(map[string]map[string]string)
	mu.Unlock()
}
