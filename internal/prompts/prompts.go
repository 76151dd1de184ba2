// Package prompts loads reusable LLM prompt templates from YAML files
// organized by language and category, with {param} substitution and a
// fallback language for untranslated categories.
package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Template is a named prompt with placeholder parameters.
type Template struct {
	Name        string   `yaml:"-"`
	Template    string   `yaml:"template"`
	Description string   `yaml:"description"`
	Params      []string `yaml:"params"`
}

// System provides access to the prompt library.
type System interface {
	// Language returns the primary language code.
	Language() string
	// Fallback returns the fallback language code.
	Fallback() string
	// Get returns the named template from the given category,
	// consulting the fallback language when the primary lacks it.
	Get(category, name string) (*Template, error)
	// Render substitutes params into the template body. Every declared
	// param must be provided.
	Render(tmpl *Template, params map[string]string) (string, error)
	// GetAndRender combines Get and Render.
	GetAndRender(category, name string, params map[string]string) (string, error)
	// Categories lists the categories available in the primary language.
	Categories() ([]string, error)
	// Names lists the prompt names within a category.
	Names(category string) ([]string, error)
}

type local struct {
	dir      string
	language string
	fallback string

	mu    sync.RWMutex
	cache map[string]map[string]*Template
}

// NewLocal creates a System backed by YAML files under dir, laid out as
// <dir>/<language>/<category>.yaml.
func NewLocal(dir, language, fallback string) System {
	return &local{
		dir:      dir,
		language: language,
		fallback: fallback,
		cache:    make(map[string]map[string]*Template),
	}
}

func (l *local) Language() string {
	return l.language
}

func (l *local) Fallback() string {
	return l.fallback
}

func (l *local) Get(category, name string) (*Template, error) {
	templates, err := l.load(l.language, category)
	if err != nil && l.fallback != l.language {
		templates, err = l.load(l.fallback, category)
	}
	if err != nil {
		return nil, err
	}

	tmpl, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, category, name)
	}

	return tmpl, nil
}

func (l *local) Render(tmpl *Template, params map[string]string) (string, error) {
	var missing []string
	for _, param := range tmpl.Params {
		if _, ok := params[param]; !ok {
			missing = append(missing, param)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %s missing params: %s", tmpl.Name, strings.Join(missing, ", "))
	}

	rendered := tmpl.Template
	for key, value := range params {
		rendered = strings.ReplaceAll(rendered, "{"+key+"}", value)
	}

	return rendered, nil
}

func (l *local) GetAndRender(category, name string, params map[string]string) (string, error) {
	tmpl, err := l.Get(category, name)
	if err != nil {
		return "", err
	}
	return l.Render(tmpl, params)
}

func (l *local) Categories() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(l.dir, l.language))
	if err != nil {
		return nil, fmt.Errorf("read prompt dir: %w", err)
	}

	var categories []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") {
			categories = append(categories, strings.TrimSuffix(name, ".yaml"))
		}
	}

	sort.Strings(categories)
	return categories, nil
}

func (l *local) Names(category string) ([]string, error) {
	templates, err := l.load(l.language, category)
	if err != nil && l.fallback != l.language {
		templates, err = l.load(l.fallback, category)
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

func (l *local) load(language, category string) (map[string]*Template, error) {
	key := language + "/" + category

	l.mu.RLock()
	if templates, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return templates, nil
	}
	l.mu.RUnlock()

	path := filepath.Join(l.dir, language, category+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: category %s (%s)", ErrNotFound, category, language)
		}
		return nil, fmt.Errorf("read prompt file %s: %w", path, err)
	}

	var raw map[string]*Template
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prompt file %s: %w", path, err)
	}

	for name, tmpl := range raw {
		if tmpl == nil {
			return nil, fmt.Errorf("prompt %s/%s has no body", category, name)
		}
		tmpl.Name = name
	}

	l.mu.Lock()
	l.cache[key] = raw
	l.mu.Unlock()

	return raw, nil
}
