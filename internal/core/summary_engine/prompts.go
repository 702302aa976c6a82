package summary_engine

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// PromptKind selects a template from the catalog.
type PromptKind string

const (
	PromptChunk PromptKind = "chunk"
	PromptMeta  PromptKind = "meta"
	PromptFinal PromptKind = "final"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// PromptData is the template input.
type PromptData struct {
	Index    int
	Total    int
	Content  string
	Sections []string
	Language string
}

type promptPair struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

type promptFile struct {
	Sections []string   `yaml:"sections"`
	Chunk    promptPair `yaml:"chunk"`
	Meta     promptPair `yaml:"meta"`
	Final    promptPair `yaml:"final"`
}

type compiledPrompt struct {
	system *template.Template
	user   *template.Template
}

// PromptCatalog holds the compiled chunk, meta and final-pass prompts.
type PromptCatalog struct {
	sections []string
	prompts  map[PromptKind]compiledPrompt
}

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
}

// LoadPromptCatalog reads path, or the embedded default when path is empty.
func LoadPromptCatalog(path string) (*PromptCatalog, error) {
	raw := defaultPrompts
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read prompts file: %w", err)
		}
		raw = b
	}
	return ParsePromptCatalog(raw)
}

func ParsePromptCatalog(raw []byte) (*PromptCatalog, error) {
	var pf promptFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if len(pf.Sections) == 0 {
		return nil, fmt.Errorf("parse prompts: at least one section is required")
	}

	c := &PromptCatalog{sections: pf.Sections, prompts: make(map[PromptKind]compiledPrompt, 3)}
	for kind, pair := range map[PromptKind]promptPair{
		PromptChunk: pf.Chunk,
		PromptMeta:  pf.Meta,
		PromptFinal: pf.Final,
	} {
		if strings.TrimSpace(pair.User) == "" {
			return nil, fmt.Errorf("parse prompts: %s.user is empty", kind)
		}
		sys, err := template.New(string(kind) + ".system").Funcs(templateFuncs).Parse(pair.System)
		if err != nil {
			return nil, fmt.Errorf("parse prompts: %s.system: %w", kind, err)
		}
		usr, err := template.New(string(kind) + ".user").Funcs(templateFuncs).Parse(pair.User)
		if err != nil {
			return nil, fmt.Errorf("parse prompts: %s.user: %w", kind, err)
		}
		c.prompts[kind] = compiledPrompt{system: sys, user: usr}
	}
	return c, nil
}

// Sections is the configured report taxonomy.
func (c *PromptCatalog) Sections() []string {
	return append([]string(nil), c.sections...)
}

// Render returns the system and user prompts for kind.
func (c *PromptCatalog) Render(kind PromptKind, data PromptData) (string, string, error) {
	p, ok := c.prompts[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown prompt kind %q", kind)
	}
	if data.Sections == nil {
		data.Sections = c.sections
	}

	var sys, usr strings.Builder
	if err := p.system.Execute(&sys, data); err != nil {
		return "", "", fmt.Errorf("render %s system prompt: %w", kind, err)
	}
	if err := p.user.Execute(&usr, data); err != nil {
		return "", "", fmt.Errorf("render %s user prompt: %w", kind, err)
	}
	return strings.TrimSpace(sys.String()), strings.TrimSpace(usr.String()), nil
}
