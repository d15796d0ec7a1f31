// Package profile describes one concrete pipeline: where to scrape, what is
// relevant, how to pick a story and what to write about it. Two profiles are
// built in; others can be loaded from YAML files.
package profile

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jtblnchrd-eng/AutoContent/internal/news"
	"github.com/jtblnchrd-eng/AutoContent/internal/scraper"
)

//go:embed profiles/*.yaml
var builtin embed.FS

type Profile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        string `yaml:"kind"` // video_script | blog_post

	Fetch   scraper.FetchRules   `yaml:"fetch"`
	Sources []news.Source        `yaml:"sources"`
	Links   scraper.LinkRules    `yaml:"links"`
	Filter  news.Filter          `yaml:"filter"`
	Scoring Scoring              `yaml:"scoring"`
	Article scraper.ArticleRules `yaml:"article"`

	Selection  LLMCall    `yaml:"selection"`
	Generation Generation `yaml:"generation"`
	Output     Output     `yaml:"output"`
}

// Scoring holds the fallback selection weights.
type Scoring struct {
	Keywords        []string          `yaml:"keywords"`
	KeywordWeight   int               `yaml:"keyword_weight"`
	DefaultPriority int               `yaml:"default_priority"`
	Length          news.LengthBonus  `yaml:"length_bonus"`
	Recency         news.RecencyBonus `yaml:"recency_bonus"`
}

// LLMCall is one prompt plus its completion parameters.
type LLMCall struct {
	System      string        `yaml:"system"`
	Prompt      string        `yaml:"prompt"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type Generation struct {
	LLMCall      `yaml:",inline"`
	ExcerptChars int    `yaml:"excerpt_chars"`
	EmptyExcerpt string `yaml:"empty_excerpt"`
	Fallback     string `yaml:"fallback"`
}

type Output struct {
	LinksFile   string `yaml:"links_file"`
	ContentFile string `yaml:"content_file"`
}

// Templates are the parsed text templates of a profile.
type Templates struct {
	Selection  *template.Template
	Generation *template.Template
	Fallback   *template.Template
	FileName   *template.Template
}

// FuncMap is available in every profile template.
var FuncMap = template.FuncMap{
	"truncate": func(s string, n int) string { return news.TruncateRunes(s, n) },
}

// Names lists the built-in profiles.
func Names() []string {
	entries, err := builtin.ReadDir("profiles")
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Load returns a built-in profile by name.
func Load(name string) (*Profile, error) {
	data, err := builtin.ReadFile("profiles/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return Parse(data)
}

// LoadFile reads a profile from a YAML file.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML profile. Unknown keys are rejected.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) applyDefaults() {
	if p.Links.Mode == "" {
		p.Links.Mode = scraper.ModeFirstMatch
	}
	if p.Links.GenericThreshold < 1 {
		p.Links.GenericThreshold = 1
	}
	if p.Links.AnchorThreshold < 1 {
		p.Links.AnchorThreshold = 1
	}
	if p.Scoring.DefaultPriority == 0 {
		p.Scoring.DefaultPriority = 1
	}
	if p.Generation.EmptyExcerpt == "" {
		p.Generation.EmptyExcerpt = "No additional content available."
	}
}

func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if len(p.Sources) == 0 {
		return fmt.Errorf("profile %s: at least one source is required", p.Name)
	}
	for i, s := range p.Sources {
		if s.Name == "" || s.SearchURL == "" || s.BaseURL == "" {
			return fmt.Errorf("profile %s: source %d needs name, search_url and base_url", p.Name, i+1)
		}
	}
	if p.Links.Mode != scraper.ModeFirstMatch && p.Links.Mode != scraper.ModeAccumulate {
		return fmt.Errorf("profile %s: links.mode must be %q or %q", p.Name, scraper.ModeFirstMatch, scraper.ModeAccumulate)
	}
	if p.Links.PerSourceLimit <= 0 {
		return fmt.Errorf("profile %s: links.per_source_limit must be positive", p.Name)
	}
	if p.Article.MaxChars <= 0 {
		return fmt.Errorf("profile %s: article.max_chars must be positive", p.Name)
	}
	if p.Generation.ExcerptChars <= 0 {
		return fmt.Errorf("profile %s: generation.excerpt_chars must be positive", p.Name)
	}
	if p.Output.LinksFile == "" || p.Output.ContentFile == "" {
		return fmt.Errorf("profile %s: output.links_file and output.content_file are required", p.Name)
	}
	if _, err := p.Templates(); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return nil
}

// Templates parses the prompt, fallback and file name templates.
func (p *Profile) Templates() (*Templates, error) {
	parse := func(name, text string) (*template.Template, error) {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%s template is empty", name)
		}
		t, err := template.New(name).Funcs(FuncMap).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%s template: %w", name, err)
		}
		return t, nil
	}

	var (
		t   Templates
		err error
	)
	if t.Selection, err = parse("selection", p.Selection.Prompt); err != nil {
		return nil, err
	}
	if t.Generation, err = parse("generation", p.Generation.Prompt); err != nil {
		return nil, err
	}
	if t.Fallback, err = parse("fallback", p.Generation.Fallback); err != nil {
		return nil, err
	}
	if t.FileName, err = parse("content_file", p.Output.ContentFile); err != nil {
		return nil, err
	}
	return &t, nil
}

// Scorer builds the fallback scorer, taking priorities from the sources.
func (p *Profile) Scorer() news.Scorer {
	priorities := make(map[string]int, len(p.Sources))
	for _, s := range p.Sources {
		if s.Priority != 0 {
			priorities[s.Name] = s.Priority
		}
	}

	return news.Scorer{
		Keywords:        p.Scoring.Keywords,
		KeywordWeight:   p.Scoring.KeywordWeight,
		Priorities:      priorities,
		DefaultPriority: p.Scoring.DefaultPriority,
		Length:          p.Scoring.Length,
		Recency:         p.Scoring.Recency,
	}
}
