// Package content turns the selected story and its article text into the
// final piece: a video script or a blog post.
package content

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/jtblnchrd-eng/AutoContent/internal/llm"
	"github.com/jtblnchrd-eng/AutoContent/internal/news"
)

// Data is what the prompt and fallback templates see.
type Data struct {
	Title        string
	Source       string
	URL          string
	Excerpt      string // first ExcerptChars runes, or EmptyExcerpt
	Article      string // full extracted text, possibly empty
	Generated    string // 2006-01-02 15:04:05
	AnalysisDate string // January 02, 2006
}

// Result is the generated text and whether the LLM wrote it.
type Result struct {
	Text   string
	ViaLLM bool
}

type Generator struct {
	LLM          llm.Completer // nil means template fallback only
	Prompt       *template.Template
	Fallback     *template.Template
	Request      llm.Request
	ExcerptChars int
	EmptyExcerpt string
	Now          func() time.Time
}

// Generate asks the LLM for the piece and renders the fallback template when
// that is impossible. An error is returned only if the fallback itself fails.
func (g *Generator) Generate(ctx context.Context, story news.Story, article string) (*Result, error) {
	data := g.data(story, article)

	if g.LLM != nil && g.Prompt != nil {
		text, err := g.askLLM(ctx, data)
		if err == nil {
			slog.Info("✅ AI content generated", "title", story.Title, "chars", len(text))
			return &Result{Text: text, ViaLLM: true}, nil
		}
		slog.Warn("AI generation failed, using fallback template", "error", err)
	} else {
		slog.Warn("LLM not available, using fallback template")
	}

	var buf bytes.Buffer
	if err := g.Fallback.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render fallback: %w", err)
	}
	slog.Info("📝 Fallback content generated", "title", story.Title)
	return &Result{Text: buf.String()}, nil
}

func (g *Generator) askLLM(ctx context.Context, data Data) (string, error) {
	var buf bytes.Buffer
	if err := g.Prompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render generation prompt: %w", err)
	}

	req := g.Request
	req.Prompt = buf.String()
	req.Purpose = "generate"

	text, err := g.LLM.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (g *Generator) data(story news.Story, article string) Data {
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}

	excerpt := news.TruncateRunes(article, g.ExcerptChars)
	if strings.TrimSpace(excerpt) == "" {
		excerpt = g.EmptyExcerpt
	}

	return Data{
		Title:        story.Title,
		Source:       story.Source,
		URL:          story.URL,
		Excerpt:      excerpt,
		Article:      article,
		Generated:    now.Format("2006-01-02 15:04:05"),
		AnalysisDate: now.Format("January 02, 2006"),
	}
}
