package news

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/jtblnchrd-eng/AutoContent/internal/llm"
)

var firstNumber = regexp.MustCompile(`\d+`)

// SelectionPrompt is the data handed to the selection prompt template.
type SelectionPrompt struct {
	Stories []Story
	List    string // "N. <title> (Source: <source>)" lines, 1-based
	Count   int
}

// Selection is the chosen story and how it was chosen.
type Selection struct {
	Story  Story
	Index  int
	ViaLLM bool
	Score  int // fallback score, zero for LLM picks
}

// Selector picks the best story, asking the LLM first when one is configured.
type Selector struct {
	LLM     llm.Completer // nil means fallback scoring only
	Prompt  *template.Template
	Request llm.Request // System, MaxTokens, Temperature, Timeout
	Scorer  Scorer
	Now     func() time.Time
}

// Select returns nil when stories is empty.
func (s *Selector) Select(ctx context.Context, stories []Story) *Selection {
	if len(stories) == 0 {
		return nil
	}

	if s.LLM != nil && s.Prompt != nil {
		idx, err := s.askLLM(ctx, stories)
		if err == nil {
			slog.Info("✅ AI selected story", "title", stories[idx].Title, "source", stories[idx].Source)
			return &Selection{Story: stories[idx], Index: idx, ViaLLM: true}
		}
		slog.Warn("AI selection failed, using fallback scoring", "error", err)
	} else {
		slog.Warn("LLM not available, using fallback selection")
	}

	return s.fallback(stories)
}

func (s *Selector) askLLM(ctx context.Context, stories []Story) (int, error) {
	var buf bytes.Buffer
	if err := s.Prompt.Execute(&buf, SelectionPrompt{
		Stories: stories,
		List:    EnumerateStories(stories),
		Count:   len(stories),
	}); err != nil {
		return 0, fmt.Errorf("render selection prompt: %w", err)
	}

	req := s.Request
	req.Prompt = buf.String()
	req.Purpose = "select"

	reply, err := s.LLM.Complete(ctx, req)
	if err != nil {
		return 0, err
	}
	return ParseChoice(reply, len(stories))
}

func (s *Selector) fallback(stories []Story) *Selection {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	idx, score, _ := s.Scorer.Best(stories, now)
	slog.Info("📊 Fallback selected story", "title", stories[idx].Title, "score", score)
	return &Selection{Story: stories[idx], Index: idx, Score: score}
}

// EnumerateStories renders the 1-based story list used in selection prompts.
func EnumerateStories(stories []Story) string {
	lines := make([]string, len(stories))
	for i, st := range stories {
		lines[i] = fmt.Sprintf("%d. %s (Source: %s)", i+1, st.Title, st.Source)
	}
	return strings.Join(lines, "\n")
}

// ParseChoice reads the first integer in reply as a 1-based choice among n
// stories and returns its 0-based index.
func ParseChoice(reply string, n int) (int, error) {
	m := firstNumber.FindString(reply)
	if m == "" {
		return 0, fmt.Errorf("no number in reply %q", strings.TrimSpace(reply))
	}

	choice, err := strconv.Atoi(m)
	if err != nil || choice < 1 || choice > n {
		return 0, fmt.Errorf("choice %s out of range 1..%d", m, n)
	}
	return choice - 1, nil
}
