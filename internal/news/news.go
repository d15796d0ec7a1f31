package news

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Story is one extracted article candidate.
type Story struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	ScrapedAt   time.Time `json:"scraped_at"`
	PublishDate string    `json:"publish_date,omitempty"`
}

// Source is a configured news website with its selector rules.
type Source struct {
	Name      string   `yaml:"name"`
	SearchURL string   `yaml:"search_url"`
	BaseURL   string   `yaml:"base_url"`
	FeedURL   string   `yaml:"feed_url,omitempty"`
	Selectors []string `yaml:"selectors"`
	Priority  int      `yaml:"priority,omitempty"`
}

// UniqueByURL drops every story whose URL was already seen, keeping the first.
func UniqueByURL(stories []Story) []Story {
	seen := make(map[string]bool, len(stories))
	out := make([]Story, 0, len(stories))
	for _, s := range stories {
		if seen[s.URL] {
			continue
		}
		seen[s.URL] = true
		out = append(out, s)
	}
	return out
}

// containsAny reports whether text contains any keyword as a substring.
// Both sides are compared lowercase.
func containsAny(text string, keywords []string) bool {
	text = strings.ToLower(text)

	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// countMatches counts the keywords contained in text.
func countMatches(text string, keywords []string) int {
	text = strings.ToLower(text)

	n := 0
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(text, k) {
			n++
		}
	}
	return n
}

// TruncateRunes cuts s to at most max runes without splitting a character.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
