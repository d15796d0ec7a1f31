package news

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// LengthBonus rewards titles whose rune length falls in [Min, Max].
type LengthBonus struct {
	Min    int `yaml:"min"`
	Max    int `yaml:"max"`
	Points int `yaml:"points"`
}

// RecencyBonus rewards stories that look fresh: a title term such as "today",
// or a publish date carrying the current year.
type RecencyBonus struct {
	TitleTerms  []string `yaml:"title_terms"`
	CurrentYear bool     `yaml:"current_year"`
	Points      int      `yaml:"points"`
}

// Scorer is the deterministic fallback used when no LLM picks the story.
type Scorer struct {
	Keywords        []string
	KeywordWeight   int
	Priorities      map[string]int // by source name
	DefaultPriority int
	Length          LengthBonus
	Recency         RecencyBonus
}

// Score computes keyword hits x weight + source priority + bonuses.
func (s Scorer) Score(story Story, now time.Time) int {
	score := countMatches(story.Title, s.Keywords) * s.KeywordWeight

	if p, ok := s.Priorities[story.Source]; ok {
		score += p
	} else {
		score += s.DefaultPriority
	}

	if s.Length.Points != 0 {
		n := utf8.RuneCountInString(story.Title)
		if n >= s.Length.Min && n <= s.Length.Max {
			score += s.Length.Points
		}
	}

	if s.Recency.Points != 0 && s.recent(story, now) {
		score += s.Recency.Points
	}

	return score
}

func (s Scorer) recent(story Story, now time.Time) bool {
	if containsAny(story.Title, s.Recency.TitleTerms) {
		return true
	}
	return s.Recency.CurrentYear && strings.Contains(story.PublishDate, strconv.Itoa(now.Year()))
}

// Best returns the index and score of the highest scoring story.
// Ties go to the earliest story. ok is false for an empty slice.
func (s Scorer) Best(stories []Story, now time.Time) (idx, score int, ok bool) {
	if len(stories) == 0 {
		return 0, 0, false
	}

	type scored struct {
		idx   int
		score int
	}
	ranked := make([]scored, len(stories))
	for i, st := range stories {
		ranked[i] = scored{idx: i, score: s.Score(st, now)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	return ranked[0].idx, ranked[0].score, true
}
