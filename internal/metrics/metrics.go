package metrics

import (
	"sync"
	"time"
)

// Metrics collects counters for one pipeline run.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	SourcesScraped      int64
	SourcesFailed       int64
	LinksExamined       int64
	StoriesAccepted     int64
	DuplicatesFiltered  int64
	FeedFallbacks       int64
	LLMSelections       int64
	FallbackSelections  int64
	LLMGenerations      int64
	FallbackGenerations int64
	ArticleFailures     int64

	// Timings
	ScrapeDuration time.Duration
	TotalDuration  time.Duration

	// Status
	StartedAt time.Time
	LastError string
}

// Global is the process-wide instance used by the CLI.
var Global = New()

func New() *Metrics {
	return &Metrics{StartedAt: time.Now()}
}

func (m *Metrics) IncrementSourcesScraped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesScraped++
}

func (m *Metrics) IncrementSourcesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) AddLinksExamined(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinksExamined += int64(n)
}

func (m *Metrics) IncrementStoriesAccepted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoriesAccepted++
}

func (m *Metrics) IncrementDuplicatesFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) IncrementFeedFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedFallbacks++
}

// RecordSelection counts how the best story was chosen.
func (m *Metrics) RecordSelection(viaLLM bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if viaLLM {
		m.LLMSelections++
	} else {
		m.FallbackSelections++
	}
}

// RecordGeneration counts how the content artifact was produced.
func (m *Metrics) RecordGeneration(viaLLM bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if viaLLM {
		m.LLMGenerations++
	} else {
		m.FallbackGenerations++
	}
}

func (m *Metrics) IncrementArticleFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticleFailures++
}

func (m *Metrics) RecordScrapeDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScrapeDuration += d
}

// Finish stamps the total run duration.
func (m *Metrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalDuration = time.Since(m.StartedAt)
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"sources_scraped":      m.SourcesScraped,
		"sources_failed":       m.SourcesFailed,
		"links_examined":       m.LinksExamined,
		"stories_accepted":     m.StoriesAccepted,
		"duplicates_filtered":  m.DuplicatesFiltered,
		"feed_fallbacks":       m.FeedFallbacks,
		"llm_selections":       m.LLMSelections,
		"fallback_selections":  m.FallbackSelections,
		"llm_generations":      m.LLMGenerations,
		"fallback_generations": m.FallbackGenerations,
		"article_failures":     m.ArticleFailures,
		"scrape_time_ms":       m.ScrapeDuration.Milliseconds(),
		"total_time_ms":        m.TotalDuration.Milliseconds(),
		"started_at":           m.StartedAt.Format(time.RFC3339),
		"last_error":           m.LastError,
	}
}
