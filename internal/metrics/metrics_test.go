package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.IncrementSourcesScraped()
	m.IncrementSourcesScraped()
	m.IncrementSourcesFailed()
	m.AddLinksExamined(12)
	m.IncrementStoriesAccepted()
	m.IncrementDuplicatesFiltered()
	m.IncrementFeedFallbacks()
	m.RecordSelection(true)
	m.RecordGeneration(false)
	m.IncrementArticleFailures()
	m.RecordScrapeDuration(1500 * time.Millisecond)
	m.SetError("boom")
	m.Finish()

	stats := m.GetStats()
	assert.EqualValues(t, 2, stats["sources_scraped"])
	assert.EqualValues(t, 1, stats["sources_failed"])
	assert.EqualValues(t, 12, stats["links_examined"])
	assert.EqualValues(t, 1, stats["stories_accepted"])
	assert.EqualValues(t, 1, stats["duplicates_filtered"])
	assert.EqualValues(t, 1, stats["feed_fallbacks"])
	assert.EqualValues(t, 1, stats["llm_selections"])
	assert.EqualValues(t, 0, stats["fallback_selections"])
	assert.EqualValues(t, 0, stats["llm_generations"])
	assert.EqualValues(t, 1, stats["fallback_generations"])
	assert.EqualValues(t, 1, stats["article_failures"])
	assert.EqualValues(t, 1500, stats["scrape_time_ms"])
	assert.Equal(t, "boom", stats["last_error"])
}
