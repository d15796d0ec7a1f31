package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/jtblnchrd-eng/AutoContent/internal/metrics"
	"github.com/jtblnchrd-eng/AutoContent/internal/news"
	"github.com/jtblnchrd-eng/AutoContent/internal/rss"
)

// Scraper turns source listing pages into relevant stories.
type Scraper struct {
	fetcher *Fetcher
	rules   LinkRules
	filter  news.Filter
	delay   time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(fetcher *Fetcher, rules LinkRules, filter news.Filter, delay time.Duration, m *metrics.Metrics) *Scraper {
	if m == nil {
		m = metrics.New()
	}
	return &Scraper{
		fetcher: fetcher,
		rules:   rules,
		filter:  filter,
		delay:   delay,
		metrics: m,
		now:     time.Now,
	}
}

// ScrapeAll visits every source in order, pausing between them. A failing
// source is logged and skipped. URLs are unique across the whole result.
func (s *Scraper) ScrapeAll(ctx context.Context, sources []news.Source) []news.Story {
	start := time.Now()
	defer func() { s.metrics.RecordScrapeDuration(time.Since(start)) }()

	seen := make(map[string]bool)
	var all []news.Story

	for i, src := range sources {
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
				slog.Warn("Scraping interrupted", "error", ctx.Err())
				return all
			case <-time.After(s.delay):
			}
		}
		if ctx.Err() != nil {
			slog.Warn("Scraping interrupted", "error", ctx.Err())
			return all
		}

		stories, err := s.ScrapeSource(ctx, src, seen)
		if err != nil {
			s.metrics.IncrementSourcesFailed()
			slog.Error("Error scraping source", "source", src.Name, "error", err)
			continue
		}
		s.metrics.IncrementSourcesScraped()
		slog.Info("Found stories", "source", src.Name, "count", len(stories))
		all = append(all, stories...)
	}

	return all
}

// ScrapeSource extracts the relevant stories of one source. seen carries the
// URLs accepted so far in the run and is updated in place.
func (s *Scraper) ScrapeSource(ctx context.Context, src news.Source, seen map[string]bool) ([]news.Story, error) {
	if seen == nil {
		seen = make(map[string]bool)
	}

	var stories []news.Story
	doc, pageErr := s.fetcher.Document(ctx, src.SearchURL)
	if pageErr == nil {
		links := s.rules.Candidates(doc, src.Selectors)
		s.metrics.AddLinksExamined(len(links))
		slog.Debug("Total links found", "source", src.Name, "count", len(links))

		for _, link := range links {
			if s.full(stories) {
				break
			}
			href, _ := link.Attr("href")
			story, ok := s.accept(src, normalizeSpace(link.Text()), href, seen)
			if !ok {
				continue
			}
			story.PublishDate = publishDate(link)
			stories = append(stories, story)
		}
	}

	if len(stories) > 0 || src.FeedURL == "" {
		if pageErr != nil {
			return nil, pageErr
		}
		return stories, nil
	}

	feedStories, feedErr := s.scrapeFeed(ctx, src, seen)
	if feedErr != nil {
		if pageErr != nil {
			return nil, errors.Join(pageErr, fmt.Errorf("feed: %w", feedErr))
		}
		slog.Warn("Feed fallback failed", "source", src.Name, "error", feedErr)
		return stories, nil
	}
	return feedStories, nil
}

// scrapeFeed is the last tier: candidate links taken from the source's feed.
func (s *Scraper) scrapeFeed(ctx context.Context, src news.Source, seen map[string]bool) ([]news.Story, error) {
	body, _, err := s.fetcher.Fetch(ctx, src.FeedURL)
	if err != nil {
		return nil, err
	}
	items, err := rss.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementFeedFallbacks()
	s.metrics.AddLinksExamined(len(items))

	var stories []news.Story
	for _, item := range items {
		if s.full(stories) {
			break
		}
		story, ok := s.accept(src, normalizeSpace(item.Title), item.Link, seen)
		if !ok {
			continue
		}
		story.PublishDate = item.PublishDate()
		stories = append(stories, story)
	}
	slog.Info("Used feed fallback", "source", src.Name, "count", len(stories))
	return stories, nil
}

func (s *Scraper) full(stories []news.Story) bool {
	return s.rules.PerSourceLimit > 0 && len(stories) >= s.rules.PerSourceLimit
}

// accept applies the candidate checks in order and marks the URL as seen.
func (s *Scraper) accept(src news.Source, title, href string, seen map[string]bool) (news.Story, bool) {
	if title == "" || href == "" || utf8.RuneCountInString(title) < s.rules.MinTitleLength {
		return news.Story{}, false
	}
	if s.rules.skipHref(href) {
		return news.Story{}, false
	}
	if !s.filter.Relevant(title, href) {
		return news.Story{}, false
	}

	fullURL, err := resolve(src.BaseURL, href)
	if err != nil {
		return news.Story{}, false
	}
	if s.rules.RequireHTTP && !isHTTPURL(fullURL) {
		return news.Story{}, false
	}
	if seen[fullURL] {
		s.metrics.IncrementDuplicatesFiltered()
		return news.Story{}, false
	}
	seen[fullURL] = true
	s.metrics.IncrementStoriesAccepted()

	return news.Story{
		Title:     title,
		URL:       fullURL,
		Source:    src.Name,
		ScrapedAt: s.now(),
	}, true
}
