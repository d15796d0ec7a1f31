// Package app wires one pipeline run: scrape, select, extract, generate, save.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jtblnchrd-eng/AutoContent/internal/config"
	"github.com/jtblnchrd-eng/AutoContent/internal/content"
	"github.com/jtblnchrd-eng/AutoContent/internal/llm"
	"github.com/jtblnchrd-eng/AutoContent/internal/metrics"
	"github.com/jtblnchrd-eng/AutoContent/internal/news"
	"github.com/jtblnchrd-eng/AutoContent/internal/profile"
	"github.com/jtblnchrd-eng/AutoContent/internal/ratelimit"
	"github.com/jtblnchrd-eng/AutoContent/internal/scraper"
	"github.com/jtblnchrd-eng/AutoContent/internal/storage"
)

// Pipeline holds everything one run needs.
type Pipeline struct {
	Profile   *profile.Profile
	OutputDir string
	LLM       llm.Completer // nil means fallbacks only
	Metrics   *metrics.Metrics
	Preview   io.Writer // nil disables the console table
	Now       func() time.Time
}

// Result describes what a run produced. Empty paths mean nothing was written.
type Result struct {
	Stories     int
	LinksPath   string
	ContentPath string
	Selection   *news.Selection
	ViaLLM      bool // content was written by the LLM
}

// Run loads the LLM backend from cfg and executes the profile once.
func Run(ctx context.Context, cfg *config.Config, p *profile.Profile) (*Result, error) {
	budget := ratelimit.NewLLMBudget(cfg.MaxLLMRequests)

	var completer llm.Completer
	if cfg.LLMDisabled {
		slog.Info("LLM disabled, using fallbacks only")
	} else {
		client, closeFn, err := llm.NewFromConfig(ctx, cfg, budget)
		defer closeFn()
		switch {
		case err != nil:
			slog.Warn("⚠️ LLM client unavailable, using fallbacks only", "error", err)
		default:
			if err := llm.Probe(ctx, client, cfg.LLMProbeTimeout); err != nil {
				slog.Warn("⚠️ LLM not reachable, using fallbacks only", "provider", cfg.LLMProvider, "error", err)
			} else {
				slog.Info("✅ LLM reachable", "provider", cfg.LLMProvider)
				completer = client
			}
		}
	}

	pl := &Pipeline{
		Profile:   p,
		OutputDir: cfg.OutputDir,
		LLM:       completer,
		Metrics:   metrics.Global,
	}
	if cfg.Preview {
		pl.Preview = os.Stdout
	}

	res, err := pl.Run(ctx)
	if err != nil {
		pl.Metrics.SetError(err.Error())
	}
	pl.Metrics.Finish()

	slog.Info("Run statistics", "metrics", pl.Metrics.GetStats(), "llm_budget", budget.GetStats())
	return res, err
}

// Run executes the pipeline. Per-source and per-article failures are logged
// and skipped; an error means an output file could not be written.
func (pl *Pipeline) Run(ctx context.Context) (*Result, error) {
	p := pl.Profile
	now := time.Now
	if pl.Now != nil {
		now = pl.Now
	}
	m := pl.Metrics
	if m == nil {
		m = metrics.New()
	}

	tpl, err := p.Templates()
	if err != nil {
		return nil, err
	}

	fetcher := scraper.NewFetcher(p.Fetch)
	sc := scraper.New(fetcher, p.Links, p.Filter, p.Fetch.Delay, m)

	slog.Info("🔍 Searching news sources", "profile", p.Name, "sources", len(p.Sources))
	stories := news.UniqueByURL(sc.ScrapeAll(ctx, p.Sources))
	res := &Result{Stories: len(stories)}

	if len(stories) == 0 {
		slog.Warn("No news stories found")
		return res, nil
	}
	slog.Info("Found stories", "count", len(stories))

	if pl.Preview != nil {
		WritePreview(pl.Preview, stories, previewRows)
	}

	if res.LinksPath, err = storage.SaveStories(pl.OutputDir, p.Output.LinksFile, stories); err != nil {
		return res, err
	}
	slog.Info("💾 Saved links", "path", res.LinksPath, "count", len(stories))

	selector := &news.Selector{
		LLM:     pl.LLM,
		Prompt:  tpl.Selection,
		Request: request(p.Selection),
		Scorer:  p.Scorer(),
		Now:     now,
	}
	sel := selector.Select(ctx, stories)
	if sel == nil {
		slog.Warn("Could not select best story")
		return res, nil
	}
	res.Selection = sel
	m.RecordSelection(sel.ViaLLM)

	slog.Info("📰 Scraping full article", "title", sel.Story.Title, "url", sel.Story.URL)
	article, err := fetcher.ExtractFullArticle(ctx, sel.Story.URL, p.Article)
	if err != nil {
		m.IncrementArticleFailures()
		slog.Warn("⚠️ Could not extract article, continuing without it", "url", sel.Story.URL, "error", err)
		article = ""
	} else {
		slog.Info("✅ Article extracted", "chars", len([]rune(article)))
	}

	gen := &content.Generator{
		LLM:          pl.LLM,
		Prompt:       tpl.Generation,
		Fallback:     tpl.Fallback,
		Request:      request(p.Generation.LLMCall),
		ExcerptChars: p.Generation.ExcerptChars,
		EmptyExcerpt: p.Generation.EmptyExcerpt,
		Now:          now,
	}
	out, err := gen.Generate(ctx, sel.Story, article)
	if err != nil {
		return res, fmt.Errorf("generate content: %w", err)
	}
	res.ViaLLM = out.ViaLLM
	m.RecordGeneration(out.ViaLLM)

	name, err := storage.ContentFileName(tpl.FileName, now(), sel.Story.Title)
	if err != nil {
		return res, err
	}
	if res.ContentPath, err = storage.SaveContent(pl.OutputDir, name, out.Text); err != nil {
		return res, err
	}

	slog.Info("🎉 Process completed", "links", res.LinksPath, "content", res.ContentPath, "kind", p.Kind)
	return res, nil
}

func request(c profile.LLMCall) llm.Request {
	return llm.Request{
		System:      c.System,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}
}
