package scraper

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

const (
	ModeFirstMatch = "first_match"
	ModeAccumulate = "accumulate"
)

// LinkRules configures the link-extraction cascade and candidate checks.
type LinkRules struct {
	Mode               string   `yaml:"mode"`
	GenericSelectors   []string `yaml:"generic_selectors"`
	GenericThreshold   int      `yaml:"generic_threshold"`
	AnchorThreshold    int      `yaml:"anchor_threshold"`
	AnchorHrefPatterns []string `yaml:"anchor_href_patterns"`
	PerSourceLimit     int      `yaml:"per_source_limit"`
	MinTitleLength     int      `yaml:"min_title_length"`
	SkipHrefPatterns   []string `yaml:"skip_href_patterns"`
	RequireHTTP        bool     `yaml:"require_http"`
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`(?i)(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2},?\s+\d{4}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{4}`),
}

// find runs one selector, skipping it when it does not compile.
func find(doc *goquery.Document, selector string) []*goquery.Selection {
	m, err := cascadia.Compile(selector)
	if err != nil {
		slog.Debug("Invalid selector skipped", "selector", selector, "error", err)
		return nil
	}

	var out []*goquery.Selection
	doc.FindMatcher(m).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	return out
}

// Candidates walks the cascade: site selectors, then generic selectors and
// finally every anchor, each lower tier only below its threshold.
func (r LinkRules) Candidates(doc *goquery.Document, siteSelectors []string) []*goquery.Selection {
	var links []*goquery.Selection

	for _, sel := range siteSelectors {
		found := find(doc, sel)
		if len(found) == 0 {
			continue
		}
		slog.Debug("Found links with selector", "selector", sel, "count", len(found))
		links = append(links, found...)
		if r.Mode != ModeAccumulate {
			break
		}
	}

	if len(links) < threshold(r.GenericThreshold) {
		for _, sel := range r.GenericSelectors {
			if found := find(doc, sel); len(found) > 0 {
				links = append(links, found...)
				break
			}
		}
	}

	if len(links) < threshold(r.AnchorThreshold) {
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			if len(r.AnchorHrefPatterns) > 0 {
				href, _ := s.Attr("href")
				if !containsAnyLower(href, r.AnchorHrefPatterns) {
					return
				}
			}
			links = append(links, s)
		})
	}

	return links
}

func threshold(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// skipHref reports hrefs that point to navigation, media or scripts.
func (r LinkRules) skipHref(href string) bool {
	return containsAnyLower(href, r.SkipHrefPatterns)
}

// resolve makes href absolute against base.
func resolve(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return b.ResolveReference(ref).String(), nil
}

// isHTTPURL requires an http(s) scheme and a host.
func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Host != "" && (u.Scheme == "http" || u.Scheme == "https")
}

// publishDate looks for a date in the text around the link.
func publishDate(link *goquery.Selection) string {
	parent := link.Parent()
	if parent.Length() == 0 {
		return ""
	}

	text := parent.Text()
	for _, re := range datePatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsAnyLower(text string, patterns []string) bool {
	text = strings.ToLower(text)
	for _, p := range patterns {
		if p != "" && strings.Contains(text, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
