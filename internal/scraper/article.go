package scraper

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jtblnchrd-eng/AutoContent/internal/news"
)

// ArticleRules configures body extraction for one profile.
type ArticleRules struct {
	Remove                []string `yaml:"remove"`
	ContentSelectors      []string `yaml:"content_selectors"`
	MinParagraphLength    int      `yaml:"min_paragraph_length"`
	SkipPhrases           []string `yaml:"skip_phrases"`
	FallbackMinLength     int      `yaml:"fallback_min_length"`
	FallbackMaxParagraphs int      `yaml:"fallback_max_paragraphs"`
	MaxChars              int      `yaml:"max_chars"`
}

// ExtractFullArticle downloads url and returns its cleaned body text.
func (f *Fetcher) ExtractFullArticle(ctx context.Context, url string, rules ArticleRules) (string, error) {
	doc, err := f.Document(ctx, url)
	if err != nil {
		return "", err
	}
	return ExtractText(doc, rules), nil
}

// ExtractText strips boilerplate elements and collects paragraph text,
// first from the content containers and otherwise from every long <p>.
// The result never exceeds rules.MaxChars runes.
func ExtractText(doc *goquery.Document, rules ArticleRules) string {
	for _, sel := range rules.Remove {
		for _, s := range find(doc, sel) {
			s.Remove()
		}
	}

	content := ""
	for _, sel := range rules.ContentSelectors {
		found := find(doc, sel)
		if len(found) == 0 {
			continue
		}
		if blocks := contentBlocks(found[0], rules); len(blocks) > 0 {
			content = strings.Join(blocks, " ")
			break
		}
	}

	if content == "" {
		var paragraphs []string
		doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			if rules.FallbackMaxParagraphs > 0 && len(paragraphs) >= rules.FallbackMaxParagraphs {
				return
			}
			text := normalizeSpace(s.Text())
			if utf8.RuneCountInString(text) > rules.FallbackMinLength {
				paragraphs = append(paragraphs, text)
			}
		})
		content = strings.Join(paragraphs, " ")
	}

	content = normalizeSpace(content)
	if rules.MaxChars > 0 {
		content = news.TruncateRunes(content, rules.MaxChars)
	}
	return content
}

// contentBlocks returns the text of <p> and <div> elements. A <div> that
// wraps further blocks contributes only its own text, so nested text is
// counted once.
func contentBlocks(container *goquery.Selection, rules ArticleRules) []string {
	var blocks []string
	container.Find("p, div").Each(func(_ int, s *goquery.Selection) {
		var text string
		if goquery.NodeName(s) == "div" && s.Find("p, div").Length() > 0 {
			text = ownText(s)
		} else {
			text = normalizeSpace(s.Text())
		}

		if utf8.RuneCountInString(text) <= rules.MinParagraphLength {
			return
		}
		if containsAnyLower(text, rules.SkipPhrases) {
			return
		}
		blocks = append(blocks, text)
	})
	return blocks
}

// ownText is the text of s outside its nested <p> and <div> blocks.
func ownText(s *goquery.Selection) string {
	var parts []string
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		switch c.Nodes[0].Type {
		case html.TextNode:
			parts = append(parts, c.Text())
		case html.ElementNode:
			if goquery.NodeName(c) != "p" && goquery.NodeName(c) != "div" && c.Find("p, div").Length() == 0 {
				parts = append(parts, c.Text())
			}
		}
	})
	return normalizeSpace(strings.Join(parts, " "))
}
