package rss

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// FeedItem is a feed entry reduced to what the link cascade needs.
type FeedItem struct {
	Title     string
	Link      string
	Published *time.Time
}

// PublishDate formats the item's publish time as 2006-01-02, or "".
func (i FeedItem) PublishDate() string {
	if i.Published == nil {
		return ""
	}
	return i.Published.Format("2006-01-02")
}

// Parse reads an RSS or Atom document.
func Parse(r io.Reader) ([]FeedItem, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		item := FeedItem{
			Title: strings.TrimSpace(it.Title),
			Link:  strings.TrimSpace(it.Link),
		}
		if it.PublishedParsed != nil {
			item.Published = it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			item.Published = it.UpdatedParsed
		}
		items = append(items, item)
	}
	return items, nil
}
