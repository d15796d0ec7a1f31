package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
)

// ErrUnexpectedStatus is wrapped into errors for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// FetchRules holds the HTTP settings shared by every request of a run.
type FetchRules struct {
	Headers map[string]string `yaml:"headers"`
	Timeout time.Duration     `yaml:"timeout"`
	Delay   time.Duration     `yaml:"delay"` // pause between sources
}

// Fetcher downloads pages with fixed headers and timeout.
type Fetcher struct {
	client *resty.Client
}

func NewFetcher(rules FetchRules) *Fetcher {
	client := resty.New()
	if rules.Timeout > 0 {
		client.SetTimeout(rules.Timeout)
	} else {
		client.SetTimeout(15 * time.Second)
	}
	client.SetHeaders(rules.Headers)

	return &Fetcher{client: client}
}

// Fetch returns the raw body and its Content-Type.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("error loading page: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode())
	}

	return resp.Body(), resp.Header().Get("Content-Type"), nil
}

// Document fetches url and parses it as HTML, decoding the body to UTF-8.
func (f *Fetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {
	body, contentType, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	var r io.Reader = bytes.NewReader(body)
	if decoded, err := charset.NewReader(r, contentType); err == nil {
		r = decoded
	} else {
		r = bytes.NewReader(body)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	return doc, nil
}
