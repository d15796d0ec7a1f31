// Package storage writes the run's outputs: the scraped links as JSON and the
// generated piece as a text file.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/jtblnchrd-eng/AutoContent/internal/news"
)

var (
	slugStrip = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugJoin  = regexp.MustCompile(`[-\s]+`)
)

// FileNameData is what the content file name template sees.
type FileNameData struct {
	Timestamp string // 20060102_150405
	Slug      string
}

// SaveStories writes stories to dir/name as an indented JSON array.
// HTML characters are written as is.
func SaveStories(dir, name string, stories []news.Story) (string, error) {
	if stories == nil {
		stories = []news.Story{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stories); err != nil {
		return "", fmt.Errorf("failed to marshal stories: %w", err)
	}

	return write(dir, name, buf.Bytes())
}

// SaveContent writes the generated text to dir/name.
func SaveContent(dir, name, text string) (string, error) {
	return write(dir, name, []byte(text))
}

func write(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Slug makes a file-name-safe fragment of at most 50 runes from a title.
func Slug(title string) string {
	s := strings.TrimSpace(slugStrip.ReplaceAllString(title, ""))
	s = news.TruncateRunes(s, 50)
	return slugJoin.ReplaceAllString(s, "_")
}

// ContentFileName renders the profile's file name template.
func ContentFileName(tmpl *template.Template, ts time.Time, title string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, FileNameData{
		Timestamp: ts.Format("20060102_150405"),
		Slug:      Slug(title),
	}); err != nil {
		return "", fmt.Errorf("render file name: %w", err)
	}

	name := filepath.Base(strings.TrimSpace(buf.String()))
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("file name template rendered an empty name")
	}
	return name, nil
}
