package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jtblnchrd-eng/AutoContent/internal/news"
)

const (
	previewRows        = 10
	previewTitleWidth  = 70
	previewSourceWidth = 24
)

// WritePreview prints the first n stories as an aligned table.
func WritePreview(w io.Writer, stories []news.Story, n int) {
	if n > len(stories) {
		n = len(stories)
	}

	fmt.Fprintf(w, "%3s  %s  %s  %s\n", "#",
		pad("SOURCE", previewSourceWidth), pad("TITLE", previewTitleWidth), "DATE")
	fmt.Fprintln(w, strings.Repeat("-", 3+2+previewSourceWidth+2+previewTitleWidth+2+10))

	for i := 0; i < n; i++ {
		st := stories[i]
		fmt.Fprintf(w, "%3d  %s  %s  %s\n", i+1,
			pad(st.Source, previewSourceWidth), pad(st.Title, previewTitleWidth), st.PublishDate)
	}
	if len(stories) > n {
		fmt.Fprintf(w, "... and %d more\n", len(stories)-n)
	}
}

// pad truncates s to width display cells and fills the rest with spaces.
func pad(s string, width int) string {
	s = runewidth.Truncate(s, width, "…")
	return runewidth.FillRight(s, width)
}
