package news

import "unicode/utf8"

// Filter decides whether a candidate link is on topic.
type Filter struct {
	Keywords       []string `yaml:"keywords"`
	Exclude        []string `yaml:"exclude"`
	MinTitleLength int      `yaml:"min_title_length"`
}

// Relevant matches keywords against lowercase title and href joined by a space.
// Titles shorter than MinTitleLength runes are never relevant.
func (f Filter) Relevant(title, href string) bool {
	if utf8.RuneCountInString(title) < f.MinTitleLength {
		return false
	}

	text := title + " " + href
	if !containsAny(text, f.Keywords) {
		return false
	}
	return !containsAny(text, f.Exclude)
}
