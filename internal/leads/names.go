package leads

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// namePattern is the token shape; word boundaries are checked separately so
// that non-ASCII letters and digits count as part of a word.
var namePattern = regexp.MustCompile(`[A-Z][a-z]{2,}`)

// defaultStopwords are real estate terms that look like names but never are.
var defaultStopwords = []string{
	"Flat", "House", "Apartment", "Land", "Plot", "Contact", "Owner", "Agent",
	"Buy", "Sell", "Rent", "Available", "Requirement", "Looking", "BHK", "Sqft",
}

// Stoplist is a case-sensitive set of tokens excluded from name results.
type Stoplist map[string]struct{}

// DefaultStoplist returns a fresh copy of the built-in stoplist.
func DefaultStoplist() Stoplist {
	return NewStoplist(defaultStopwords...)
}

// NewStoplist builds a stoplist from words. Empty strings are ignored.
func NewStoplist(words ...string) Stoplist {
	s := make(Stoplist, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		s[w] = struct{}{}
	}
	return s
}

// With returns a new stoplist containing s plus words.
func (s Stoplist) With(words ...string) Stoplist {
	out := make(Stoplist, len(s)+len(words))
	for w := range s {
		out[w] = struct{}{}
	}
	for _, w := range words {
		if w != "" {
			out[w] = struct{}{}
		}
	}
	return out
}

// Contains reports whether word is stopped.
func (s Stoplist) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// NameExtractor finds capitalized, name-shaped tokens and drops stopped ones.
// The zero value uses the default stoplist.
type NameExtractor struct {
	Stoplist Stoplist
}

// NewNameExtractor returns an extractor using stop, or the default stoplist
// when stop is nil. Pass an empty non-nil Stoplist to disable filtering.
func NewNameExtractor(stop Stoplist) *NameExtractor {
	if stop == nil {
		stop = DefaultStoplist()
	}
	return &NameExtractor{Stoplist: stop}
}

var defaultNames = NewNameExtractor(nil)

// ExtractNames runs the default NameExtractor over text.
func ExtractNames(text string) []string {
	return defaultNames.Extract(text)
}

// Extract returns the distinct candidate names in text in order of first
// appearance. Callers must treat the result as a set.
func (e *NameExtractor) Extract(text string) []string {
	stop := e.Stoplist
	if stop == nil {
		stop = defaultNames.Stoplist
	}
	names := []string{}
	seen := make(map[string]struct{})
	for _, loc := range namePattern.FindAllStringIndex(text, -1) {
		if !isWordBoundary(text, loc[0], loc[1]) {
			continue
		}
		tok := text[loc[0]:loc[1]]
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if stop.Contains(tok) {
			continue
		}
		names = append(names, tok)
	}
	return names
}

// isWordBoundary reports whether text[start:end] is not glued to a longer word.
func isWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
