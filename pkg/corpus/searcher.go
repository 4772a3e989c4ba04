// Package corpus indexes a single text corpus and returns paginated context
// snippets around query matches.
package corpus

import (
	"fmt"
	"index/suffixarray"
	"os"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultContextBytes is the number of bytes shown on each side of a match.
const DefaultContextBytes = 250

// Searcher is an immutable suffix-array index over a lower-cased corpus.
type Searcher struct {
	text         string
	index        *suffixarray.Index
	contextBytes int
}

// New indexes text. Matching is case-insensitive: the corpus and the queries
// are both lower-cased, so snippets come back lower-cased too.
func New(text []byte, contextBytes int) *Searcher {
	if contextBytes <= 0 {
		contextBytes = DefaultContextBytes
	}
	lower := lowerCase(string(text))
	return &Searcher{
		text:         lower,
		index:        suffixarray.New([]byte(lower)),
		contextBytes: contextBytes,
	}
}

// Load reads and indexes the corpus file at path.
func Load(path string, contextBytes int) (*Searcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	return New(data, contextBytes), nil
}

// Size returns the indexed corpus length in bytes.
func (s *Searcher) Size() int {
	return len(s.text)
}

// Count returns the total number of matches for query.
func (s *Searcher) Count(query string) int {
	return len(s.lookup(query))
}

// Search returns page number page (0-based) of pageSize snippets for query,
// in corpus order. Pages past the last match are empty, never nil.
func (s *Searcher) Search(query string, page, pageSize int) []string {
	results := []string{}
	if page < 0 || pageSize <= 0 {
		return results
	}

	idxs := s.lookup(query)
	// page*pageSize can overflow, so the range check divides instead.
	if len(idxs) == 0 || page > (len(idxs)-1)/pageSize {
		return results
	}
	start := page * pageSize
	end := min(start+pageSize, len(idxs))

	for _, idx := range idxs[start:end] {
		results = append(results, s.snippet(idx))
	}
	return results
}

func (s *Searcher) lookup(query string) []int {
	q := lowerCase(query)
	if q == "" {
		return nil
	}
	idxs := s.index.Lookup([]byte(q), -1)
	// Lookup order is unspecified; pagination needs a stable order.
	slices.Sort(idxs)
	return idxs
}

func (s *Searcher) snippet(idx int) string {
	start := max(0, idx-s.contextBytes)
	end := min(len(s.text), idx+s.contextBytes)

	for start > 0 && !utf8.RuneStart(s.text[start]) {
		start--
	}
	for end < len(s.text) && !utf8.RuneStart(s.text[end]) {
		end++
	}
	return s.text[start:end]
}

// cases.Caser is stateful, so a new one is built for every call.
func lowerCase(s string) string {
	return cases.Lower(language.Und).String(s)
}
