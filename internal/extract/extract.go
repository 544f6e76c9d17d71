// Package extract locates the availability count adjacent to a keyword
// in fetched page content.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"coursewatch/internal/watch"
)

// lookahead bounds how far past the keyword the scan searches for the
// first digit before giving up.
const lookahead = 20

var (
	spaceRuns = regexp.MustCompile(`[ \t]+`)
	blankRuns = regexp.MustCompile(`\n{2,}`)
)

// Extractor reduces an HTML document to visible text and parses the
// integer following the configured keyword.
type Extractor struct{}

// New returns an Extractor.
func New() Extractor {
	return Extractor{}
}

// Extract finds the first occurrence of keyword in the visible text of
// body and returns the first maximal run of decimal digits that starts
// within the lookahead window after it. Pages with multiple keyword
// matches use the first one; later occurrences are never considered.
func (Extractor) Extract(body string, keyword string, ignoreCase bool) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("parse page: %w", err)
	}
	text := normalize(doc.Text())

	needle := keyword
	if ignoreCase {
		text = strings.ToLower(text)
		needle = strings.ToLower(keyword)
	}

	idx := strings.Index(text, needle)
	if idx < 0 {
		return 0, &watch.ExtractError{Kind: watch.ExtractKeywordNotFound, Keyword: keyword}
	}

	rest := text[idx+len(needle):]
	for i := 0; i < len(rest) && i < lookahead; i++ {
		if !isDigit(rest[i]) {
			continue
		}
		j := i
		for j < len(rest) && isDigit(rest[j]) {
			j++
		}
		n, err := strconv.Atoi(rest[i:j])
		if err != nil {
			// Digit run too long to be a seat count.
			return 0, &watch.ExtractError{Kind: watch.ExtractNumberNotFound, Keyword: keyword}
		}
		return n, nil
	}
	return 0, &watch.ExtractError{Kind: watch.ExtractNumberNotFound, Keyword: keyword}
}

// normalize collapses horizontal whitespace runs and blank lines so a
// keyword split by markup spacing still matches.
func normalize(text string) string {
	text = spaceRuns.ReplaceAllString(text, " ")
	return blankRuns.ReplaceAllString(text, "\n")
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
