// Package search scores country labels against a user query for fuzzy
// filtering, ranking, and match highlighting.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Match scores, highest first. An empty query scores every label
// ScoreNeutral so everything passes the filter unranked.
const (
	ScorePrefix    = 300 // label starts with the query
	ScoreWordStart = 200 // some word in the label starts with the query
	ScoreContains  = 100 // query appears anywhere in the label
	ScoreNeutral   = 1   // empty query
	ScoreNone      = 0   // no match, excluded when the query is non-empty
)

// Match pairs a label with its relevance score.
type Match struct {
	Label string
	Score int
}

// fold lower-cases s and strips combining diacritical marks, so that
// "turkiye" matches "Türkiye".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Score rates how well label matches query.
func Score(label, query string) int {
	if query == "" {
		return ScoreNeutral
	}

	l := fold(label)
	q := fold(query)

	if strings.HasPrefix(l, q) {
		return ScorePrefix
	}
	for _, word := range strings.Fields(l) {
		if strings.HasPrefix(word, q) {
			return ScoreWordStart
		}
	}
	if strings.Contains(l, q) {
		return ScoreContains
	}
	return ScoreNone
}

// Rank filters and orders labels by relevance to query: descending
// score, ties broken by locale-aware alphabetical order on the original
// label. With an empty query all labels pass in alphabetical order.
func Rank(labels []string, query string) []Match {
	matches := make([]Match, 0, len(labels))
	for _, label := range labels {
		score := Score(label, query)
		if score == ScoreNone {
			continue
		}
		matches = append(matches, Match{Label: label, Score: score})
	}

	c := collate.New(language.English)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return c.CompareString(matches[i].Label, matches[j].Label) < 0
	})

	return matches
}

// Highlight wraps every case-insensitive occurrence of query within
// label using mark. The query is quoted before the pattern is built so
// special characters cannot produce a malformed expression. Identity
// when the query is empty.
func Highlight(label, query string, mark func(string) string) string {
	if query == "" || mark == nil {
		return label
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return label
	}
	return re.ReplaceAllStringFunc(label, mark)
}
