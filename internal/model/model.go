// Package model defines the shared data shapes for Worldmood:
// country summaries, detail records, and articles.
package model

import "time"

// Summary is the per-country bulk record used to color the map and
// populate the country list. A nil Score means the country has no data
// and must never be rendered as a zero-score band.
type Summary struct {
	ID           string
	Name         string
	Score        *float64
	ArticleCount int
}

// HasData reports whether the summary carries a usable score.
func (s Summary) HasData() bool {
	return s.Score != nil
}

// NoData returns the degraded summary for a country whose fetch failed
// or whose payload was unusable.
func NoData(id string) Summary {
	return Summary{ID: id, Name: DisplayName(id)}
}

// SentimentCounts are raw article counts per sentiment category.
type SentimentCounts struct {
	Positive int
	Neutral  int
	Negative int
}

// Total returns the sum of all three counts.
func (c SentimentCounts) Total() int {
	return c.Positive + c.Neutral + c.Negative
}

// Article is a single news card attached to a country.
// Published is the zero time when the source timestamp was unparsable;
// zero-time articles sort as oldest.
type Article struct {
	ID        string
	Title     string
	Summary   string
	URL       string
	Published time.Time
	Country   string
}

// DedupKey returns the identifier used to collapse duplicate articles
// across countries: the first non-empty of ID, URL, Title.
func (a Article) DedupKey() string {
	switch {
	case a.ID != "":
		return a.ID
	case a.URL != "":
		return a.URL
	default:
		return a.Title
	}
}

// Detail is the full per-country record behind the popup.
type Detail struct {
	Summary
	TrendDelta  *float64
	ScoreLabel  string
	Assessment  string
	Sentiment   SentimentCounts
	Articles    []Article
	LastUpdated time.Time
}
