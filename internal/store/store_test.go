package store

import (
	"testing"
	"time"

	"github.com/kbaumler/worldmood/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSummariesRoundTrip(t *testing.T) {
	s := openTestStore(t)

	score := 42.0
	in := []model.Summary{
		{ID: "DE", Name: "Germany", Score: &score, ArticleCount: 7},
		{ID: "FR", Name: "France", Score: nil, ArticleCount: 0},
	}
	if err := s.SaveSummaries(in); err != nil {
		t.Fatalf("SaveSummaries failed: %v", err)
	}

	got, err := s.GetSummaries()
	if err != nil {
		t.Fatalf("GetSummaries failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}

	de := got["DE"]
	if de.Score == nil || *de.Score != 42 || de.ArticleCount != 7 {
		t.Errorf("unexpected DE summary: %+v", de)
	}

	// Absent score must survive the round trip as absent, never as zero.
	fr := got["FR"]
	if fr.Score != nil {
		t.Errorf("FR score should be nil, got %v", *fr.Score)
	}
}

func TestSaveSummariesUpsert(t *testing.T) {
	s := openTestStore(t)

	old, updated := 10.0, 80.0
	if err := s.SaveSummaries([]model.Summary{{ID: "IT", Name: "Italy", Score: &old, ArticleCount: 1}}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := s.SaveSummaries([]model.Summary{{ID: "IT", Name: "Italy", Score: &updated, ArticleCount: 3}}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	got, err := s.GetSummaries()
	if err != nil {
		t.Fatalf("GetSummaries failed: %v", err)
	}
	it := got["IT"]
	if it.Score == nil || *it.Score != 80 || it.ArticleCount != 3 {
		t.Errorf("upsert did not replace summary: %+v", it)
	}
}

func TestArticlesRoundTrip(t *testing.T) {
	s := openTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	articles := []model.Article{
		{ID: "a1", Title: "Newer", URL: "http://example.com/1", Published: now, Country: "DE"},
		{ID: "a2", Title: "Older", URL: "http://example.com/2", Published: now.Add(-time.Hour), Country: "DE"},
	}
	if err := s.SaveArticles("DE", articles); err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}

	got, err := s.GetArticles("DE", 10)
	if err != nil {
		t.Fatalf("GetArticles failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	if got[0].ID != "a1" {
		t.Errorf("articles not ordered newest first: %+v", got)
	}
}

func TestSaveArticlesReplacesCountry(t *testing.T) {
	s := openTestStore(t)

	now := time.Now().UTC()
	first := []model.Article{{ID: "old", Title: "Old", Published: now, Country: "SE"}}
	if err := s.SaveArticles("SE", first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	second := []model.Article{{ID: "new", Title: "New", Published: now, Country: "SE"}}
	if err := s.SaveArticles("SE", second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	got, err := s.GetArticles("SE", 10)
	if err != nil {
		t.Fatalf("GetArticles failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "new" {
		t.Errorf("save should replace a country's articles, got %+v", got)
	}
}

func TestGetArticlesAllCountries(t *testing.T) {
	s := openTestStore(t)

	now := time.Now().UTC()
	s.SaveArticles("DE", []model.Article{{ID: "d1", Title: "DE story", Published: now, Country: "DE"}})
	s.SaveArticles("FR", []model.Article{{ID: "f1", Title: "FR story", Published: now.Add(time.Minute), Country: "FR"}})

	got, err := s.GetArticles("", 10)
	if err != nil {
		t.Fatalf("GetArticles failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 articles across countries, got %d", len(got))
	}
	if got[0].Country != "FR" {
		t.Errorf("expected newest-first across countries, got %+v", got)
	}
}
