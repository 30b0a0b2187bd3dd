package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(url, 5*time.Second, 100)
}

func TestFetchSummaryShapes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantScore *float64
		wantCount int
	}{
		{
			name:      "articles field",
			body:      `{"score": 42, "articles": 7}`,
			wantScore: ptr(42.0),
			wantCount: 7,
		},
		{
			name:      "sources fallback",
			body:      `{"score": 10, "sources": 3}`,
			wantScore: ptr(10.0),
			wantCount: 3,
		},
		{
			name:      "latest_articles length fallback",
			body:      `{"score": 10, "latest_articles": [{"title": "a"}, {"title": "b"}]}`,
			wantScore: ptr(10.0),
			wantCount: 2,
		},
		{
			name:      "absent score",
			body:      `{"articles": 0}`,
			wantScore: nil,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			sum, _, err := newTestClient(server.URL).FetchSummary(context.Background(), "DE", "tok")
			if err != nil {
				t.Fatalf("FetchSummary failed: %v", err)
			}
			if (sum.Score == nil) != (tt.wantScore == nil) {
				t.Fatalf("score presence = %v, want %v", sum.Score != nil, tt.wantScore != nil)
			}
			if sum.Score != nil && *sum.Score != *tt.wantScore {
				t.Errorf("score = %v, want %v", *sum.Score, *tt.wantScore)
			}
			if sum.ArticleCount != tt.wantCount {
				t.Errorf("article count = %d, want %d", sum.ArticleCount, tt.wantCount)
			}
			if sum.Name != "Germany" {
				t.Errorf("display name = %q, want Germany", sum.Name)
			}
		})
	}
}

func TestFetchSummaryFreshnessToken(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"score": 50, "articles": 1}`))
	}))
	defer server.Close()

	_, _, err := newTestClient(server.URL).FetchSummary(context.Background(), "FR", "2026-08-30T00:00:00Z")
	if err != nil {
		t.Fatalf("FetchSummary failed: %v", err)
	}
	if gotQuery != "v=2026-08-30T00%3A00%3A00Z" {
		t.Errorf("unexpected query: %q", gotQuery)
	}
}

func TestFetchSummaryMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	_, _, err := newTestClient(server.URL).FetchSummary(context.Background(), "DE", "")
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestFetchSummaryHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, _, err := newTestClient(server.URL).FetchSummary(context.Background(), "XX", "")
	if err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestFetchDetail(t *testing.T) {
	body := `{
		"country": "FR",
		"score": 37,
		"score_label": "Caution",
		"assessment": "Moderate negative coverage",
		"trend": -4,
		"sources": 5,
		"sentiment": {"positive": 2, "neutral": 6, "negative": 4},
		"latest_articles": [
			{"id": "a1", "title": "One", "url": "http://example.com/1", "published_at": "2026-08-29T10:00:00Z"},
			{"id": "a2", "title": "Two", "url": "http://example.com/2", "published_at": "not a date"}
		],
		"last_updated": "2026-08-30T06:00:00Z"
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("t") == "" {
			t.Error("detail fetch missing cache-bust nonce")
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	d, err := newTestClient(server.URL).FetchDetail(context.Background(), "FR", "tok")
	if err != nil {
		t.Fatalf("FetchDetail failed: %v", err)
	}

	if d.Score == nil || *d.Score != 37 {
		t.Errorf("unexpected score: %v", d.Score)
	}
	if d.TrendDelta == nil || *d.TrendDelta != -4 {
		t.Errorf("unexpected trend: %v", d.TrendDelta)
	}
	if d.ScoreLabel != "Caution" {
		t.Errorf("score label = %q", d.ScoreLabel)
	}
	if d.Sentiment.Negative != 4 || d.Sentiment.Total() != 12 {
		t.Errorf("unexpected sentiment: %+v", d.Sentiment)
	}
	if len(d.Articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(d.Articles))
	}
	if d.Articles[0].Country != "FR" {
		t.Errorf("article country = %q, want FR", d.Articles[0].Country)
	}
	if !d.Articles[1].Published.IsZero() {
		t.Errorf("unparsable timestamp should decode as zero time, got %v", d.Articles[1].Published)
	}
	if d.ArticleCount != 5 {
		t.Errorf("article count = %d, want 5 (sources)", d.ArticleCount)
	}
}

func TestDecodeTrendObjectForm(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{`3`, ptr(3.0)},
		{`-2.5`, ptr(-2.5)},
		{`{"delta": 7}`, ptr(7.0)},
		{`{"delta": null}`, nil},
		{`null`, nil},
		{``, nil},
		{`"bogus"`, nil},
	}

	for _, tt := range tests {
		got := decodeTrend([]byte(tt.raw))
		if (got == nil) != (tt.want == nil) {
			t.Errorf("decodeTrend(%q) presence = %v, want %v", tt.raw, got != nil, tt.want != nil)
			continue
		}
		if got != nil && *got != *tt.want {
			t.Errorf("decodeTrend(%q) = %v, want %v", tt.raw, *got, *tt.want)
		}
	}
}

func TestFetchIndex(t *testing.T) {
	body := `{
		"last_updated": "2026-08-30T06:00:00Z",
		"countries": {
			"DE": {"score": 55, "trend": 2, "sources": 9},
			"FR": {"score": null, "trend": null, "sources": 0}
		}
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/index.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	idx, err := newTestClient(server.URL).FetchIndex(context.Background())
	if err != nil {
		t.Fatalf("FetchIndex failed: %v", err)
	}
	if idx.LastUpdated != "2026-08-30T06:00:00Z" {
		t.Errorf("last_updated = %q", idx.LastUpdated)
	}
	de, ok := idx.Countries["DE"]
	if !ok || de.Score == nil || *de.Score != 55 {
		t.Errorf("unexpected DE entry: %+v", de)
	}
	fr := idx.Countries["FR"]
	if fr.Score != nil {
		t.Errorf("FR should have nil score, got %v", *fr.Score)
	}
}

func TestFractionalRateStillAllowsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"last_updated": "x", "countries": {}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second, 0.5)
	if got := c.limiter.Burst(); got != 1 {
		t.Fatalf("burst = %d, want at least 1", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := c.FetchIndex(ctx); err != nil {
		t.Fatalf("first request with fractional rate failed: %v", err)
	}
}

func ptr(f float64) *float64 { return &f }
