package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kbaumler/worldmood/internal/fetch"
	"github.com/kbaumler/worldmood/internal/model"
)

// mockFetcher implements the fetcher interface for testing.
type mockFetcher struct {
	mu           sync.Mutex
	index        *fetch.Index
	indexErr     error
	indexGate    chan struct{} // when set, FetchIndex blocks until closed

	failIDs      map[string]bool
	scores       map[string]float64
	articles     map[string][]model.Article
	tokensSeen   []string
	detail       model.Detail
	detailErr    error
	detailTokens []string
}

func (m *mockFetcher) FetchIndex(ctx context.Context) (*fetch.Index, error) {
	if m.indexGate != nil {
		<-m.indexGate
	}
	return m.index, m.indexErr
}

func (m *mockFetcher) FetchSummary(ctx context.Context, id, token string) (model.Summary, []model.Article, error) {
	m.mu.Lock()
	m.tokensSeen = append(m.tokensSeen, token)
	m.mu.Unlock()

	if m.failIDs[id] {
		return model.Summary{}, nil, errors.New("boom")
	}
	score := m.scores[id]
	return model.Summary{
		ID:           id,
		Name:         model.DisplayName(id),
		Score:        &score,
		ArticleCount: len(m.articles[id]),
	}, m.articles[id], nil
}

func (m *mockFetcher) FetchDetail(ctx context.Context, id, token string) (model.Detail, error) {
	m.mu.Lock()
	m.detailTokens = append(m.detailTokens, token)
	m.mu.Unlock()
	return m.detail, m.detailErr
}

func TestLoadSummariesDegradesFailedIDsOnly(t *testing.T) {
	mock := &mockFetcher{
		indexErr: errors.New("no index"),
		failIDs:  map[string]bool{"FR": true},
		scores:   map[string]float64{"DE": 55, "IT": 30},
	}
	c := New(mock)

	got := c.LoadSummaries(context.Background(), []string{"DE", "FR", "IT"})

	if len(got) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(got))
	}
	if got["DE"].Score == nil || *got["DE"].Score != 55 {
		t.Errorf("DE should be intact: %+v", got["DE"])
	}
	if got["IT"].Score == nil || *got["IT"].Score != 30 {
		t.Errorf("IT should be intact: %+v", got["IT"])
	}
	// The failing country degrades to no-data, never an error.
	fr := got["FR"]
	if fr.Score != nil {
		t.Errorf("FR should have nil score, got %v", *fr.Score)
	}
	if fr.ArticleCount != 0 {
		t.Errorf("FR should have 0 articles, got %d", fr.ArticleCount)
	}
	if fr.Name != "France" {
		t.Errorf("degraded summary keeps its display name, got %q", fr.Name)
	}
}

func TestTokenFromVersionResource(t *testing.T) {
	mock := &mockFetcher{
		index: &fetch.Index{LastUpdated: "2026-08-30T06:00:00Z"},
	}
	c := New(mock)

	token := c.Token(context.Background())
	if token != "2026-08-30T06:00:00Z" {
		t.Errorf("token = %q, want index last_updated", token)
	}

	// Fetched once per session, then reused.
	mock.index = &fetch.Index{LastUpdated: "changed"}
	if again := c.Token(context.Background()); again != token {
		t.Errorf("token changed within session: %q", again)
	}

	c.LoadSummaries(context.Background(), []string{"DE"})
	for _, seen := range mock.tokensSeen {
		if seen != token {
			t.Errorf("summary fetch used token %q, want %q", seen, token)
		}
	}
}

func TestTokenNonceFallback(t *testing.T) {
	mock := &mockFetcher{indexErr: errors.New("version resource down")}
	c := New(mock)

	first := c.Token(context.Background())
	time.Sleep(time.Millisecond)
	second := c.Token(context.Background())

	if first == "" || second == "" {
		t.Fatal("nonce tokens must be non-empty")
	}
	if first == second {
		t.Error("nonce must differ between fetches so nothing is cache-served")
	}
}

func TestLoadDetailPassesToken(t *testing.T) {
	score := 12.0
	mock := &mockFetcher{
		index:  &fetch.Index{LastUpdated: "tok1"},
		detail: model.Detail{Summary: model.Summary{ID: "PL", Score: &score}},
	}
	c := New(mock)

	d, err := c.LoadDetail(context.Background(), "PL")
	if err != nil {
		t.Fatalf("LoadDetail failed: %v", err)
	}
	if d.ID != "PL" {
		t.Errorf("unexpected detail: %+v", d)
	}
	if len(mock.detailTokens) != 1 || mock.detailTokens[0] != "tok1" {
		t.Errorf("detail fetch tokens = %v, want [tok1]", mock.detailTokens)
	}
}

func TestLoadDetailErrorPropagates(t *testing.T) {
	mock := &mockFetcher{
		indexErr:  errors.New("down"),
		detailErr: fetch.ErrMalformedPayload,
	}
	c := New(mock)

	_, err := c.LoadDetail(context.Background(), "PL")
	if !errors.Is(err, fetch.ErrMalformedPayload) {
		t.Errorf("expected malformed payload error, got %v", err)
	}
}

func TestGlobalFeedMergesCachedArticles(t *testing.T) {
	now := time.Now()
	mock := &mockFetcher{
		indexErr: errors.New("down"),
		scores:   map[string]float64{"DE": 50, "FR": 50},
		articles: map[string][]model.Article{
			"DE": {{ID: "shared", Title: "Shared", Published: now, Country: "DE"}},
			"FR": {
				{ID: "shared", Title: "Shared", Published: now, Country: "FR"},
				{ID: "solo", Title: "Solo", Published: now.Add(-time.Hour), Country: "FR"},
			},
		},
	}
	c := New(mock)
	c.LoadSummaries(context.Background(), []string{"DE", "FR"})

	global := c.GlobalFeed()
	if len(global) != 2 {
		t.Fatalf("expected 2 deduplicated articles, got %d", len(global))
	}
	if global[0].ID != "shared" || global[1].ID != "solo" {
		t.Errorf("unexpected feed order: %+v", global)
	}
}

func TestReadersNotBlockedDuringIndexFetch(t *testing.T) {
	gate := make(chan struct{})
	mock := &mockFetcher{
		index:     &fetch.Index{LastUpdated: "2026-08-30T06:00:00Z"},
		indexGate: gate,
	}
	c := New(mock)

	tokenDone := make(chan struct{})
	go func() {
		c.Token(context.Background())
		close(tokenDone)
	}()

	// While the index fetch hangs, cached reads must still return.
	readDone := make(chan struct{})
	go func() {
		c.Summaries()
		c.GlobalFeed()
		close(readDone)
	}()

	select {
	case <-readDone:
	case <-time.After(2 * time.Second):
		t.Fatal("readers blocked behind the index fetch")
	}

	close(gate)
	select {
	case <-tokenDone:
	case <-time.After(2 * time.Second):
		t.Fatal("token fetch never finished")
	}
}

func TestGlobalFeedDedupWinnerStableAcrossCalls(t *testing.T) {
	now := time.Now()
	ids := []string{"NL", "BE", "DE", "FR", "IT", "ES", "PT", "AT", "CH", "PL"}

	articles := make(map[string][]model.Article, len(ids))
	scores := make(map[string]float64, len(ids))
	for _, id := range ids {
		articles[id] = []model.Article{
			{URL: "https://example.com/shared", Title: "Shared", Published: now, Country: id},
		}
		scores[id] = 50
	}
	mock := &mockFetcher{indexErr: errors.New("down"), scores: scores, articles: articles}
	c := New(mock)
	c.LoadSummaries(context.Background(), ids)

	for i := 0; i < 25; i++ {
		global := c.GlobalFeed()
		if len(global) != 1 {
			t.Fatalf("call %d: expected 1 deduplicated article, got %d", i, len(global))
		}
		// Sorted country order feeds the merge, so AT always wins.
		if global[0].Country != "AT" {
			t.Fatalf("call %d: first-seen winner changed: %q", i, global[0].Country)
		}
	}
}

func TestPrimeDoesNotOverwriteLiveData(t *testing.T) {
	mock := &mockFetcher{
		indexErr: errors.New("down"),
		scores:   map[string]float64{"DE": 70},
	}
	c := New(mock)
	c.LoadSummaries(context.Background(), []string{"DE"})

	stale := 5.0
	c.Prime(map[string]model.Summary{
		"DE": {ID: "DE", Name: "Germany", Score: &stale},
		"FR": {ID: "FR", Name: "France"},
	}, nil)

	got := c.Summaries()
	if *got["DE"].Score != 70 {
		t.Errorf("prime overwrote live DE data: %v", *got["DE"].Score)
	}
	if _, ok := got["FR"]; !ok {
		t.Error("prime should fill countries without live data")
	}
}
