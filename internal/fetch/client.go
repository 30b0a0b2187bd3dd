// Package fetch retrieves per-country data documents over HTTP and
// decodes them into model types. It is the only package that performs
// network I/O.
//
// The data source publishes one JSON document per country ({CC}.json)
// plus an index.json carrying the roster-wide freshness marker.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/kbaumler/worldmood/internal/model"
)

// ErrMalformedPayload marks a response that arrived but could not be
// decoded into a usable shape. Callers treat it exactly like a failed
// fetch, scoped to the one country it concerns.
var ErrMalformedPayload = errors.New("malformed payload")

// Client fetches country documents from a single base URL.
type Client struct {
	base    string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client. perSecond bounds the outgoing request
// rate so a full-roster fan-out does not hammer the data host.
func NewClient(baseURL string, timeout time.Duration, perSecond float64) *Client {
	// A sub-1 rate would truncate to burst 0 and make every Wait fail.
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		base:    baseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// get performs a rate-limited GET of base/path with the given query
// parameters and returns the response body.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.base + "/" + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Worldmood/1.0 (https://github.com/kbaumler/worldmood)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", path, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// articleDoc is the wire shape of a single news card.
type articleDoc struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	PublishedAt string `json:"published_at"`
}

func (d articleDoc) toModel(country string) model.Article {
	return model.Article{
		ID:        d.ID,
		URL:       d.URL,
		Title:     d.Title,
		Summary:   d.Summary,
		Published: parseTime(d.PublishedAt),
		Country:   country,
	}
}

// parseTime parses an RFC 3339 timestamp, returning the zero time when
// unparsable so such articles sort as oldest.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// IndexEntry is one country's row in the bulk index document.
type IndexEntry struct {
	Score    *float64 `json:"score"`
	Trend    *float64 `json:"trend"`
	Sources  int      `json:"sources"`
}

// Index is the roster-wide document written alongside the per-country
// files. LastUpdated doubles as the session freshness token.
type Index struct {
	LastUpdated string                `json:"last_updated"`
	Countries   map[string]IndexEntry `json:"countries"`
}

// FetchIndex retrieves index.json.
func (c *Client) FetchIndex(ctx context.Context) (*Index, error) {
	body, err := c.get(ctx, "index.json", nil)
	if err != nil {
		return nil, err
	}

	var idx Index
	if err := json.Unmarshal(body, &idx); err != nil {
		return nil, fmt.Errorf("%w: index: %v", ErrMalformedPayload, err)
	}
	return &idx, nil
}

// summaryDoc is the tolerant wire shape of a bulk summary. The article
// count comes from whichever of articles, sources, or latest_articles
// the document carries.
type summaryDoc struct {
	Score    *float64     `json:"score"`
	Articles *int         `json:"articles"`
	Sources  *int         `json:"sources"`
	Latest   []articleDoc `json:"latest_articles"`
}

func (d summaryDoc) articleCount() int {
	switch {
	case d.Articles != nil:
		return *d.Articles
	case d.Sources != nil:
		return *d.Sources
	default:
		return len(d.Latest)
	}
}

// FetchSummary retrieves one country's summary, tagged with the
// freshness token when present. The country's latest articles ride
// along for the cross-country feed.
func (c *Client) FetchSummary(ctx context.Context, id, token string) (model.Summary, []model.Article, error) {
	params := url.Values{}
	if token != "" {
		params.Set("v", token)
	}

	body, err := c.get(ctx, id+".json", params)
	if err != nil {
		return model.Summary{}, nil, err
	}

	var doc summaryDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return model.Summary{}, nil, fmt.Errorf("%w: summary %s: %v", ErrMalformedPayload, id, err)
	}

	articles := make([]model.Article, 0, len(doc.Latest))
	for _, a := range doc.Latest {
		articles = append(articles, a.toModel(id))
	}

	summary := model.Summary{
		ID:           id,
		Name:         model.DisplayName(id),
		Score:        doc.Score,
		ArticleCount: doc.articleCount(),
	}
	return summary, articles, nil
}

// detailDoc is the wire shape of a full country document.
type detailDoc struct {
	Score      *float64        `json:"score"`
	ScoreLabel string          `json:"score_label"`
	Assessment string          `json:"assessment"`
	Trend      json.RawMessage `json:"trend"`
	Articles   *int            `json:"articles"`
	Sources    *int            `json:"sources"`
	Sentiment  struct {
		Positive int `json:"positive"`
		Neutral  int `json:"neutral"`
		Negative int `json:"negative"`
	} `json:"sentiment"`
	Latest      []articleDoc `json:"latest_articles"`
	LastUpdated string       `json:"last_updated"`
}

// decodeTrend accepts a bare number, an object {"delta": n}, or null.
func decodeTrend(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}

	var obj struct {
		Delta *float64 `json:"delta"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Delta
	}
	return nil
}

// FetchDetail retrieves one country's full record. Every call is
// independently cache-busted with a nonce so a popup open always sees a
// fresh read, on top of the session freshness token.
func (c *Client) FetchDetail(ctx context.Context, id, token string) (model.Detail, error) {
	params := url.Values{}
	if token != "" {
		params.Set("v", token)
	}
	params.Set("t", strconv.FormatInt(time.Now().UnixNano(), 10))

	body, err := c.get(ctx, id+".json", params)
	if err != nil {
		return model.Detail{}, err
	}

	var doc detailDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return model.Detail{}, fmt.Errorf("%w: detail %s: %v", ErrMalformedPayload, id, err)
	}

	sd := summaryDoc{Score: doc.Score, Articles: doc.Articles, Sources: doc.Sources, Latest: doc.Latest}
	articles := make([]model.Article, 0, len(doc.Latest))
	for _, a := range doc.Latest {
		articles = append(articles, a.toModel(id))
	}

	return model.Detail{
		Summary: model.Summary{
			ID:           id,
			Name:         model.DisplayName(id),
			Score:        doc.Score,
			ArticleCount: sd.articleCount(),
		},
		TrendDelta:  decodeTrend(doc.Trend),
		ScoreLabel:  doc.ScoreLabel,
		Assessment:  doc.Assessment,
		Sentiment: model.SentimentCounts{
			Positive: doc.Sentiment.Positive,
			Neutral:  doc.Sentiment.Neutral,
			Negative: doc.Sentiment.Negative,
		},
		Articles:    articles,
		LastUpdated: parseTime(doc.LastUpdated),
	}, nil
}
