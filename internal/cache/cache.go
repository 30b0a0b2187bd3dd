// Package cache fetches and holds per-country data for the surface.
// Every country degrades independently: one failed or malformed fetch
// renders that country as no-data and touches nothing else.
package cache

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kbaumler/worldmood/internal/feed"
	"github.com/kbaumler/worldmood/internal/fetch"
	"github.com/kbaumler/worldmood/internal/logging"
	"github.com/kbaumler/worldmood/internal/model"
)

// maxConcurrentFetches limits parallel requests during a bulk load.
const maxConcurrentFetches = 8

// fetcher is the network boundary, an interface for testing.
type fetcher interface {
	FetchIndex(ctx context.Context) (*fetch.Index, error)
	FetchSummary(ctx context.Context, id, token string) (model.Summary, []model.Article, error)
	FetchDetail(ctx context.Context, id, token string) (model.Detail, error)
}

// Cache is the process-wide country data cache. Only the cache mutates
// its own state; readers get copies.
type Cache struct {
	mu        sync.RWMutex
	fetcher   fetcher
	token     string
	haveToken bool
	summaries map[string]model.Summary
	articles  map[string][]model.Article
}

// New creates an empty Cache over the given fetch client.
func New(f fetcher) *Cache {
	return &Cache{
		fetcher:   f,
		summaries: make(map[string]model.Summary),
		articles:  make(map[string][]model.Article),
	}
}

// Token returns the session freshness token, fetched once from the
// version resource. When the resource is unavailable a fresh
// monotonically increasing nonce is returned instead, so repeated
// fetches are never silently cache-served.
func (c *Cache) Token(ctx context.Context) string {
	c.mu.RLock()
	if c.haveToken {
		token := c.token
		c.mu.RUnlock()
		return token
	}
	c.mu.RUnlock()

	// Fetch outside the lock so a slow index read never blocks readers.
	// Concurrent callers may race to fetch; the first result sticks.
	idx, err := c.fetcher.FetchIndex(ctx)
	if err == nil && idx.LastUpdated != "" {
		c.mu.Lock()
		if !c.haveToken {
			c.token = idx.LastUpdated
			c.haveToken = true
		}
		token := c.token
		c.mu.Unlock()
		return token
	}

	logging.Warn("version resource unavailable, using nonce", "err", err)
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// LoadSummaries fans out one summary fetch per id and returns the
// results keyed by id. A failure for one id yields a no-data summary
// for that id only; LoadSummaries itself never fails. Successful
// results replace the cached state.
func (c *Cache) LoadSummaries(ctx context.Context, ids []string) map[string]model.Summary {
	token := c.Token(ctx)

	results := make([]model.Summary, len(ids))
	lists := make([][]model.Article, len(ids))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)

	for i, id := range ids {
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = model.NoData(id)
				return nil
			}
			sum, articles, err := c.fetcher.FetchSummary(ctx, id, token)
			if err != nil {
				logging.Warn("summary fetch degraded to no-data", "country", id, "err", err)
				results[i] = model.NoData(id)
				return nil
			}
			results[i] = sum
			lists[i] = articles
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors, failures degrade per-id

	out := make(map[string]model.Summary, len(ids))

	c.mu.Lock()
	for i, id := range ids {
		out[id] = results[i]
		c.summaries[id] = results[i]
		if lists[i] != nil {
			c.articles[id] = lists[i]
		}
	}
	c.mu.Unlock()

	return out
}

// LoadDetail retrieves one country's full record. Detail reads are
// never served from the cache: every popup open is an independently
// cache-busted network read.
func (c *Cache) LoadDetail(ctx context.Context, id string) (model.Detail, error) {
	token := c.Token(ctx)
	return c.fetcher.FetchDetail(ctx, id, token)
}

// Prime seeds the cache from a snapshot taken in an earlier session.
// Live loads overwrite primed entries.
func (c *Cache) Prime(summaries map[string]model.Summary, articles []model.Article) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, sum := range summaries {
		if _, live := c.summaries[id]; !live {
			c.summaries[id] = sum
		}
	}
	byCountry := make(map[string][]model.Article)
	for _, a := range articles {
		byCountry[a.Country] = append(byCountry[a.Country], a)
	}
	for id, list := range byCountry {
		if _, live := c.articles[id]; !live {
			c.articles[id] = list
		}
	}
}

// Summaries returns a copy of the cached summaries.
func (c *Cache) Summaries() map[string]model.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]model.Summary, len(c.summaries))
	for id, sum := range c.summaries {
		out[id] = sum
	}
	return out
}

// Articles returns the cached article list for one country.
func (c *Cache) Articles(id string) []model.Article {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := c.articles[id]
	out := make([]model.Article, len(list))
	copy(out, list)
	return out
}

// GlobalFeed merges every country's cached articles into the
// deduplicated cross-country feed. Lists are fed to the merge in
// sorted country order so first-seen-wins dedup picks the same winner
// on every call.
func (c *Cache) GlobalFeed() []model.Article {
	c.mu.RLock()
	ids := make([]string, 0, len(c.articles))
	for id := range c.articles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lists := make([][]model.Article, 0, len(ids))
	for _, id := range ids {
		lists = append(lists, c.articles[id])
	}
	c.mu.RUnlock()

	return feed.Merge(lists, feed.GlobalLimit)
}
