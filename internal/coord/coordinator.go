// Package coord provides background refresh coordination for Worldmood.
package coord

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kbaumler/worldmood/internal/logging"
	"github.com/kbaumler/worldmood/internal/model"
	"github.com/kbaumler/worldmood/internal/store"
	"github.com/kbaumler/worldmood/internal/ui"
)

// refreshTimeout is the timeout for one full refresh cycle.
const refreshTimeout = 60 * time.Second

// loader is the cache surface the coordinator drives. Satisfied by
// *cache.Cache; an interface so tests can inject a fake.
type loader interface {
	LoadSummaries(ctx context.Context, ids []string) map[string]model.Summary
	GlobalFeed() []model.Article
	Articles(id string) []model.Article
}

// Coordinator refreshes country summaries in the background and
// persists each successful cycle to the local snapshot.
// Uses context cancellation as the only stop mechanism.
type Coordinator struct {
	cache    loader
	store    *store.Store // optional: nil to skip snapshots
	roster   []string     // immutable, set at construction
	interval time.Duration
	wg       sync.WaitGroup
}

// New creates a Coordinator over the given cache and roster. The store
// is optional; pass nil to run without snapshot persistence.
func New(c loader, s *store.Store, roster []string, interval time.Duration) *Coordinator {
	rosterCopy := make([]string, len(roster))
	copy(rosterCopy, roster)

	if interval <= 0 {
		interval = 10 * time.Minute
	}

	return &Coordinator{
		cache:    c,
		store:    s,
		roster:   rosterCopy,
		interval: interval,
	}
}

// Start begins background refreshing. Call with a cancellable context.
// Performs an initial refresh immediately, then one per interval.
func (c *Coordinator) Start(ctx context.Context, program *tea.Program) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.refresh(ctx, program)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.refresh(ctx, program)
			}
		}
	}()
}

// Wait blocks until the background goroutine exits.
// Call after canceling the context passed to Start.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// refresh loads every roster country, publishes the result to the
// program, and snapshots it. Individual country failures degrade inside
// the cache; refresh itself never fails the cycle.
func (c *Coordinator) refresh(ctx context.Context, program *tea.Program) {
	if ctx.Err() != nil {
		return
	}

	refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	summaries := c.cache.LoadSummaries(refreshCtx, c.roster)
	feed := c.cache.GlobalFeed()

	withData := 0
	for _, s := range summaries {
		if s.HasData() {
			withData++
		}
	}
	logging.Info("refresh cycle complete", "countries", len(summaries), "with_data", withData)

	// Handle nil program gracefully for testing.
	if program != nil {
		program.Send(ui.SummariesLoaded{Summaries: summaries, Feed: feed})
	}

	c.snapshot(summaries)
}

// snapshot persists the current summaries and per-country articles so
// the next launch can paint before its first network load.
func (c *Coordinator) snapshot(summaries map[string]model.Summary) {
	if c.store == nil {
		return
	}

	list := make([]model.Summary, 0, len(summaries))
	for _, s := range summaries {
		list = append(list, s)
	}
	if err := c.store.SaveSummaries(list); err != nil {
		logging.Warn("snapshot summaries failed", "err", err)
		return
	}

	for _, s := range list {
		if !s.HasData() {
			continue
		}
		arts := c.cache.Articles(s.ID)
		if len(arts) == 0 {
			continue
		}
		if err := c.store.SaveArticles(s.ID, arts); err != nil {
			logging.Warn("snapshot articles failed", "country", s.ID, "err", err)
		}
	}
}
