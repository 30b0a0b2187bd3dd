package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kbaumler/worldmood/internal/cache"
	"github.com/kbaumler/worldmood/internal/config"
	"github.com/kbaumler/worldmood/internal/coord"
	"github.com/kbaumler/worldmood/internal/fetch"
	"github.com/kbaumler/worldmood/internal/logging"
	"github.com/kbaumler/worldmood/internal/model"
	"github.com/kbaumler/worldmood/internal/store"
	"github.com/kbaumler/worldmood/internal/ui"
)

func main() {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	dataDir := config.Dir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	if err := logging.Init(dataDir); err != nil {
		log.Printf("Warning: file logging disabled: %v", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		logging.Warn("config load failed, using defaults", "err", err)
		cfg = config.DefaultConfig()
	}

	roster := cfg.Countries
	if len(roster) == 0 {
		roster = model.Countries
	}

	// Open snapshot store. Continue without persistence on failure.
	var st *store.Store
	dbPath := filepath.Join(dataDir, "worldmood.db")
	if st, err = store.Open(dbPath); err != nil {
		logging.Warn("snapshot store unavailable", "err", err)
		st = nil
	} else {
		defer st.Close()
	}

	client := fetch.NewClient(
		cfg.DataURL,
		time.Duration(cfg.RequestTimeoutSeconds)*time.Second,
		cfg.FetchesPerSecond,
	)
	dataCache := cache.New(client)

	// Prime the cache from the last snapshot so the surface has data
	// before the first network load completes.
	var primed *ui.SnapshotPrimed
	if st != nil {
		if summaries, err := st.GetSummaries(); err == nil && len(summaries) > 0 {
			articles, _ := st.GetArticles("", 0)
			dataCache.Prime(summaries, articles)
			primed = &ui.SnapshotPrimed{
				Summaries: summaries,
				Feed:      dataCache.GlobalFeed(),
			}
		}
	}

	appCfg := ui.AppConfig{
		LoadSummaries: func() tea.Cmd {
			return func() tea.Msg {
				loadCtx, loadCancel := context.WithTimeout(ctx, 60*time.Second)
				defer loadCancel()

				summaries := dataCache.LoadSummaries(loadCtx, roster)

				// Individual countries degrade inside the cache; the
				// only whole-cycle failure is the deadline expiring.
				return ui.SummariesLoaded{
					Summaries: summaries,
					Feed:      dataCache.GlobalFeed(),
					Err:       loadCtx.Err(),
				}
			}
		},

		LoadDetail: func(id string, seq int) tea.Cmd {
			return func() tea.Msg {
				started := time.Now()

				detail, err := dataCache.LoadDetail(ctx, id)

				// Keep the loading state up briefly so fast
				// resolutions, failed ones included, do not flash.
				time.Sleep(ui.DetailHoldRemaining(time.Since(started)))

				if err != nil {
					return ui.DetailLoaded{Seq: seq, Err: err}
				}
				return ui.DetailLoaded{Seq: seq, Detail: detail}
			}
		},
	}

	app := ui.NewApp(appCfg)
	program := tea.NewProgram(app, tea.WithAltScreen())

	if primed != nil {
		msg := *primed
		go program.Send(msg)
	}

	coordinator := coord.New(dataCache, st, roster, time.Duration(cfg.RefreshMinutes)*time.Minute)
	coordinator.Start(ctx, program)

	logging.Info("worldmood starting", "countries", len(roster), "data_url", cfg.DataURL)

	if _, err := program.Run(); err != nil {
		log.Printf("Error running program: %v", err)
	}

	// Graceful shutdown
	cancel()
	coordinator.Wait()
}
