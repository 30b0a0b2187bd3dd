// Package ui provides the Bubble Tea TUI for Worldmood.
package ui

import "github.com/kbaumler/worldmood/internal/model"

// SummariesLoaded is sent when a bulk summary load finishes. Feed is
// the merged cross-country article feed as of this load.
type SummariesLoaded struct {
	Summaries map[string]model.Summary
	Feed      []model.Article
	Err       error
}

// SnapshotPrimed is sent when the local snapshot has been read at
// startup, before the first network load completes.
type SnapshotPrimed struct {
	Summaries map[string]model.Summary
	Feed      []model.Article
}

// DetailLoaded is sent when a popup detail fetch resolves. Seq carries
// the session counter so stale results can be discarded.
type DetailLoaded struct {
	Seq    int
	Detail model.Detail
	Err    error
}

// RefreshTick asks the app to reload summaries on demand.
type RefreshTick struct{}
