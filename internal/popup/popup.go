// Package popup implements the per-invocation detail session: a small
// state machine that loads one country's full record, classifies and
// normalizes it, and exposes a stable view-model or an error state.
package popup

import (
	"fmt"
	"sync"
	"time"

	"github.com/kbaumler/worldmood/internal/band"
	"github.com/kbaumler/worldmood/internal/feed"
	"github.com/kbaumler/worldmood/internal/model"
	"github.com/kbaumler/worldmood/internal/sentiment"
)

// State is the session lifecycle: Idle → Loading → {Ready | Failed} →
// Closed. A session superseded by a newer open is simply abandoned; its
// late result is discarded by the Tracker.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Placeholder text shown in failed and no-data fields.
const (
	Placeholder          = "—"
	NotEnoughDataLabel   = "Not enough data"
	NotEnoughDataMessage = "No information available"
	NoArticlesMessage    = "No recent articles"
)

// ViewModel is the fully-resolved popup content. Every field is
// display-ready; the view layer does no classification of its own.
type ViewModel struct {
	ID          string
	Name        string
	ScoreText   string
	BandLabel   string
	BandColor   string
	ScoreLabel  string
	Assessment  string
	TrendText   string // empty means the trend row is suppressed
	ShowShares  bool
	Shares      sentiment.Shares
	Articles    []model.Article
	// ArticlesNote is the empty-state line shown in place of the
	// article list; empty when there are articles to show.
	ArticlesNote string
	LastUpdated  time.Time
}

// BuildViewModel resolves a detail record into popup content.
//
// A record with zero articles forces the score and assessment fields to
// the not-enough-data placeholders and suppresses the trend entirely,
// even when the payload carries a numeric score; a score backed by no
// articles would be a misleading band. The raw record keeps the score,
// only the view-model discards it.
func BuildViewModel(d model.Detail) ViewModel {
	vm := ViewModel{
		ID:          d.ID,
		Name:        displayName(d.ID, d.Name),
		ShowShares:  true,
		Shares:      sentiment.Normalize(d.Sentiment),
		Articles:    feed.Merge([][]model.Article{d.Articles}, feed.CountryLimit),
		LastUpdated: d.LastUpdated,
	}
	if len(vm.Articles) == 0 {
		vm.ArticlesNote = NoArticlesMessage
	}

	if d.ArticleCount == 0 || d.Score == nil {
		vm.ScoreText = Placeholder
		vm.ScoreLabel = NotEnoughDataLabel
		vm.Assessment = NotEnoughDataMessage
		return vm
	}

	b := band.Classify(*d.Score)
	vm.ScoreText = fmt.Sprintf("%.0f", *d.Score)
	vm.BandLabel = b.Label
	vm.BandColor = b.Color
	vm.ScoreLabel = d.ScoreLabel
	if vm.ScoreLabel == "" {
		vm.ScoreLabel = b.Label
	}
	vm.Assessment = d.Assessment
	if d.TrendDelta != nil {
		vm.TrendText = fmt.Sprintf("%+.0f", *d.TrendDelta)
	}

	return vm
}

// FailedViewModel is the error-state content: every numeric and text
// field reset to the fixed placeholder, sentiment section hidden,
// article list empty.
func FailedViewModel(id string) ViewModel {
	return ViewModel{
		ID:           id,
		Name:         displayName(id, ""),
		ScoreText:    Placeholder,
		ScoreLabel:   Placeholder,
		Assessment:   Placeholder,
		ArticlesNote: NoArticlesMessage,
	}
}

func displayName(id, name string) string {
	if name != "" {
		return name
	}
	return model.DisplayName(id)
}

// Session is one popup invocation. Its fields are mutated only by the
// Tracker that issued it.
type Session struct {
	seq   int
	id    string
	state State
	vm    ViewModel
	err   error
}

// Seq returns the session's counter value.
func (s *Session) Seq() int { return s.seq }

// ID returns the country this session loads.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// ViewModel returns the resolved content; meaningful in Ready and
// Failed states.
func (s *Session) ViewModel() ViewModel { return s.vm }

// Err returns the failure cause, if any.
func (s *Session) Err() error { return s.err }

// Tracker issues sessions with a monotonically increasing counter and
// applies results only to the latest-issued session. Opening a new
// session implicitly cancels the prior one: there is no signal to the
// in-flight fetch, its result is just discarded on arrival.
type Tracker struct {
	mu     sync.Mutex
	latest int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Open starts a new Loading session for id, superseding any prior one.
func (t *Tracker) Open(id string) *Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.latest++
	return &Session{seq: t.latest, id: id, state: Loading}
}

// Resolve applies a fetch result to s. Returns false without touching
// the session when s has been superseded, closed, or already resolved.
func (t *Tracker) Resolve(s *Session, d model.Detail, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s.seq != t.latest || s.state != Loading {
		return false
	}

	if err != nil {
		s.state = Failed
		s.err = err
		s.vm = FailedViewModel(s.id)
		return true
	}

	s.state = Ready
	s.vm = BuildViewModel(d)
	return true
}

// Close transitions the session to Closed from any state.
func (t *Tracker) Close(s *Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s.state = Closed
}
