package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kbaumler/worldmood/internal/logging"
	"github.com/kbaumler/worldmood/internal/model"
	"github.com/kbaumler/worldmood/internal/popup"
	"github.com/kbaumler/worldmood/internal/selection"
)

// MinDetailHold is how long a popup stays in its loading state at
// minimum, so fast resolutions do not flash. The hold is purely
// cosmetic and applies to every resolution, failures included.
const MinDetailHold = 400 * time.Millisecond

// DetailHoldRemaining returns how much of the minimum loading hold is
// left after elapsed time, zero once the hold has been satisfied.
func DetailHoldRemaining(elapsed time.Duration) time.Duration {
	if remaining := MinDetailHold - elapsed; remaining > 0 {
		return remaining
	}
	return 0
}

const feedRows = 6

type focusArea int

const (
	focusMap focusArea = iota
	focusList
)

// AppConfig carries the commands the app runs for data access. main
// builds these closures over the cache so the model stays free of
// network concerns. Periodic refresh lives in the coordinator; the
// app only loads on demand.
type AppConfig struct {
	LoadSummaries func() tea.Cmd
	LoadDetail    func(id string, seq int) tea.Cmd
}

// App is the root Bubble Tea model.
type App struct {
	cfg AppConfig

	grid    *MapGrid
	list    *CountryList
	coord   *selection.Coordinator
	tracker *popup.Tracker
	session *popup.Session

	summaries map[string]model.Summary
	feed      []model.Article
	rows      []ListRow

	focus      focusArea
	gridCursor int
	listCursor int

	searching bool
	input     textinput.Model
	spin      spinner.Model

	width  int
	height int
	err    error
}

// NewApp creates the app over the full country roster.
func NewApp(cfg AppConfig) App {
	grid := NewMapGrid(model.Countries)
	list := NewCountryList()

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search countries"
	ti.CharLimit = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return App{
		cfg:     cfg,
		grid:    grid,
		list:    list,
		coord:   selection.New(grid, list),
		tracker: popup.NewTracker(),
		rows:    BuildRows(model.Countries, ""),
		input:   ti,
		spin:    sp,
	}
}

func (a App) Init() tea.Cmd {
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case spinner.TickMsg:
		if a.session != nil && a.session.State() == popup.Loading {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			return a, cmd
		}
		return a, nil

	case SnapshotPrimed:
		// Only fills the surface before the first live load.
		if a.summaries == nil {
			a.summaries = msg.Summaries
			a.feed = msg.Feed
		}
		return a, nil

	case SummariesLoaded:
		if msg.Err != nil {
			// Keep whatever is on screen; just surface the failure.
			a.err = msg.Err
			logging.Error("summary load failed", "err", msg.Err)
			return a, nil
		}
		a.summaries = msg.Summaries
		a.feed = msg.Feed
		a.err = nil
		return a, nil

	case DetailLoaded:
		a.applyDetail(msg)
		return a, nil

	case RefreshTick:
		return a, a.cfg.LoadSummaries()
	}

	return a, nil
}

// applyDetail resolves a detail result into the open session. Results
// from superseded or closed sessions are dropped on the floor.
func (a *App) applyDetail(msg DetailLoaded) {
	if a.session == nil || msg.Seq != a.session.Seq() {
		logging.Debug("discarding stale detail", "seq", msg.Seq)
		return
	}
	if !a.tracker.Resolve(a.session, msg.Detail, msg.Err) {
		logging.Debug("detail arrived after session ended", "seq", msg.Seq)
	}
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searching {
		return a.handleSearchKey(msg)
	}

	// While the popup is up only esc and quit do anything.
	if a.session != nil {
		switch msg.String() {
		case "esc", "enter":
			a.closePopup()
		case "q", "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "/":
		a.searching = true
		a.focus = focusList
		a.input.Focus()
		return a, textinput.Blink

	case "tab":
		if a.focus == focusMap {
			a.focus = focusList
		} else {
			a.focus = focusMap
		}

	case "up", "k":
		a.moveCursor(0, -1)

	case "down", "j":
		a.moveCursor(0, 1)

	case "left", "h":
		a.moveCursor(-1, 0)

	case "right", "l":
		a.moveCursor(1, 0)

	case "enter":
		return a.openPopup()

	case "r":
		return a, a.cfg.LoadSummaries()

	case "esc":
		a.coord.Clear()
		a.err = nil
		if a.input.Value() != "" {
			a.input.SetValue("")
			a.rebuildRows()
		}
	}

	return a, nil
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.searching = false
		a.input.Blur()
		a.input.SetValue("")
		a.rebuildRows()
		return a, nil

	case "enter":
		a.searching = false
		a.input.Blur()
		return a, nil

	case "down":
		// Hand the cursor to the filtered list without leaving search.
		a.moveCursor(0, 1)
		return a, nil

	case "up":
		a.moveCursor(0, -1)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	a.rebuildRows()
	return a, cmd
}

func (a *App) rebuildRows() {
	a.rows = BuildRows(model.Countries, a.input.Value())
	if a.listCursor >= len(a.rows) {
		a.listCursor = len(a.rows) - 1
	}
	if a.listCursor < 0 {
		a.listCursor = 0
	}
}

// moveCursor moves the keyboard cursor in the focused view. dx only
// applies on the map.
func (a *App) moveCursor(dx, dy int) {
	if a.focus == focusList {
		a.listCursor += dy
		if a.listCursor < 0 {
			a.listCursor = 0
		}
		if a.listCursor >= len(a.rows) && len(a.rows) > 0 {
			a.listCursor = len(a.rows) - 1
		}
		return
	}

	step := dx + dy*a.gridCols()
	next := a.gridCursor + step
	if next < 0 || next >= len(a.grid.Order()) {
		return
	}
	a.gridCursor = next
}

func (a App) gridCols() int {
	cols := a.width / 5
	if cols < 1 {
		cols = 1
	}
	return cols
}

// cursorID returns the country under the cursor in the focused view.
func (a App) cursorID() string {
	if a.focus == focusList {
		if a.listCursor < len(a.rows) {
			return a.rows[a.listCursor].ID
		}
		return ""
	}
	order := a.grid.Order()
	if a.gridCursor < len(order) {
		return order[a.gridCursor]
	}
	return ""
}

// openPopup selects the cursor country and starts a detail session.
// Opening over an existing popup supersedes it; the old session's
// result, if still in flight, will be discarded on arrival.
func (a App) openPopup() (tea.Model, tea.Cmd) {
	id := a.cursorID()
	if id == "" {
		return a, nil
	}

	a.searching = false
	a.input.Blur()
	a.coord.Select(id)
	a.session = a.tracker.Open(id)
	logging.Debug("popup opened", "country", id, "seq", a.session.Seq())

	return a, tea.Batch(a.cfg.LoadDetail(id, a.session.Seq()), a.spin.Tick)
}

func (a *App) closePopup() {
	if a.session == nil {
		return
	}
	a.tracker.Close(a.session)
	a.session = nil
}

func (a App) View() string {
	if a.width == 0 {
		return "starting..."
	}

	var sections []string
	sections = append(sections, StatusBar.Width(a.width).Render("worldmood"))
	sections = append(sections, a.grid.Render(a.summaries, a.mapCursorID(), a.width))

	if a.searching || a.input.Value() != "" {
		sections = append(sections, SearchPrompt.Render(a.input.View()))
	}

	listCursor := -1
	if a.focus == focusList {
		listCursor = a.listCursor
	}
	sections = append(sections, a.list.Render(a.rows, a.summaries, listCursor, a.input.Value(), a.listHeight()))

	sections = append(sections, a.renderFeed())

	if a.err != nil {
		sections = append(sections, ErrorStyle.Render("error: "+a.err.Error()+" (esc to dismiss)"))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if a.session != nil {
		return a.overlayPopup(body)
	}
	return body
}

func (a App) mapCursorID() string {
	if a.focus != focusMap {
		return ""
	}
	order := a.grid.Order()
	if a.gridCursor < len(order) {
		return order[a.gridCursor]
	}
	return ""
}

func (a App) listHeight() int {
	h := a.height - len(a.grid.Order())/a.gridCols() - feedRows - 5
	if h < 5 {
		h = 5
	}
	return h
}

func (a App) renderFeed() string {
	out := FeedHeader.Render("latest across countries") + "\n"
	if len(a.feed) == 0 {
		return out + FeedMeta.Render("  nothing yet")
	}
	n := feedRows - 1
	if len(a.feed) < n {
		n = len(a.feed)
	}
	for _, art := range a.feed[:n] {
		tag := model.DisplayName(art.Country)
		out += FeedItem.Render("• "+art.Title) + " " + FeedMeta.Render(fmt.Sprintf("(%s)", tag)) + "\n"
	}
	return out
}

func (a App) overlayPopup(body string) string {
	name := model.DisplayName(a.session.ID())
	w := a.width * 2 / 3
	if w < 40 {
		w = 40
	}
	if w > a.width-2 {
		w = a.width - 2
	}

	var box string
	switch a.session.State() {
	case popup.Loading:
		box = RenderPopupLoading(name, a.spin.View(), w)
	default:
		box = RenderPopup(name, a.session.ViewModel(), w)
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}
