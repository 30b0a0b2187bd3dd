package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kbaumler/worldmood/internal/band"
	"github.com/kbaumler/worldmood/internal/model"
	"github.com/kbaumler/worldmood/internal/search"
)

// MapGrid is the spatial view: the country roster as a colored grid of
// ISO codes. It implements selection.View.
type MapGrid struct {
	order  []string
	active string
}

// NewMapGrid creates a grid over the roster in display order.
func NewMapGrid(order []string) *MapGrid {
	return &MapGrid{order: order}
}

// MarkActive marks id as the one visually distinguished cell.
func (g *MapGrid) MarkActive(id string) { g.active = id }

// ClearActive removes the distinguishing mark.
func (g *MapGrid) ClearActive() { g.active = "" }

// Active returns the currently marked id, or "".
func (g *MapGrid) Active() string { return g.active }

// Order returns the roster order the grid lays out.
func (g *MapGrid) Order() []string { return g.order }

// Render draws the grid. cursor is the id under the keyboard cursor.
func (g *MapGrid) Render(summaries map[string]model.Summary, cursor string, width int) string {
	cellWidth := 4 // two-letter code plus cell padding
	cols := width / (cellWidth + 1)
	if cols < 1 {
		cols = 1
	}

	var rows []string
	var cells []string
	for _, id := range g.order {
		cells = append(cells, g.renderCell(id, summaries[id], cursor))
		if len(cells) == cols {
			rows = append(rows, strings.Join(cells, " "))
			cells = nil
		}
	}
	if len(cells) > 0 {
		rows = append(rows, strings.Join(cells, " "))
	}

	return strings.Join(rows, "\n")
}

func (g *MapGrid) renderCell(id string, sum model.Summary, cursor string) string {
	switch {
	case id == g.active:
		return ActiveCell.Render(id)
	case id == cursor:
		return CursorCell.Render(id)
	case sum.HasData():
		return CellStyle(band.Classify(*sum.Score).Color).Render(id)
	default:
		return NoDataCell.Render(id)
	}
}

// ListRow is one entry of the country list view.
type ListRow struct {
	ID    string
	Label string
	Score int // relevance score from the ranker
}

// BuildRows ranks the roster's display names against the query and
// resolves them back to country ids. Non-matching countries are
// excluded while the query is non-empty.
func BuildRows(order []string, query string) []ListRow {
	labels := make([]string, 0, len(order))
	byLabel := make(map[string]string, len(order))
	for _, id := range order {
		label := model.DisplayName(id)
		labels = append(labels, label)
		byLabel[label] = id
	}

	matches := search.Rank(labels, query)
	rows := make([]ListRow, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, ListRow{ID: byLabel[m.Label], Label: m.Label, Score: m.Score})
	}
	return rows
}

// CountryList is the list view: ranked country rows with scores and
// band labels. It implements selection.View.
type CountryList struct {
	active string
}

// NewCountryList creates an empty list view.
func NewCountryList() *CountryList {
	return &CountryList{}
}

// MarkActive marks id's row as the one active row.
func (l *CountryList) MarkActive(id string) { l.active = id }

// ClearActive removes the active mark.
func (l *CountryList) ClearActive() { l.active = "" }

// Active returns the currently marked id, or "".
func (l *CountryList) Active() string { return l.active }

// Render draws the rows. cursorIdx is the keyboard cursor position
// within rows; query drives match highlighting.
func (l *CountryList) Render(rows []ListRow, summaries map[string]model.Summary, cursorIdx int, query string, maxRows int) string {
	if len(rows) == 0 {
		return FeedMeta.Render("  no countries match")
	}

	var b strings.Builder
	for i, row := range rows {
		if maxRows > 0 && i >= maxRows {
			b.WriteString(FeedMeta.Render(fmt.Sprintf("  … %d more", len(rows)-maxRows)))
			b.WriteString("\n")
			break
		}

		label := search.Highlight(row.Label, query, func(s string) string {
			return MatchEmphasis.Render(s)
		})
		line := fmt.Sprintf("%-28s %s", label, summaryTag(summaries[row.ID]))

		switch {
		case row.ID == l.active:
			b.WriteString(ActiveRow.Render(line))
		case i == cursorIdx:
			b.WriteString(CursorRow.Render("> " + line))
		default:
			b.WriteString(NormalRow.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// summaryTag renders the score and band label column of a row.
func summaryTag(sum model.Summary) string {
	if !sum.HasData() {
		return FeedMeta.Render("no data")
	}
	b := band.Classify(*sum.Score)
	return fmt.Sprintf("%3.0f %s", *sum.Score, lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render(b.Label))
}
