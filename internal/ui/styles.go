package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorMuted     = lipgloss.Color("240")
	colorSecondary = lipgloss.Color("241")
	colorHighlight = lipgloss.Color("212")
	colorNoData    = lipgloss.Color("238")

	colorPositive = lipgloss.Color("#3fb950")
	colorNeutral  = lipgloss.Color("#8b949e")
	colorNegative = lipgloss.Color("#f85149")
)

// CellStyle renders a map cell in its band color.
func CellStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color(hex)).
		Padding(0, 1)
}

// NoDataCell style for countries without a usable score.
var NoDataCell = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Background(colorNoData).
	Padding(0, 1)

// ActiveCell marks the selected country on the map.
var ActiveCell = lipgloss.NewStyle().
	Bold(true).
	Reverse(true).
	Padding(0, 1)

// CursorCell marks the keyboard cursor on the map.
var CursorCell = lipgloss.NewStyle().
	Bold(true).
	Underline(true).
	Padding(0, 1)

// ActiveRow style for the selected list row.
var ActiveRow = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("62")).
	Padding(0, 1)

// CursorRow style for the row under the keyboard cursor.
var CursorRow = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// NormalRow style for other rows.
var NormalRow = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Padding(0, 1)

// MatchEmphasis highlights the matched substring in a label.
var MatchEmphasis = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Underline(true)

// PopupFrame surrounds the detail popup.
var PopupFrame = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(1, 2)

// PopupTitle style for the country name header.
var PopupTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// PopupField style for field labels inside the popup.
var PopupField = lipgloss.NewStyle().
	Foreground(colorSecondary)

// FeedHeader style for the article feed heading.
var FeedHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	MarginTop(1)

// FeedItem style for article lines.
var FeedItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

// FeedMeta style for article timestamps and country tags.
var FeedMeta = lipgloss.NewStyle().
	Foreground(colorMuted)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// ErrorStyle for the dismissible error bar.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// SearchPrompt style for the search input prompt.
var SearchPrompt = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)
