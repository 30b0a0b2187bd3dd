package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kbaumler/worldmood/internal/popup"
	"github.com/kbaumler/worldmood/internal/sentiment"
)

const sharesBarWidth = 30

var (
	positiveSeg = lipgloss.NewStyle().Background(lipgloss.Color("#22c55e"))
	neutralSeg  = lipgloss.NewStyle().Background(lipgloss.Color("#64748b"))
	negativeSeg = lipgloss.NewStyle().Background(lipgloss.Color("#dc2626"))
)

// RenderPopupLoading draws the popup while its detail fetch is in
// flight. frame is the current spinner frame.
func RenderPopupLoading(name, frame string, width int) string {
	body := PopupTitle.Render(name) + "\n\n" + frame + " loading"
	return PopupFrame.Width(width).Render(body)
}

// RenderPopup draws a resolved popup from its view model.
func RenderPopup(name string, vm popup.ViewModel, width int) string {
	var b strings.Builder
	b.WriteString(PopupTitle.Render(name))
	b.WriteString("\n\n")

	scoreLine := vm.ScoreText
	if vm.BandLabel != popup.Placeholder {
		scoreLine += "  " + lipgloss.NewStyle().Foreground(lipgloss.Color(vm.BandColor)).Render(vm.BandLabel)
	}
	if vm.TrendText != "" {
		scoreLine += "  " + FeedMeta.Render(vm.TrendText)
	}
	b.WriteString(PopupField.Render("score") + " " + scoreLine + "\n")
	b.WriteString(PopupField.Render("label") + " " + vm.ScoreLabel + "\n")
	b.WriteString(PopupField.Render("mood ") + " " + vm.Assessment + "\n")

	if vm.ShowShares {
		b.WriteString("\n")
		b.WriteString(renderShares(vm.Shares))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if len(vm.Articles) > 0 {
		for _, a := range vm.Articles {
			b.WriteString(FeedItem.Render("• "+a.Title) + "\n")
			if !a.Published.IsZero() {
				b.WriteString(FeedMeta.Render("  "+a.Published.Format("2006-01-02 15:04")) + "\n")
			}
		}
	} else {
		b.WriteString(FeedMeta.Render(vm.ArticlesNote) + "\n")
	}

	if !vm.LastUpdated.IsZero() {
		b.WriteString("\n")
		b.WriteString(FeedMeta.Render("updated " + vm.LastUpdated.Format("2006-01-02 15:04")))
	}

	return PopupFrame.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// renderShares draws the three sentiment shares as a proportional bar
// plus a percentage legend.
func renderShares(s sentiment.Shares) string {
	pw := int(s.Positive / 100 * sharesBarWidth)
	nw := int(s.Negative / 100 * sharesBarWidth)
	mw := sharesBarWidth - pw - nw
	if mw < 0 {
		mw = 0
	}

	bar := positiveSeg.Render(strings.Repeat(" ", pw)) +
		neutralSeg.Render(strings.Repeat(" ", mw)) +
		negativeSeg.Render(strings.Repeat(" ", nw))

	legend := fmt.Sprintf("+%.0f%%  ·%.0f%%  -%.0f%%", s.Positive, s.Neutral, s.Negative)
	return bar + "\n" + FeedMeta.Render(legend)
}
