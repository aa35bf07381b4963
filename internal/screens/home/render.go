package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/kotoba-app/kotoba/internal/ui/theme"
	"github.com/kotoba-app/kotoba/internal/weights"
)

const titleFull = `言葉  kotoba
ことば · vocabulary drills`

const titleCompact = "言葉 · kotoba"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 64)
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	text := titleFull
	if compact {
		text = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(text))
}

// renderStatsBar shows lifetime accuracy per test kind.
func renderStatsBar(reading, speech weights.Counters, cw int) string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	value := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	stats := fmt.Sprintf("%s %s    %s %s",
		label.Render("reading"), value.Render(score(reading)),
		label.Render("speech"), value.Render(score(speech)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Render(stats)
}

func score(c weights.Counters) string {
	if c.Total == 0 {
		return "–"
	}
	return fmt.Sprintf("%d/%d (%.0f%%)", c.Correct, c.Total, float64(c.Correct)/float64(c.Total)*100)
}

func renderDeckBox(menu string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(1, 0).
		Render(menu)
}

func renderNotice(cw int, text string, isErr bool) string {
	fg := theme.TextDim
	if isErr {
		fg = theme.Error
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(fg).
		Italic(!isErr).
		Render(text)
}

func renderFrame(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
