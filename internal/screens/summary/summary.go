package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kotoba-app/kotoba/internal/drill"
	"github.com/kotoba-app/kotoba/internal/router"
	"github.com/kotoba-app/kotoba/internal/screen"
	"github.com/kotoba-app/kotoba/internal/ui/components"
	"github.com/kotoba-app/kotoba/internal/ui/layout"
	"github.com/kotoba-app/kotoba/internal/ui/theme"
	"github.com/kotoba-app/kotoba/internal/vocab"
)

// SummaryScreen displays the result of a finished drill session.
type SummaryScreen struct {
	summary  drill.Summary
	mastered []vocab.Word
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. mastered lists the words that reached
// mastery during the session.
func New(summary drill.Summary, mastered []vocab.Word) *SummaryScreen {
	return &SummaryScreen{summary: summary, mastered: mastered}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary

	var b strings.Builder

	title := "Session complete!"
	if sum.Rounds == 0 {
		title = "No rounds played"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(title))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Deck: %s   Mode: %s   Duration: %d:%02d", sum.DeckID, sum.Mode, mins, secs)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Rounds: %d        Correct: %d        Accuracy: %.0f%%",
		sum.Rounds, sum.Correct, sum.Accuracy()*100)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	if sum.Rounds > 0 {
		bar := components.NewProgressBar("", sum.Accuracy(), true, min(width-8, 50))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n\n")
	}

	if len(s.mastered) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 60)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Newly mastered")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		for _, w := range s.mastered {
			line := fmt.Sprintf("  %s  %s  %s", w.Text, w.Reading, w.Meaning)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Accent).Render(line)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
