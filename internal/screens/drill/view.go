package drill

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	dr "github.com/kotoba-app/kotoba/internal/drill"
	"github.com/kotoba-app/kotoba/internal/speech"
	"github.com/kotoba-app/kotoba/internal/ui/theme"
)

func (s *DrillScreen) View(width, height int) string {
	if s.errMsg != "" {
		return centered(width, theme.Error).
			Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", s.errMsg))
	}
	if !s.loaded {
		return centered(width, theme.TextDim).Render("\n\n\n  Loading deck...")
	}

	state := s.machine.State()
	if state == dr.StateEmpty {
		return centered(width, theme.TextDim).
			Render(fmt.Sprintf("\n\n\n  Deck %q has no words to drill.\n\n  Press Esc to go back.", s.opts.DeckID))
	}

	ww, ok := s.machine.Current()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Prompt.Render(ww.Word.Text)))
	b.WriteString("\n")
	if ww.Word.Meaning != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Meaning.Render(ww.Word.Meaning)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch state {
	case dr.StateIdle:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "Reading: "+s.input.View()))
		if s.canListen() {
			b.WriteString("\n\n")
			b.WriteString(centered(width, theme.TextDim).Render("or press Space and say it aloud"))
		}
	case dr.StateListening:
		b.WriteString(centered(width, theme.Secondary).Bold(true).Render("● Listening... press Space when done"))
	case dr.StateProcessing:
		b.WriteString(centered(width, theme.TextDim).Render("Checking..."))
	case dr.StateCorrect, dr.StateIncorrect:
		b.WriteString(s.renderOutcome(width))
	case dr.StateError:
		b.WriteString(centered(width, theme.Error).Bold(true).Render(recognitionMessage(s.machine.LastError())))
		b.WriteString("\n\n")
		b.WriteString(centered(width, theme.TextDim).Render("Press Space to try again"))
	}

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(centered(width, theme.TextDim).Italic(true).Render(s.notice))
	}

	return b.String()
}

// renderInfoLine shows the round number and session score.
func (s *DrillScreen) renderInfoLine(width int) string {
	counts := s.machine.Session()

	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Deck: %s", s.opts.DeckID))

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Round %d  %s %d/%d",
			s.round(),
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"),
			counts.Correct,
			counts.Total,
		))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
	return line + "\n" + rule
}

// round is the 1-based number of the round on screen.
func (s *DrillScreen) round() int {
	total := s.machine.Session().Total
	switch s.machine.State() {
	case dr.StateCorrect, dr.StateIncorrect:
		return total
	}
	return total + 1
}

func (s *DrillScreen) renderOutcome(width int) string {
	out := s.machine.LastOutcome()

	var b strings.Builder
	if out.Correct {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Correct.Render("正解  Correct!")))
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Incorrect.Render("Not quite")))
	}
	b.WriteString("\n\n")

	b.WriteString(centered(width, theme.Text).Render("Reading: " + out.Expected))
	b.WriteString("\n")
	switch {
	case out.GaveUp:
		b.WriteString(centered(width, theme.TextDim).Render("(gave up)"))
	case s.opts.Mode == dr.ModeSpeech:
		b.WriteString(centered(width, theme.TextDim).Render("Heard: " + out.Input))
	default:
		b.WriteString(centered(width, theme.TextDim).Render("You typed: " + out.Input))
	}

	if out.JustMastered {
		b.WriteString("\n\n")
		b.WriteString(centered(width, theme.Accent).Bold(true).Render("Word mastered!"))
	}
	return b.String()
}

func recognitionMessage(err error) string {
	switch {
	case err == nil:
		return "Could not recognize that."
	case errors.Is(err, speech.ErrNoSpeech):
		return "Didn't catch that."
	default:
		return "Recognition failed: " + err.Error()
	}
}

func centered(width int, fg color.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg)
}
