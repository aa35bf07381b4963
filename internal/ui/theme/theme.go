package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: ink and paper with a few seasonal accents.
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo (ai-iro)
	Secondary = lipgloss.Color("#F472B6") // Sakura
	Accent    = lipgloss.Color("#F59E0B") // Kohaku amber
	Success   = lipgloss.Color("#10B981") // Matcha
	Error     = lipgloss.Color("#EF4444") // Shu red
	Text      = lipgloss.Color("#F8FAFC") // Paper
	TextDim   = lipgloss.Color("#94A3B8") // Ash
	BgDark    = lipgloss.Color("#0B1120") // Sumi
	BgCard    = lipgloss.Color("#1E293B") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	// Prompt renders the word being drilled.
	Prompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text).
		Padding(1, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)

	// Meaning renders the gloss under the prompt.
	Meaning = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Listening = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Success)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
