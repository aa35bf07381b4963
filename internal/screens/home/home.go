package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/kotoba-app/kotoba/internal/drill"
	"github.com/kotoba-app/kotoba/internal/router"
	"github.com/kotoba-app/kotoba/internal/screen"
	"github.com/kotoba-app/kotoba/internal/ui/components"
	"github.com/kotoba-app/kotoba/internal/ui/layout"
	"github.com/kotoba-app/kotoba/internal/vocab"
	"github.com/kotoba-app/kotoba/internal/weights"
)

// Options wires the home screen to the rest of the app.
type Options struct {
	Source vocab.Source

	// Stats returns the learner's cumulative counters for a test kind.
	Stats func(ctx context.Context, mode drill.Mode) weights.Counters

	// NewDrill builds the drill screen for a deck.
	NewDrill func(deckID string, mode drill.Mode) screen.Screen

	// NewHistory builds the history screen; nil hides it.
	NewHistory func() screen.Screen

	// CanSpeak enables pronunciation drills.
	CanSpeak bool
}

type decksLoadedMsg struct {
	Decks   []vocab.DeckInfo
	Reading weights.Counters
	Speech  weights.Counters
	Err     error
}

// HomeScreen lists the decks and starts drills.
type HomeScreen struct {
	opts    Options
	decks   []vocab.DeckInfo
	menu    components.Menu
	reading weights.Counters
	speech  weights.Counters
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	return &HomeScreen{opts: opts}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadDecks()
}

// loadDecks lists the decks and the learner's totals.
func (h *HomeScreen) loadDecks() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		decks, err := h.opts.Source.ListDecks(ctx)
		if err != nil {
			return decksLoadedMsg{Err: err}
		}
		msg := decksLoadedMsg{Decks: decks}
		if h.opts.Stats != nil {
			msg.Reading = h.opts.Stats(ctx, drill.ModeReading)
			msg.Speech = h.opts.Stats(ctx, drill.ModeSpeech)
		}
		return msg
	}
}

func (h *HomeScreen) Title() string {
	return "Decks"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Reading drill"},
	}
	if h.opts.CanSpeak {
		hints = append(hints, layout.KeyHint{Key: "P", Description: "Pronunciation"})
	}
	if h.opts.NewHistory != nil {
		hints = append(hints, layout.KeyHint{Key: "H", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "Q", Description: "Quit"})
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case decksLoadedMsg:
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.decks = msg.Decks
		h.reading = msg.Reading
		h.speech = msg.Speech
		h.menu = components.NewMenu(h.menuItems())
		return h, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return h, tea.Quit
		case "h":
			if h.opts.NewHistory != nil {
				next := h.opts.NewHistory()
				return h, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
			return h, nil
		case "p":
			if item, ok := h.menu.Current(); ok && h.opts.CanSpeak && !item.Disabled {
				return h, h.startDrill(h.decks[h.menu.Selected].ID, drill.ModeSpeech)
			}
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(h.decks))
	for _, d := range h.decks {
		detail := fmt.Sprintf("%d words", d.WordCount)
		if d.Description != "" {
			detail += " · " + d.Description
		}
		label := d.ID
		if d.Name != "" && d.Name != d.ID {
			label = fmt.Sprintf("%s (%s)", d.Name, d.ID)
		}
		items = append(items, components.MenuItem{
			Label:    label,
			Detail:   detail,
			Disabled: d.WordCount == 0,
			Action:   func() tea.Cmd { return h.startDrill(d.ID, drill.ModeReading) },
		})
	}
	return items
}

func (h *HomeScreen) startDrill(deckID string, mode drill.Mode) tea.Cmd {
	next := h.opts.NewDrill(deckID, mode)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(width, height+8)
	cw := contentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	switch {
	case h.errMsg != "":
		sections = append(sections, renderNotice(cw, "Could not load decks: "+h.errMsg, true))
	case !h.loaded:
		sections = append(sections, renderNotice(cw, "Loading decks...", false))
	case len(h.decks) == 0:
		sections = append(sections, renderNotice(cw, "No decks found.", false))
	default:
		sections = append(sections, renderStatsBar(h.reading, h.speech, cw))
		sections = append(sections, renderDeckBox(h.menu.View(), cw))
		if !h.opts.CanSpeak {
			sections = append(sections, renderNotice(cw, "Pronunciation drills need a speech provider.", false))
		}
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}
