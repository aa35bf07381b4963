// Package app wires the screens into a Bubble Tea program.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba/internal/drill"
	"github.com/kotoba-app/kotoba/internal/router"
	"github.com/kotoba-app/kotoba/internal/screen"
	drillscreen "github.com/kotoba-app/kotoba/internal/screens/drill"
	"github.com/kotoba-app/kotoba/internal/screens/history"
	"github.com/kotoba-app/kotoba/internal/screens/home"
	"github.com/kotoba-app/kotoba/internal/speech"
	"github.com/kotoba-app/kotoba/internal/store"
	"github.com/kotoba-app/kotoba/internal/ui/layout"
	"github.com/kotoba-app/kotoba/internal/vocab"
	"github.com/kotoba-app/kotoba/internal/weights"
)

// Deps holds everything the screens need.
type Deps struct {
	UserID string
	Config drill.Config
	Source vocab.Source

	// Store returns the weight store for a deck and test kind.
	Store func(scope weights.Scope) weights.Store

	// EventRepo is optional; without it history and event logging are off.
	EventRepo store.EventRepo
	Analyzer  drill.ReadingAnalyzer

	// Recognizer and Speaker are nil when speech is not configured.
	Recognizer *speech.Recognizer
	Speaker    speech.Speaker
	Logger     *zap.Logger
}

// Options selects where the program starts.
type Options struct {
	// DeckID, when set, opens a drill on that deck right away.
	DeckID string
	Mode   drill.Mode
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	init   tea.Cmd
	status string
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen, plus a drill
// screen on top when opts names a deck.
func newAppModel(deps Deps, opts Options) AppModel {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	homeScreen := home.New(home.Options{
		Source:     deps.Source,
		Stats:      statsFunc(deps),
		NewDrill:   drillFactory(deps),
		NewHistory: historyFactory(deps),
		CanSpeak:   deps.Recognizer != nil,
	})

	r := router.New(homeScreen)
	init := homeScreen.Init()
	if opts.DeckID != "" {
		mode := opts.Mode
		if mode == "" {
			mode = drill.ModeReading
		}
		init = tea.Batch(init, r.Push(drillFactory(deps)(opts.DeckID, mode)))
	}

	return AppModel{
		router: r,
		init:   init,
		status: deps.UserID + "  ",
	}
}

func drillFactory(deps Deps) func(deckID string, mode drill.Mode) screen.Screen {
	return func(deckID string, mode drill.Mode) screen.Screen {
		opts := drillscreen.Options{
			UserID:   deps.UserID,
			DeckID:   deckID,
			Mode:     mode,
			Config:   deps.Config,
			Source:   deps.Source,
			Store:    deps.Store(weights.Scope{DeckID: deckID, TestKind: string(mode)}),
			Analyzer: deps.Analyzer,
			Speaker:  deps.Speaker,
			Logger:   deps.Logger,
		}
		if deps.Recognizer != nil {
			opts.Recognizer = deps.Recognizer
		}
		if deps.EventRepo != nil {
			opts.Recorder = drill.NewEventRecorder(deps.EventRepo, deps.Logger)
		}
		return drillscreen.New(opts)
	}
}

func historyFactory(deps Deps) func() screen.Screen {
	if deps.EventRepo == nil {
		return nil
	}
	return func() screen.Screen {
		return history.New(deps.EventRepo, deps.UserID)
	}
}

func statsFunc(deps Deps) func(context.Context, drill.Mode) weights.Counters {
	return func(ctx context.Context, mode drill.Mode) weights.Counters {
		return deps.Store(weights.Scope{TestKind: string(mode)}).LoadCumulative(ctx, deps.UserID)
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.init
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits. Any
// running drill is ended before Run returns.
func Run(ctx context.Context, deps Deps, opts Options) error {
	m := newAppModel(deps, opts)
	defer m.router.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
