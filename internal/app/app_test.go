package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/kotoba-app/kotoba/internal/drill"
	"github.com/kotoba-app/kotoba/internal/router"
	"github.com/kotoba-app/kotoba/internal/screen"
	drillscreen "github.com/kotoba-app/kotoba/internal/screens/drill"
	"github.com/kotoba-app/kotoba/internal/vocab"
	"github.com/kotoba-app/kotoba/internal/weights"
)

type fakeSource struct{}

func (fakeSource) ListDecks(context.Context) ([]vocab.DeckInfo, error) {
	return []vocab.DeckInfo{{ID: "n5", WordCount: 1}}, nil
}

func (fakeSource) ListWords(context.Context, string) ([]vocab.Word, error) {
	return []vocab.Word{{ID: "neko", Text: "猫", Reading: "ねこ", DeckID: "n5"}}, nil
}

type backScreen struct {
	gotEsc bool
}

func (s *backScreen) Init() tea.Cmd { return nil }
func (s *backScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		s.gotEsc = true
	}
	return s, nil
}
func (s *backScreen) View(int, int) string { return "" }
func (s *backScreen) Title() string        { return "back" }
func (s *backScreen) HandlesBack() bool    { return true }

func testDeps() Deps {
	return Deps{
		UserID: "alice",
		Config: drill.DefaultConfig(),
		Source: fakeSource{},
		Store: func(scope weights.Scope) weights.Store {
			return weights.NewMemoryStore(scope)
		},
	}
}

func TestNewAppModel_StartsAtHome(t *testing.T) {
	m := newAppModel(testDeps(), Options{})
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
	if m.router.Active().Title() != "Decks" {
		t.Errorf("active = %q, want Decks", m.router.Active().Title())
	}
	if m.Init() == nil {
		t.Error("expected deck loading command")
	}
}

func TestNewAppModel_StartsInDrill(t *testing.T) {
	m := newAppModel(testDeps(), Options{DeckID: "n5", Mode: drill.ModeReading})
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}
	if _, ok := m.router.Active().(*drillscreen.DrillScreen); !ok {
		t.Errorf("active = %T, want drill screen", m.router.Active())
	}
}

func TestEscForwardedToBackHandler(t *testing.T) {
	m := newAppModel(testDeps(), Options{})
	bs := &backScreen{}
	m.router.Push(bs)

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !bs.gotEsc {
		t.Error("expected esc to reach the screen")
	}
	if cmd != nil {
		if _, ok := cmd().(router.PopScreenMsg); ok {
			t.Error("app must not pop a screen that handles esc")
		}
	}
}

func TestEscPopsOtherScreens(t *testing.T) {
	m := newAppModel(testDeps(), Options{})
	m.router.Push(newAppModel(testDeps(), Options{}).router.Active())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestEscAtRootIsNoop(t *testing.T) {
	m := newAppModel(testDeps(), Options{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("expected no command at the root screen")
	}
}

func TestFooterUsesScreenHints(t *testing.T) {
	m := newAppModel(testDeps(), Options{})
	hints := m.footerHints(m.router.Active())
	if len(hints) == 0 || hints[len(hints)-1].Key != "Ctrl+C" {
		t.Errorf("hints = %v, want screen hints ending in Ctrl+C", hints)
	}
}

func TestViewRenders(t *testing.T) {
	m := newAppModel(testDeps(), Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	am := updated.(AppModel)
	if am.width != 100 || am.height != 30 {
		t.Fatalf("size = %dx%d, want 100x30", am.width, am.height)
	}
	v := am.View()
	if !v.AltScreen {
		t.Error("expected alt screen")
	}
}
