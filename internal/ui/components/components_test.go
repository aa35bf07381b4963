package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func TestMenuSkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "empty deck", Disabled: true},
		{Label: "n5"},
		{Label: "broken", Disabled: true},
		{Label: "n4"},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("after down = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("after up = %d, want 1", m.Selected)
	}
}

func TestMenuEnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "n5", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !ran {
		t.Error("expected action to run on enter")
	}
}

func TestMenuViewShowsDetail(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "n5", Detail: "30 words"}})
	view := m.View()
	if !strings.Contains(view, "n5") || !strings.Contains(view, "30 words") {
		t.Errorf("view = %q", view)
	}
}

func TestMenuCurrentEmpty(t *testing.T) {
	if _, ok := NewMenu(nil).Current(); ok {
		t.Error("expected no current item in empty menu")
	}
}

func TestTextInputSubmitAndReset(t *testing.T) {
	ti := NewTextInput("reading", 10)
	ti.Model.SetValue("ねこ")
	ti.Submit(true)
	if !strings.Contains(ti.View(), "✓") {
		t.Error("expected correct marker after submit")
	}

	ti, _ = ti.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if ti.Value() != "ねこ" {
		t.Errorf("value changed after submit: %q", ti.Value())
	}

	ti.Reset()
	if ti.Value() != "" || strings.Contains(ti.View(), "✓") {
		t.Error("expected reset to clear value and marker")
	}
}

func TestProgressBarWidth(t *testing.T) {
	for _, pct := range []float64{-1, 0, 0.5, 1, 2} {
		bar := NewProgressBar("", pct, false, 20).View()
		if got := lipgloss.Width(bar); got != 20 {
			t.Errorf("percent %v: width = %d, want 20", pct, got)
		}
	}
}
