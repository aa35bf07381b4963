package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/kotoba-app/kotoba/internal/router"
	"github.com/kotoba-app/kotoba/internal/store"
)

// fakeEventRepo serves canned session summaries.
type fakeEventRepo struct {
	store.EventRepo
	sessions []store.SessionSummaryRecord
	err      error
	userID   string
}

func (f *fakeEventRepo) QuerySessionSummaries(_ context.Context, userID string, _ store.QueryOpts) ([]store.SessionSummaryRecord, error) {
	f.userID = userID
	return f.sessions, f.err
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	s.Update(s.Init()())
}

func TestHistory_ListsSessions(t *testing.T) {
	repo := &fakeEventRepo{sessions: []store.SessionSummaryRecord{
		{SessionID: "s2", DeckID: "n5", Mode: "speech", Rounds: 4, Correct: 3, DurationSecs: 95, Timestamp: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)},
		{SessionID: "s1", DeckID: "n4", Mode: "reading", Rounds: 10, Correct: 5, Timestamp: time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)},
	}}
	s := New(repo, "alice")
	load(t, s)

	if repo.userID != "alice" {
		t.Errorf("queried user = %q, want alice", repo.userID)
	}
	view := s.View(100, 30)
	for _, want := range []string{"Mar 02, 2026", "1:35", "75% accuracy", "50% accuracy"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistory_ExpandSelected(t *testing.T) {
	repo := &fakeEventRepo{sessions: []store.SessionSummaryRecord{
		{SessionID: "s2", DeckID: "n5", Mode: "speech", Rounds: 4, Correct: 3},
		{SessionID: "s1", DeckID: "n4", Mode: "reading", Rounds: 10, Correct: 5},
	}}
	s := New(repo, "alice")
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := s.View(100, 30)
	if !strings.Contains(view, "session s1") {
		t.Error("expected details for selected session")
	}
	if strings.Contains(view, "session s2") {
		t.Error("unselected session should stay collapsed")
	}
}

func TestHistory_Empty(t *testing.T) {
	s := New(&fakeEventRepo{}, "alice")
	load(t, s)
	if !strings.Contains(s.View(100, 30), "No sessions yet") {
		t.Error("expected empty message")
	}
}

func TestHistory_Error(t *testing.T) {
	s := New(&fakeEventRepo{err: errors.New("db locked")}, "alice")
	load(t, s)
	if !strings.Contains(s.View(100, 30), "db locked") {
		t.Error("expected error message")
	}
}

func TestHistory_EscPops(t *testing.T) {
	s := New(&fakeEventRepo{}, "alice")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
