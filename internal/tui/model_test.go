package tui

import (
	"context"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/kanadrill/internal/deck"
	"github.com/verte-zerg/kanadrill/internal/drill"
	"github.com/verte-zerg/kanadrill/internal/model"
	"github.com/verte-zerg/kanadrill/internal/selector"
	"github.com/verte-zerg/kanadrill/internal/store"
)

func newTestModel(t *testing.T, questions int) (*Model, *selector.Selector) {
	t.Helper()
	d := deck.Deck{Name: "one", Cards: []deck.Card{{Key: "あ", Answers: []string{"a"}}}}
	sel := selector.New(selector.DefaultParams(), rand.New(rand.NewSource(1)))
	session, err := drill.New(sel, d, deck.ModeRecognition)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return NewModel(model.Config{Deck: "one", Questions: questions}, nil, sel, session), sel
}

func typeAndSubmit(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestSubmitCorrectAnswer(t *testing.T) {
	m, sel := newTestModel(t, 5)
	if q, ok := m.session.Pending(); !ok || q.Prompt != "あ" {
		t.Fatalf("unexpected pending question %+v", q)
	}
	typeAndSubmit(m, "a")
	if !m.lastCorrect || m.feedback != "あ correct" {
		t.Fatalf("unexpected feedback %q", m.feedback)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input to be cleared")
	}
	if w := sel.Weight("あ"); w >= 1.0 {
		t.Fatalf("expected weight to drop, got %v", w)
	}
}

func TestSkipRevealsAnswer(t *testing.T) {
	m, sel := newTestModel(t, 5)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.lastCorrect || !strings.Contains(m.feedback, "skipped: a") {
		t.Fatalf("unexpected feedback %q", m.feedback)
	}
	if w := sel.Weight("あ"); w <= 1.0 {
		t.Fatalf("expected weight to grow, got %v", w)
	}
}

func TestEmptySubmitIgnored(t *testing.T) {
	m, _ := newTestModel(t, 5)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if answered, _, _ := m.session.Progress(); answered != 0 {
		t.Fatalf("expected no answer recorded, got %d", answered)
	}
}

func TestRoundFinishesAfterQuestions(t *testing.T) {
	m, _ := newTestModel(t, 2)
	typeAndSubmit(m, "a")
	typeAndSubmit(m, "x")
	if !m.hasLast {
		t.Fatalf("expected round to finish")
	}
	if answered, _, _ := m.session.Progress(); answered != 0 {
		t.Fatalf("expected new round, got %d answered", answered)
	}
	if m.allCorrect != 1 || m.allIncorrect != 1 {
		t.Fatalf("unexpected totals %d/%d", m.allCorrect, m.allIncorrect)
	}
	if !containsAll(m.renderFooter(), []string{"Question 1/2", "Last 50.0%", "All-time 50.0%"}) {
		t.Fatalf("footer missing expected segments: %s", m.renderFooter())
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m, _ := newTestModel(t, 4)
	typeAndSubmit(m, "a")
	out := m.renderFooter()
	if !containsAll(out, []string{"Question 2/4", "Round 100.0%", "All-time 100.0%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	if !strings.Contains(m.View(), "あ") {
		t.Fatalf("expected prompt in view")
	}
}

func newStoreModel(t *testing.T, persist bool) (*Model, *selector.Selector, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "kanadrill.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	d := deck.Deck{Name: "one", Cards: []deck.Card{{Key: "あ", Answers: []string{"a"}}}}
	sel := selector.New(selector.DefaultParams(), rand.New(rand.NewSource(1)))
	session, err := drill.New(sel, d, deck.ModeRecognition)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	cfg := model.Config{Deck: "one", Mode: "recognition", Questions: 2, PersistWeights: persist}
	return NewModel(cfg, st, sel, session), sel, st
}

func TestFinishedRoundIsSavedWithWeights(t *testing.T) {
	m, sel, st := newStoreModel(t, true)
	typeAndSubmit(m, "a")
	typeAndSubmit(m, "x")

	ctx := context.Background()
	sessions, err := st.ListSessions(ctx, model.StatsConfig{Deck: "one"})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Correct != 1 || sessions[0].Incorrect != 1 {
		t.Fatalf("unexpected sessions %+v", sessions)
	}
	weights, err := st.LoadWeights(ctx)
	if err != nil {
		t.Fatalf("load weights: %v", err)
	}
	want := sel.Weights()
	if len(weights) != len(want) || weights["あ"] != want["あ"] {
		t.Fatalf("expected saved weights %v, got %v", want, weights)
	}
}

func TestWeightsNotSavedWhenPersistenceOff(t *testing.T) {
	m, _, st := newStoreModel(t, false)
	typeAndSubmit(m, "a")
	typeAndSubmit(m, "a")

	ctx := context.Background()
	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected the round to be saved, got %d sessions", len(sessions))
	}
	weights, err := st.LoadWeights(ctx)
	if err != nil {
		t.Fatalf("load weights: %v", err)
	}
	if len(weights) != 0 {
		t.Fatalf("expected no saved weights, got %v", weights)
	}
}

func TestQuitSavesPartialRound(t *testing.T) {
	m, _, st := newStoreModel(t, true)
	typeAndSubmit(m, "a")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Correct != 1 {
		t.Fatalf("unexpected sessions %+v", sessions)
	}
}

func TestLongAnswerIsNotTruncated(t *testing.T) {
	m, _ := newTestModel(t, 5)
	long := strings.Repeat("meaning ", 20)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(long)})
	if m.input.Value() != long {
		t.Fatalf("input truncated to %d chars", len(m.input.Value()))
	}
}

func TestFooterShowsRecentKeys(t *testing.T) {
	d := deck.Deck{Name: "numbers", Cards: []deck.Card{
		{Key: "一", Answers: []string{"one"}},
		{Key: "二", Answers: []string{"two"}},
	}}
	sel := selector.New(selector.DefaultParams(), rand.New(rand.NewSource(3)))
	session, err := drill.New(sel, d, deck.ModeRecognition)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	m := NewModel(model.Config{Deck: "numbers", Questions: 10}, nil, sel, session)
	first, _ := session.Pending()
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !strings.Contains(m.renderFooter(), "Recent "+first.Key) {
		t.Fatalf("footer missing recent key %q: %s", first.Key, m.renderFooter())
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
