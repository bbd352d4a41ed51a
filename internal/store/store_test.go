package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/kanadrill/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "kanadrill.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertSessionAndWeakChars(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for i, deckName := range []string{"hiragana", "katakana", "hiragana"} {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		stats := model.SessionStats{
			StartedAt:  start,
			EndedAt:    start.Add(30 * time.Second),
			Deck:       deckName,
			Mode:       "recognition",
			Questions:  4,
			Correct:    3,
			Incorrect:  1,
			DurationMs: 30000,
		}
		chars := []model.CharStats{
			{Char: "あ", Correct: 2, Incorrect: 0},
			{Char: "ぬ", Correct: 1, Incorrect: 1},
		}
		if _, err := st.InsertSession(ctx, stats, chars); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	sessions, err := st.ListSessions(ctx, model.StatsConfig{Deck: "hiragana"})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 hiragana sessions, got %d", len(sessions))
	}

	aggs, err := st.GetWeakChars(ctx, 1, "hiragana")
	if err != nil {
		t.Fatalf("weak chars: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(aggs))
	}
	for _, agg := range aggs {
		if agg.Char == "ぬ" && (agg.Correct != 1 || agg.Incorrect != 1) {
			t.Fatalf("unexpected aggregate for window 1: %+v", agg)
		}
	}

	if aggs, err := st.GetWeakChars(ctx, 0, ""); err != nil || aggs != nil {
		t.Fatalf("expected nil for empty window, got %v %v", aggs, err)
	}
}

func TestInsertSessionAssignsUUID(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now()
	for i := 0; i < 2; i++ {
		if _, err := st.InsertSession(ctx, model.SessionStats{StartedAt: now, EndedAt: now}, nil); err != nil {
			t.Fatalf("insert session %d: %v", i, err)
		}
	}
	var distinct int
	if err := st.db.QueryRow(`SELECT COUNT(DISTINCT uuid) FROM sessions`).Scan(&distinct); err != nil {
		t.Fatalf("count uuids: %v", err)
	}
	if distinct != 2 {
		t.Fatalf("expected 2 distinct uuids, got %d", distinct)
	}
}

func TestWeightsRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.SaveWeights(ctx, map[string]float64{"一": 2.197, "二": 0.85}); err != nil {
		t.Fatalf("save weights: %v", err)
	}
	if err := st.SaveWeights(ctx, map[string]float64{"二": 0.7225}); err != nil {
		t.Fatalf("update weights: %v", err)
	}
	weights, err := st.LoadWeights(ctx)
	if err != nil {
		t.Fatalf("load weights: %v", err)
	}
	if len(weights) != 2 || weights["一"] != 2.197 || weights["二"] != 0.7225 {
		t.Fatalf("unexpected weights: %v", weights)
	}

	entries, err := st.ListWeights(ctx)
	if err != nil {
		t.Fatalf("list weights: %v", err)
	}
	if entries[0].Char != "一" || entries[0].UpdatedAt.IsZero() {
		t.Fatalf("expected heaviest first: %+v", entries)
	}

	if err := st.ResetWeights(ctx); err != nil {
		t.Fatalf("reset weights: %v", err)
	}
	weights, err = st.LoadWeights(ctx)
	if err != nil {
		t.Fatalf("load weights: %v", err)
	}
	if len(weights) != 0 {
		t.Fatalf("expected empty table after reset, got %v", weights)
	}
}

func TestSaveWeightsSkipsInvalidValues(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.SaveWeights(ctx, map[string]float64{"a": math.NaN(), "b": 1, "c": math.Inf(1), "d": 0}); err != nil {
		t.Fatalf("save weights: %v", err)
	}
	weights, err := st.LoadWeights(ctx)
	if err != nil {
		t.Fatalf("load weights: %v", err)
	}
	if len(weights) != 1 || weights["b"] != 1 {
		t.Fatalf("expected only the valid weight to persist, got %v", weights)
	}
}
