package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/kanadrill/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	apm, acc := SessionMetrics(9, 1, 60000)
	if apm != 10 || math.Abs(acc-0.9) > 1e-9 {
		t.Fatalf("unexpected metrics: apm=%v acc=%v", apm, acc)
	}
	apm, acc = SessionMetrics(0, 0, 0)
	if apm != 0 || acc != 0 {
		t.Fatalf("expected zero metrics, got %v %v", apm, acc)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestSparklineFlatAndRange(t *testing.T) {
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 1}); got != " @" {
		t.Fatalf("unexpected range sparkline %q", got)
	}
}

func TestRenderWeightTable(t *testing.T) {
	var buf bytes.Buffer
	entries := []model.WeightEntry{
		{Char: "二", Weight: 0.85},
		{Char: "一", Weight: 2.197, UpdatedAt: time.Now()},
	}
	if err := RenderWeightTable(&buf, entries); err != nil {
		t.Fatalf("render weights: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[1], "一") || !strings.Contains(lines[1], "2.197") {
		t.Fatalf("expected heaviest first, got %q", lines[1])
	}
	buf.Reset()
	if err := RenderWeightTable(&buf, nil); err != nil || !strings.Contains(buf.String(), "No saved weights") {
		t.Fatalf("unexpected empty output %q %v", buf.String(), err)
	}
}
