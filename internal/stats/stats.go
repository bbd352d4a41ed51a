// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/kanadrill/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes answers per minute and accuracy for a session.
func SessionMetrics(correct, incorrect int, durationMs int64) (apm, accuracy float64) {
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	if durationMs <= 0 {
		return 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	apm = den / minutes
	return apm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary of sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalAPM, bestAcc float64
	var correct, incorrect int
	for _, s := range sessions {
		apm, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalAPM += apm
		bestAcc = math.Max(bestAcc, acc)
		correct += s.Correct
		incorrect += s.Incorrect
	}
	_, overall := SessionMetrics(correct, incorrect, 0)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Answers: %d (%d correct, %d missed)", correct+incorrect, correct, incorrect),
		fmt.Sprintf("Accuracy: %.2f%%", overall*100),
		fmt.Sprintf("Best session accuracy: %.2f%%", bestAcc*100),
		fmt.Sprintf("Avg answers/min: %.1f", totalAPM/float64(len(sessions))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints accuracy and pace sparklines, truncated to width.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	accs := make([]float64, len(sessions))
	apms := make([]float64, len(sessions))
	for i, s := range sessions {
		apm, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		accs[i] = acc * 100
		apms[i] = apm
	}
	accs = MovingAverage(accs, window)
	apms = MovingAverage(apms, window)

	const label = "Answers/min "
	span := width - len(label) - 2
	if span > 0 && len(accs) > span {
		accs = accs[len(accs)-span:]
		apms = apms[len(apms)-span:]
	}
	lines := []string{
		"Learning Curves",
		fmt.Sprintf("%-*s[%s] %.1f%%", len(label), "Accuracy", Sparkline(accs), accs[len(accs)-1]),
		fmt.Sprintf("%s[%s] %.1f", label, Sparkline(apms), apms[len(apms)-1]),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCharTable prints per-character aggregates, weakest first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	rows := make([]model.CharAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		ai, aj := accuracy(rows[i]), accuracy(rows[j])
		if ai == aj {
			return rows[i].Char < rows[j].Char
		}
		return ai < aj
	})

	if _, err := fmt.Fprintln(w, "Per-Character (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Char", "Accuracy", "Avg Time (ms)", "Correct", "Missed"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		lat := 0.0
		if r.LatencyCount > 0 {
			lat = float64(r.LatencySumMs) / float64(r.LatencyCount)
		}
		tableRows = append(tableRows, []string{
			r.Char,
			fmt.Sprintf("%.2f%%", accuracy(r)*100),
			fmt.Sprintf("%.1f", lat),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Incorrect),
		})
	}
	return writeTable(w, headers, tableRows, map[int]bool{1: true, 2: true, 3: true, 4: true})
}

// RenderWeightTable prints selector weights, heaviest first.
func RenderWeightTable(w io.Writer, entries []model.WeightEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No saved weights.")
		return err
	}
	rows := make([]model.WeightEntry, len(entries))
	copy(rows, entries)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Weight == rows[j].Weight {
			return rows[i].Char < rows[j].Char
		}
		return rows[i].Weight > rows[j].Weight
	})
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		updated := ""
		if !r.UpdatedAt.IsZero() {
			updated = r.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		tableRows = append(tableRows, []string{r.Char, fmt.Sprintf("%.3f", r.Weight), updated})
	}
	return writeTable(w, []string{"Char", "Weight", "Updated"}, tableRows, map[int]bool{1: true})
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
