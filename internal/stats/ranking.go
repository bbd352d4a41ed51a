package stats

import (
	"sort"

	"github.com/verte-zerg/kanadrill/internal/model"
)

// SelectWeakChars returns up to top characters ordered from lowest accuracy.
// Ties break by more misses, then by character.
func SelectWeakChars(aggs []model.CharAggregate, top int) []string {
	return rank(aggs, top, func(a, b model.CharAggregate) bool {
		ai, aj := accuracy(a), accuracy(b)
		if ai != aj {
			return ai < aj
		}
		if a.Incorrect != b.Incorrect {
			return a.Incorrect > b.Incorrect
		}
		return a.Char < b.Char
	})
}

// TopCharsByFrequency returns the top n characters by total answers.
func TopCharsByFrequency(aggs []model.CharAggregate, n int) []string {
	if n <= 0 {
		return nil
	}
	return rank(aggs, n, func(a, b model.CharAggregate) bool {
		ta, tb := a.Correct+a.Incorrect, b.Correct+b.Incorrect
		if ta == tb {
			return a.Char < b.Char
		}
		return ta > tb
	})
}

// rank sorts a copy of aggs and keeps the first n; n <= 0 keeps all.
func rank(aggs []model.CharAggregate, n int, less func(a, b model.CharAggregate) bool) []string {
	if len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.CharAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if n <= 0 || n > len(sorted) {
		n = len(sorted)
	}
	out := make([]string, 0, n)
	for _, agg := range sorted[:n] {
		out = append(out, agg.Char)
	}
	return out
}

func accuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
