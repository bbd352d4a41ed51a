// Package selector picks the next character to drill, biased toward characters
// the learner answers incorrectly.
//
// A Selector holds a weight table and a short recency memory for one drill
// session. It is not safe for concurrent use: each active drill owns its own
// instance and passes it to whatever needs it.
package selector

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// ErrInvalidPool is returned when selection is attempted over an empty pool.
var ErrInvalidPool = errors.New("selector: candidate pool is empty")

// DefaultWeight is the weight of a key that has no table entry yet.
const DefaultWeight = 1.0

// Params tunes how outcomes move weights.
type Params struct {
	CorrectFactor float64
	WrongFactor   float64
	MinWeight     float64
	MaxWeight     float64
	RecentSize    int
}

// DefaultParams returns the recommended tuning.
func DefaultParams() Params {
	return Params{
		CorrectFactor: 0.85,
		WrongFactor:   1.3,
		MinWeight:     0.1,
		MaxWeight:     10,
		RecentSize:    3,
	}
}

// Validate reports whether the parameters keep weights monotone and bounded.
// Checks are written so that NaN fails every range.
func (p Params) Validate() error {
	if !(p.CorrectFactor > 0 && p.CorrectFactor < 1) {
		return fmt.Errorf("correct factor must be in (0, 1), got %v", p.CorrectFactor)
	}
	if !(p.WrongFactor > 1) || math.IsInf(p.WrongFactor, 0) {
		return fmt.Errorf("wrong factor must be > 1, got %v", p.WrongFactor)
	}
	if !(p.MinWeight > 0 && p.MinWeight <= DefaultWeight) {
		return fmt.Errorf("min weight must be in (0, %v], got %v", DefaultWeight, p.MinWeight)
	}
	if !(p.MaxWeight >= DefaultWeight) || math.IsInf(p.MaxWeight, 0) {
		return fmt.Errorf("max weight must be finite and >= %v, got %v", DefaultWeight, p.MaxWeight)
	}
	if p.RecentSize < 1 {
		return fmt.Errorf("recent size must be >= 1, got %d", p.RecentSize)
	}
	return nil
}

// Selector chooses drill characters by weighted random draw.
type Selector struct {
	params  Params
	rnd     *rand.Rand
	weights map[string]float64
	recent  []string
}

// New returns a Selector with an empty weight table. A nil rnd is replaced by
// a source seeded with the current time. Invalid params fall back to the
// defaults; callers that accept user tuning should Validate first.
func New(params Params, rnd *rand.Rand) *Selector {
	if params.Validate() != nil {
		params = DefaultParams()
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{
		params:  params,
		rnd:     rnd,
		weights: map[string]float64{},
	}
}

// Params returns the tuning in use.
func (s *Selector) Params() Params {
	return s.params
}

// Select draws a key from pool with probability proportional to its weight.
func (s *Selector) Select(pool []string) (string, error) {
	return s.draw(pool, "", false)
}

// SelectExcluding is Select with exclude given zero weight for this draw.
// The exclusion is ignored when pool holds no other key.
func (s *Selector) SelectExcluding(pool []string, exclude string) (string, error) {
	return s.draw(pool, exclude, true)
}

func (s *Selector) draw(pool []string, exclude string, hasExclude bool) (string, error) {
	if len(pool) == 0 {
		return "", ErrInvalidPool
	}
	if len(pool) == 1 {
		return pool[0], nil
	}
	if hasExclude && !hasOther(pool, exclude) {
		hasExclude = false
	}

	cumulative := make([]float64, len(pool))
	total := 0.0
	for i, key := range pool {
		if !hasExclude || key != exclude {
			total += s.Weight(key)
		}
		cumulative[i] = total
	}

	r := s.rnd.Float64() * total
	for i, acc := range cumulative {
		if acc > r {
			return pool[i], nil
		}
	}
	// Rounding can leave r at total; fall back to the last drawable key.
	for i := len(pool) - 1; i >= 0; i-- {
		if !hasExclude || pool[i] != exclude {
			return pool[i], nil
		}
	}
	return pool[len(pool)-1], nil
}

func hasOther(pool []string, key string) bool {
	for _, k := range pool {
		if k != key {
			return true
		}
	}
	return false
}

// MarkSeen ensures key has a weight entry and records it as most recent.
func (s *Selector) MarkSeen(key string) {
	if _, ok := s.weights[key]; !ok {
		s.weights[key] = DefaultWeight
	}
	for i, k := range s.recent {
		if k == key {
			s.recent = append(s.recent[:i], s.recent[i+1:]...)
			break
		}
	}
	s.recent = append(s.recent, key)
	if over := len(s.recent) - s.params.RecentSize; over > 0 {
		s.recent = s.recent[over:]
	}
}

// UpdateWeight applies one answer outcome to key's weight. Correct answers
// shrink the weight toward MinWeight, wrong answers grow it toward MaxWeight.
func (s *Selector) UpdateWeight(key string, wasCorrect bool) {
	w, ok := s.weights[key]
	if !ok {
		w = DefaultWeight
	}
	if wasCorrect {
		w = math.Max(w*s.params.CorrectFactor, s.params.MinWeight)
	} else {
		w = math.Min(w*s.params.WrongFactor, s.params.MaxWeight)
	}
	s.weights[key] = w
}

// Weight returns key's current weight, or DefaultWeight when it has no entry.
func (s *Selector) Weight(key string) float64 {
	if w, ok := s.weights[key]; ok {
		return w
	}
	return DefaultWeight
}

// Weights returns a copy of the weight table.
func (s *Selector) Weights() map[string]float64 {
	out := make(map[string]float64, len(s.weights))
	for k, w := range s.weights {
		out[k] = w
	}
	return out
}

// Restore merges a previously saved table into the selector. Values are
// clamped to [MinWeight, MaxWeight]; non-positive and NaN values are dropped.
func (s *Selector) Restore(weights map[string]float64) {
	for k, w := range weights {
		if math.IsNaN(w) || w <= 0 {
			continue
		}
		s.weights[k] = math.Min(math.Max(w, s.params.MinWeight), s.params.MaxWeight)
	}
}

// Recent returns the recency memory, oldest first.
func (s *Selector) Recent() []string {
	return append([]string(nil), s.recent...)
}

// LastSeen returns the most recently marked key.
func (s *Selector) LastSeen() (string, bool) {
	if len(s.recent) == 0 {
		return "", false
	}
	return s.recent[len(s.recent)-1], true
}
