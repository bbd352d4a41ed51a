// Package drill runs one drill session over a deck using an adaptive selector.
package drill

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/kanadrill/internal/deck"
	"github.com/verte-zerg/kanadrill/internal/model"
	"github.com/verte-zerg/kanadrill/internal/selector"
)

// ErrNoQuestion is returned when an answer arrives with no pending question.
var ErrNoQuestion = errors.New("drill: no pending question")

// Question is what the learner is asked.
type Question struct {
	Key    string
	Prompt string
}

// Result is the outcome of one answered or skipped question.
type Result struct {
	Key      string
	Correct  bool
	Skipped  bool
	Expected string
	Weight   float64
}

type charStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

// Session drives the select, answer, update loop. The selector is owned by the
// caller and may outlive the session, so weights carry over between rounds.
type Session struct {
	sel  *selector.Selector
	deck deck.Deck
	mode deck.Mode
	pool []string
	now  func() time.Time

	pending   *Question
	askedAt   time.Time
	startedAt time.Time

	correct   int
	incorrect int
	charStats map[string]*charStat
}

// New starts a session. An empty deck fails with selector.ErrInvalidPool.
func New(sel *selector.Selector, d deck.Deck, mode deck.Mode) (*Session, error) {
	if sel == nil {
		return nil, fmt.Errorf("drill: nil selector")
	}
	if len(d.Cards) == 0 {
		return nil, fmt.Errorf("deck %q has no cards: %w", d.Name, selector.ErrInvalidPool)
	}
	return &Session{
		sel:       sel,
		deck:      d,
		mode:      mode,
		pool:      d.Keys(),
		now:       time.Now,
		charStats: map[string]*charStat{},
	}, nil
}

// Next picks the next question, avoiding the key the selector marked last.
func (s *Session) Next() (Question, error) {
	var (
		key string
		err error
	)
	if last, ok := s.sel.LastSeen(); ok {
		key, err = s.sel.SelectExcluding(s.pool, last)
	} else {
		key, err = s.sel.Select(s.pool)
	}
	if err != nil {
		return Question{}, err
	}
	card, ok := s.deck.Card(key)
	if !ok {
		return Question{}, fmt.Errorf("drill: selected key %q not in deck", key)
	}
	s.sel.MarkSeen(key)
	now := s.now()
	if s.startedAt.IsZero() {
		s.startedAt = now
	}
	s.askedAt = now
	q := Question{Key: key, Prompt: s.mode.Prompt(card)}
	s.pending = &q
	return q, nil
}

// Pending returns the question awaiting an answer.
func (s *Session) Pending() (Question, bool) {
	if s.pending == nil {
		return Question{}, false
	}
	return *s.pending, true
}

// Answer checks input against the pending question and records the outcome.
func (s *Session) Answer(input string) (Result, error) {
	if s.pending == nil {
		return Result{}, ErrNoQuestion
	}
	card, _ := s.deck.Card(s.pending.Key)
	return s.record(card, s.mode.Check(card, input), false), nil
}

// Skip reveals the answer and counts the question as missed.
func (s *Session) Skip() (Result, error) {
	if s.pending == nil {
		return Result{}, ErrNoQuestion
	}
	card, _ := s.deck.Card(s.pending.Key)
	return s.record(card, false, true), nil
}

func (s *Session) record(card deck.Card, correct, skipped bool) Result {
	s.sel.UpdateWeight(card.Key, correct)
	entry := s.charEntry(card.Key)
	if correct {
		s.correct++
		entry.correct++
		entry.latencySumMs += s.now().Sub(s.askedAt).Milliseconds()
		entry.latencyCount++
	} else {
		s.incorrect++
		entry.incorrect++
	}
	s.pending = nil
	return Result{
		Key:      card.Key,
		Correct:  correct,
		Skipped:  skipped,
		Expected: s.mode.Expected(card),
		Weight:   s.sel.Weight(card.Key),
	}
}

func (s *Session) charEntry(key string) *charStat {
	entry, ok := s.charStats[key]
	if !ok {
		entry = &charStat{}
		s.charStats[key] = entry
	}
	return entry
}

// Progress returns answered, correct and incorrect counts.
func (s *Session) Progress() (answered, correct, incorrect int) {
	return s.correct + s.incorrect, s.correct, s.incorrect
}

// Finish snapshots the round for storage and resets the counters. The
// selector state is left untouched.
func (s *Session) Finish(endedAt time.Time) (model.SessionStats, []model.CharStats) {
	startedAt := s.startedAt
	if startedAt.IsZero() {
		startedAt = endedAt
	}
	stats := model.SessionStats{
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		Deck:       s.deck.Name,
		Mode:       string(s.mode),
		Questions:  s.correct + s.incorrect,
		Correct:    s.correct,
		Incorrect:  s.incorrect,
		DurationMs: endedAt.Sub(startedAt).Milliseconds(),
	}
	chars := make([]model.CharStats, 0, len(s.charStats))
	for key, entry := range s.charStats {
		chars = append(chars, model.CharStats{
			Char:         key,
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}

	s.startedAt = time.Time{}
	s.correct = 0
	s.incorrect = 0
	s.charStats = map[string]*charStat{}
	return stats, chars
}
