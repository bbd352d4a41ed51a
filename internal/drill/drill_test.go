package drill

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/kanadrill/internal/deck"
	"github.com/verte-zerg/kanadrill/internal/selector"
)

func testDeck() deck.Deck {
	return deck.Deck{Name: "numbers", Cards: []deck.Card{
		{Key: "一", Answers: []string{"one"}},
		{Key: "二", Answers: []string{"two"}},
		{Key: "三", Answers: []string{"three"}},
	}}
}

func newSession(t *testing.T, d deck.Deck, mode deck.Mode) (*Session, *selector.Selector) {
	t.Helper()
	sel := selector.New(selector.DefaultParams(), rand.New(rand.NewSource(42)))
	s, err := New(sel, d, mode)
	require.NoError(t, err)
	return s, sel
}

func TestNewRejectsEmptyDeck(t *testing.T) {
	sel := selector.New(selector.DefaultParams(), nil)
	_, err := New(sel, deck.Deck{Name: "empty"}, deck.ModeRecognition)
	require.ErrorIs(t, err, selector.ErrInvalidPool)
}

func TestNextNeverRepeatsAnsweredKey(t *testing.T) {
	s, _ := newSession(t, testDeck(), deck.ModeRecognition)
	prev := ""
	for i := 0; i < 300; i++ {
		q, err := s.Next()
		require.NoError(t, err)
		require.NotEqual(t, prev, q.Key)
		_, err = s.Answer("wrong")
		require.NoError(t, err)
		prev = q.Key
	}
}

func TestNextAvoidsSelectorLastSeenAcrossSessions(t *testing.T) {
	sel := selector.New(selector.DefaultParams(), rand.New(rand.NewSource(7)))
	for i := 0; i < 100; i++ {
		sel.MarkSeen("二")
		s, err := New(sel, testDeck(), deck.ModeRecognition)
		require.NoError(t, err)
		q, err := s.Next()
		require.NoError(t, err)
		require.NotEqual(t, "二", q.Key)
	}
}

func TestSingleCardDeckRepeats(t *testing.T) {
	d := deck.Deck{Name: "one", Cards: []deck.Card{{Key: "あ", Answers: []string{"a"}}}}
	s, _ := newSession(t, d, deck.ModeRecognition)
	for i := 0; i < 3; i++ {
		q, err := s.Next()
		require.NoError(t, err)
		require.Equal(t, "あ", q.Key)
		res, err := s.Answer("a")
		require.NoError(t, err)
		require.True(t, res.Correct)
	}
}

func TestAnswerUpdatesWeight(t *testing.T) {
	s, sel := newSession(t, testDeck(), deck.ModeRecognition)
	q, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, 1.0, sel.Weight(q.Key))
	last, _ := sel.LastSeen()
	assert.Equal(t, q.Key, last)

	card, _ := testDeck().Card(q.Key)
	res, err := s.Answer(" " + card.Answers[0] + " ")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.InDelta(t, 0.85, res.Weight, 1e-9)
	assert.InDelta(t, 0.85, sel.Weight(q.Key), 1e-9)

	q, err = s.Next()
	require.NoError(t, err)
	res, err = s.Answer("nope")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.InDelta(t, 1.3, sel.Weight(q.Key), 1e-9)
}

func TestAnswerWithoutQuestion(t *testing.T) {
	s, _ := newSession(t, testDeck(), deck.ModeRecognition)
	_, err := s.Answer("one")
	require.ErrorIs(t, err, ErrNoQuestion)
	_, err = s.Skip()
	require.ErrorIs(t, err, ErrNoQuestion)
}

func TestSkipCountsAsMiss(t *testing.T) {
	s, sel := newSession(t, testDeck(), deck.ModeReverse)
	q, err := s.Next()
	require.NoError(t, err)
	res, err := s.Skip()
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.False(t, res.Correct)
	assert.Equal(t, q.Key, res.Expected)
	assert.InDelta(t, 1.3, sel.Weight(q.Key), 1e-9)
	_, ok := s.Pending()
	assert.False(t, ok)
}

func TestModesShareWeights(t *testing.T) {
	d := deck.Deck{Name: "one", Cards: []deck.Card{{Key: "あ", Answers: []string{"a"}}}}
	sel := selector.New(selector.DefaultParams(), rand.New(rand.NewSource(1)))

	forward, err := New(sel, d, deck.ModeRecognition)
	require.NoError(t, err)
	_, err = forward.Next()
	require.NoError(t, err)
	_, err = forward.Answer("x")
	require.NoError(t, err)

	reverse, err := New(sel, d, deck.ModeReverse)
	require.NoError(t, err)
	q, err := reverse.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", q.Prompt)
	_, err = reverse.Answer("x")
	require.NoError(t, err)

	assert.InDelta(t, 1.3*1.3, sel.Weight("あ"), 1e-9)
}

func TestFinishSnapshotsAndResets(t *testing.T) {
	s, _ := newSession(t, testDeck(), deck.ModeRecognition)
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := start
	s.now = func() time.Time { return clock }

	for i := 0; i < 4; i++ {
		q, err := s.Next()
		require.NoError(t, err)
		clock = clock.Add(2 * time.Second)
		card, _ := testDeck().Card(q.Key)
		answer := "bad"
		if i%2 == 0 {
			answer = card.Answers[0]
		}
		_, err = s.Answer(answer)
		require.NoError(t, err)
	}
	answered, correct, incorrect := s.Progress()
	assert.Equal(t, 4, answered)
	assert.Equal(t, 2, correct)
	assert.Equal(t, 2, incorrect)

	stats, chars := s.Finish(clock)
	assert.Equal(t, "numbers", stats.Deck)
	assert.Equal(t, "recognition", stats.Mode)
	assert.Equal(t, 4, stats.Questions)
	assert.Equal(t, int64(8000), stats.DurationMs)

	var gotCorrect, gotIncorrect int
	var latency int64
	for _, c := range chars {
		gotCorrect += c.Correct
		gotIncorrect += c.Incorrect
		latency += c.LatencySumMs
	}
	assert.Equal(t, 2, gotCorrect)
	assert.Equal(t, 2, gotIncorrect)
	assert.Equal(t, int64(4000), latency)

	answered, _, _ = s.Progress()
	assert.Zero(t, answered)
}
