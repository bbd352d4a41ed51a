package deck

import (
	"fmt"
	"strings"
)

// Mode decides what a question shows and what it accepts. Both modes score
// under the card key, so a glyph missed in one direction is favored in the other.
type Mode string

const (
	ModeRecognition Mode = "recognition"
	ModeReverse     Mode = "reverse"
)

// ParseMode accepts a mode name or its first letter.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "r", "recognition":
		return ModeRecognition, nil
	case "v", "reverse":
		return ModeReverse, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want recognition or reverse)", s)
	}
}

// Prompt is the text shown for card.
func (m Mode) Prompt(c Card) string {
	if m == ModeReverse {
		return strings.Join(c.Answers, " / ")
	}
	return c.Key
}

// Expected is the answer revealed after a miss.
func (m Mode) Expected(c Card) string {
	if m == ModeReverse {
		return c.Key
	}
	return strings.Join(c.Answers, " / ")
}

// Check reports whether input answers card in this mode.
func (m Mode) Check(c Card, input string) bool {
	if m == ModeReverse {
		return strings.TrimSpace(input) == c.Key
	}
	return c.Check(input)
}
