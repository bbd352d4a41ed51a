// Package deck provides drill decks: built-in kana tables and user deck files.
package deck

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Card is one drillable unit. Key identifies it to the selector.
type Card struct {
	Key     string
	Answers []string
	Group   string
}

// Check reports whether input matches any accepted answer, ignoring case and
// surrounding or repeated whitespace.
func (c Card) Check(input string) bool {
	in := normalize(input)
	if in == "" {
		return false
	}
	for _, a := range c.Answers {
		if normalize(a) == in {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Deck is an ordered set of cards.
type Deck struct {
	Name  string
	Cards []Card
}

// Keys returns the card keys in deck order.
func (d Deck) Keys() []string {
	keys := make([]string, len(d.Cards))
	for i, c := range d.Cards {
		keys[i] = c.Key
	}
	return keys
}

// Card looks up a card by key.
func (d Deck) Card(key string) (Card, bool) {
	for _, c := range d.Cards {
		if c.Key == key {
			return c, true
		}
	}
	return Card{}, false
}

// Groups returns the distinct group names in first-seen order.
func (d Deck) Groups() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, c := range d.Cards {
		if c.Group == "" {
			continue
		}
		if _, ok := seen[c.Group]; ok {
			continue
		}
		seen[c.Group] = struct{}{}
		out = append(out, c.Group)
	}
	return out
}

// Filter keeps cards whose group is listed. An empty list keeps every card.
func (d Deck) Filter(groups []string) Deck {
	if len(groups) == 0 {
		return d
	}
	keep := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		keep[strings.ToLower(strings.TrimSpace(g))] = struct{}{}
	}
	out := Deck{Name: d.Name}
	for _, c := range d.Cards {
		if _, ok := keep[strings.ToLower(c.Group)]; ok {
			out.Cards = append(out.Cards, c)
		}
	}
	return out
}

// Load reads a user deck file. Each non-blank line not starting with '#' is
// "key<TAB>answers[<TAB>group]", answers separated by ';'.
func Load(path string) (Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		return Deck{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only deck.
			_ = cerr
		}
	}()

	d := Deck{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	seen := map[string]int{}
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		card, err := parseLine(line)
		if err != nil {
			return Deck{}, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		if prev, ok := seen[card.Key]; ok {
			return Deck{}, fmt.Errorf("%s:%d: duplicate key %q (first on line %d)", path, lineNo, card.Key, prev)
		}
		seen[card.Key] = lineNo
		d.Cards = append(d.Cards, card)
	}
	if err := scanner.Err(); err != nil {
		return Deck{}, err
	}
	if len(d.Cards) == 0 {
		return Deck{}, fmt.Errorf("deck is empty")
	}
	return d, nil
}

func parseLine(line string) (Card, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 || len(fields) > 3 {
		return Card{}, fmt.Errorf("expected 2 or 3 tab-separated fields, got %d", len(fields))
	}
	key := strings.TrimSpace(fields[0])
	if key == "" {
		return Card{}, fmt.Errorf("empty key")
	}
	var answers []string
	for _, a := range strings.Split(fields[1], ";") {
		if a = strings.TrimSpace(a); a != "" {
			answers = append(answers, a)
		}
	}
	if len(answers) == 0 {
		return Card{}, fmt.Errorf("no answers for %q", key)
	}
	card := Card{Key: key, Answers: answers}
	if len(fields) == 3 {
		card.Group = strings.TrimSpace(fields[2])
	}
	return card, nil
}
