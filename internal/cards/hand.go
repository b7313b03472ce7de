package cards

import (
	"fmt"
	"slices"
	"strings"
)

// Hand is an unordered collection of cards
type Hand []Card

// ParseHand parses a whitespace or comma separated list of cards
func ParseHand(s string) (Hand, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	hand := make(Hand, 0, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		hand = append(hand, c)
	}
	return hand, nil
}

// Clone returns a copy of the hand
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	return slices.Clone(h)
}

// Sorted returns a copy ordered by rank, then suit
func (h Hand) Sorted() Hand {
	out := h.Clone()
	slices.SortFunc(out, func(a, b Card) int {
		if a.Rank() != b.Rank() {
			return int(a.Rank()) - int(b.Rank())
		}
		return int(a.Suit()) - int(b.Suit())
	})
	return out
}

// String renders the sorted hand, e.g. "3♠ 4♠ 5♥"
func (h Hand) String() string {
	sorted := h.Sorted()
	parts := make([]string, len(sorted))
	for i, c := range sorted {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// IDs returns the raw card ids
func (h Hand) IDs() []int {
	ids := make([]int, len(h))
	for i, c := range h {
		ids[i] = int(c)
	}
	return ids
}

// Contains reports whether the card is in the hand
func (h Hand) Contains(c Card) bool {
	return slices.Contains(h, c)
}

// SameCards reports whether both hands hold exactly the same cards
func (h Hand) SameCards(other Hand) bool {
	if len(h) != len(other) {
		return false
	}
	a := slices.Clone(h)
	b := slices.Clone(other)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// Validate checks every id is in range and no card appears twice
func (h Hand) Validate() error {
	var seen [DeckSize]bool
	for _, c := range h {
		if !c.Valid() {
			return fmt.Errorf("card id %d out of range", int(c))
		}
		if seen[c] {
			return fmt.Errorf("duplicate card %s", c)
		}
		seen[c] = true
	}
	return nil
}

// Deck returns all 52 cards in id order
func Deck() Hand {
	deck := make(Hand, DeckSize)
	for i := range deck {
		deck[i] = Card(i)
	}
	return deck
}
