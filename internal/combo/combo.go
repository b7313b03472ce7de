// Package combo groups cards into the playable shapes of Sâm and Tiến Lên and
// scores them.
package combo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/sambridge/internal/cards"
)

// Type identifies a combo shape
type Type int

const (
	Single Type = iota
	Pair
	Triple
	FourKind
	Straight
	DoubleSeq
	Pass
)

var typeNames = [...]string{"single", "pair", "triple", "four_kind", "straight", "double_seq", "pass"}

// Types lists every combo type in declaration order
var Types = []Type{Single, Pair, Triple, FourKind, Straight, DoubleSeq, Pass}

func (t Type) String() string {
	if t < Single || t > Pass {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// MarshalText encodes the type by name
func (t Type) MarshalText() ([]byte, error) {
	if t < Single || t > Pass {
		return nil, fmt.Errorf("unknown combo type %d", int(t))
	}
	return []byte(typeNames[t]), nil
}

// UnmarshalText decodes a type name. "quad" is accepted as an alias of four_kind.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseType converts a type name to a Type
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "quad" {
		return FourKind, nil
	}
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown combo type %q", s)
}

// Combo is a group of cards played together. Rank is the rank of the highest
// card; for straights it is never Two.
type Combo struct {
	Type  Type       `json:"type"`
	Rank  cards.Rank `json:"rank"`
	Cards cards.Hand `json:"cards"`
}

// Len returns the number of cards in the combo
func (c Combo) Len() int {
	return len(c.Cards)
}

func (c Combo) String() string {
	if c.Type == Pass {
		return "pass"
	}
	return fmt.Sprintf("%s(%s)", c.Type, c.Cards)
}

// CardCount sums the cards across combos
func CardCount(combos []Combo) int {
	n := 0
	for _, c := range combos {
		n += len(c.Cards)
	}
	return n
}

// AnalyzeHand decomposes a hand greedily into combos. Cards are consumed as
// they are assigned so no card appears twice. The order of detection is four
// of a kind, straights (longest first, no Two, at most ten cards), triples,
// pairs and finally singles.
func AnalyzeHand(hand cards.Hand) []Combo {
	var byRank [13][]cards.Card
	sorted := slices.Clone(hand)
	slices.Sort(sorted)
	for _, c := range sorted {
		if c.Valid() {
			byRank[c.Rank()] = append(byRank[c.Rank()], c)
		}
	}

	var combos []Combo

	for r := range byRank {
		if len(byRank[r]) >= 4 {
			combos = append(combos, Combo{Type: FourKind, Rank: cards.Rank(r), Cards: slices.Clone(byRank[r][:4])})
			byRank[r] = byRank[r][4:]
		}
	}

	for {
		start, length := longestRun(&byRank)
		if length < 3 {
			break
		}
		if length > 10 {
			length = 10
		}
		run := make(cards.Hand, 0, length)
		for r := start; r < start+length; r++ {
			run = append(run, byRank[r][0])
			byRank[r] = byRank[r][1:]
		}
		combos = append(combos, Combo{Type: Straight, Rank: cards.Rank(start + length - 1), Cards: run})
	}

	for r := range byRank {
		if len(byRank[r]) >= 3 {
			combos = append(combos, Combo{Type: Triple, Rank: cards.Rank(r), Cards: slices.Clone(byRank[r][:3])})
			byRank[r] = byRank[r][3:]
		}
	}

	for r := range byRank {
		if len(byRank[r]) >= 2 {
			combos = append(combos, Combo{Type: Pair, Rank: cards.Rank(r), Cards: slices.Clone(byRank[r][:2])})
			byRank[r] = byRank[r][2:]
		}
	}

	for r := range byRank {
		for _, c := range byRank[r] {
			combos = append(combos, Combo{Type: Single, Rank: cards.Rank(r), Cards: cards.Hand{c}})
		}
		byRank[r] = nil
	}

	return combos
}

// longestRun finds the first longest run of consecutive available ranks,
// ignoring Two.
func longestRun(byRank *[13][]cards.Card) (start, length int) {
	run := 0
	for r := 0; r < int(cards.Two); r++ {
		if len(byRank[r]) == 0 {
			run = 0
			continue
		}
		run++
		if run > length {
			length = run
			start = r - run + 1
		}
	}
	return start, length
}

// Classify identifies the combo formed by a set of played cards. It reports
// false when the cards do not form a legal shape.
func Classify(played cards.Hand) (Combo, bool) {
	if len(played) == 0 {
		return Combo{Type: Pass}, true
	}
	if played.Validate() != nil {
		return Combo{}, false
	}

	sorted := played.Sorted()
	counts := map[cards.Rank]int{}
	for _, c := range sorted {
		counts[c.Rank()]++
	}
	high := sorted[len(sorted)-1].Rank()

	if len(counts) == 1 {
		switch len(sorted) {
		case 1:
			return Combo{Type: Single, Rank: high, Cards: sorted}, true
		case 2:
			return Combo{Type: Pair, Rank: high, Cards: sorted}, true
		case 3:
			return Combo{Type: Triple, Rank: high, Cards: sorted}, true
		case 4:
			return Combo{Type: FourKind, Rank: high, Cards: sorted}, true
		}
		return Combo{}, false
	}

	if counts[cards.Two] > 0 || !consecutive(counts) || len(counts) < 3 {
		return Combo{}, false
	}

	per := len(sorted) / len(counts)
	for _, n := range counts {
		if n != per {
			return Combo{}, false
		}
	}
	switch per {
	case 1:
		return Combo{Type: Straight, Rank: high, Cards: sorted}, true
	case 2:
		return Combo{Type: DoubleSeq, Rank: high, Cards: sorted}, true
	}
	return Combo{}, false
}

func consecutive(counts map[cards.Rank]int) bool {
	lo, hi := cards.Two, cards.Three
	for r := range counts {
		lo = min(lo, r)
		hi = max(hi, r)
	}
	return int(hi-lo)+1 == len(counts)
}
