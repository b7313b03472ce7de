package features

import (
	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/combo"
)

// MaxHand is the largest hand dealt in either game
const MaxHand = 13

// Candidate describes one legal move in the context of the current turn
type Candidate struct {
	HandSize         int
	MinOpponentCards int
	PlayersLeft      int
	Leading          bool
	Combo            combo.Combo
	// BreaksGroup is set when playing the move splits a pair, triple or four
	// of a kind still held in hand.
	BreaksGroup bool
}

// BreaksGroup reports whether playing cards leaves a partial rank group
// behind in hand.
func BreaksGroup(hand, played cards.Hand) bool {
	var held, used [13]int
	for _, c := range hand {
		held[c.Rank()]++
	}
	for _, c := range played {
		used[c.Rank()]++
	}
	for r := range used {
		if used[r] > 0 && held[r] >= 2 && used[r] < held[r] {
			return true
		}
	}
	return false
}

// Move encodes a candidate for the move scoring network.
func Move(c Candidate) []float64 {
	out := make([]float64, 0, CandidateWidth)
	out = append(out,
		float64(c.HandSize)/MaxHand,
		float64(c.MinOpponentCards)/MaxHand,
		playersFeature(c.PlayersLeft),
		indicator(c.Leading),
	)
	for _, t := range combo.Types {
		out = append(out, indicator(c.Combo.Type == t))
	}
	strength := 0.0
	if c.Combo.Type != combo.Pass {
		strength = combo.Strength(c.Combo)
	}
	return append(out,
		float64(c.Combo.Rank)/12.0,
		float64(c.Combo.Len())/MaxHand,
		strength,
		indicator(c.BreaksGroup),
	)
}
