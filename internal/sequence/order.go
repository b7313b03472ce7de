// Package sequence orders the combos of a hand into a play plan, so that a
// Báo Sâm declaration and the moves that follow it agree on the order.
package sequence

import (
	"cmp"
	"slices"

	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/features"
	"github.com/lox/sambridge/internal/probability"
)

// Order names a combo ordering
type Order string

const (
	StrengthDesc Order = "strength_desc"
	StrengthAsc  Order = "strength_asc"
	PatternBased Order = "pattern_based"
	Balanced     Order = "balanced"
)

// PowerFirstAbove is the power concentration above which a pattern based
// order plays strongest combos first.
const PowerFirstAbove = 0.6

// Ordered analyses the hand and returns its combos in the requested order.
// Unknown orders fall back to strongest first.
func Ordered(hand cards.Hand, players int, order Order) []combo.Combo {
	combos := combo.AnalyzeHand(hand)
	if len(combos) == 0 {
		return nil
	}
	return Arrange(combos, players, order)
}

// Arrange orders already analysed combos. The input slice is not modified.
func Arrange(combos []combo.Combo, players int, order Order) []combo.Combo {
	switch order {
	case StrengthAsc:
		return byStrength(combos, false)
	case PatternBased:
		if features.Pattern(combos, players)[1] > PowerFirstAbove {
			return byStrength(combos, true)
		}
		return balanced(combos)
	case Balanced:
		return balanced(combos)
	default:
		return byStrength(combos, true)
	}
}

func byStrength(combos []combo.Combo, desc bool) []combo.Combo {
	out := slices.Clone(combos)
	slices.SortStableFunc(out, func(a, b combo.Combo) int {
		if desc {
			return cmp.Compare(combo.Strength(b), combo.Strength(a))
		}
		return cmp.Compare(combo.Strength(a), combo.Strength(b))
	})
	return out
}

// balanced interleaves strong, weak and medium combos, strongest of each
// band first.
func balanced(combos []combo.Combo) []combo.Combo {
	var strong, medium, weak []combo.Combo
	for _, c := range byStrength(combos, true) {
		switch s := combo.Strength(c); {
		case s >= 0.7:
			strong = append(strong, c)
		case s >= 0.4:
			medium = append(medium, c)
		default:
			weak = append(weak, c)
		}
	}

	out := make([]combo.Combo, 0, len(combos))
	for i := range max(len(strong), len(weak), len(medium)) {
		if i < len(strong) {
			out = append(out, strong[i])
		}
		if i < len(weak) {
			out = append(out, weak[i])
		}
		if i < len(medium) {
			out = append(out, medium[i])
		}
	}
	return out
}

// AvgStrength is the mean combo strength of a sequence
func AvgStrength(seq []combo.Combo) float64 {
	return probability.Mean(combo.Strengths(seq))
}
