// Package features turns hands, combos and candidate moves into the fixed
// width vectors consumed by the decision networks.
package features

import (
	"slices"

	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/probability"
)

// Vector widths
const (
	ComboWidth       = 8
	SequenceWidth    = 10
	PatternWidth     = 15
	DeclarationWidth = SequenceWidth + 3*ComboWidth + 1
	CandidateWidth   = 15
)

// DefaultPlayers is assumed when a request does not carry a player count
const DefaultPlayers = 4

// profileTypes are the combo types encoded one-hot in combo and sequence
// vectors. Double sequences never come out of hand analysis.
var profileTypes = []combo.Type{combo.Single, combo.Pair, combo.Triple, combo.Straight, combo.FourKind}

// Combo encodes a single combo: type one-hot, rank, strength and size.
func Combo(c combo.Combo) []float64 {
	out := make([]float64, 0, ComboWidth)
	for _, t := range profileTypes {
		out = append(out, indicator(c.Type == t))
	}
	return append(out,
		float64(c.Rank)/12.0,
		combo.Strength(c),
		float64(c.Len())/10.0,
	)
}

// Sequence encodes a whole decomposition: strength moments, type mix, share
// of unbeatable combos and card coverage.
func Sequence(combos []combo.Combo) []float64 {
	out := make([]float64, SequenceWidth)
	if len(combos) == 0 {
		return out
	}
	strengths := combo.Strengths(combos)
	out[0] = probability.Mean(strengths)
	out[1] = probability.Variance(strengths)
	out[2] = slices.Max(strengths) - slices.Min(strengths)
	copy(out[3:8], typeRatios(combos))
	out[8] = float64(probability.Count(strengths, probability.UnbeatableFloor)) / float64(len(strengths))
	out[9] = float64(combo.CardCount(combos)) / 10.0
	return out
}

// Declaration builds the declaration network input: sequence features, the
// first three combos (zero padded) and the player count.
func Declaration(combos []combo.Combo, players int) []float64 {
	out := make([]float64, 0, DeclarationWidth)
	out = append(out, Sequence(combos)...)
	for i := range 3 {
		if i < len(combos) {
			out = append(out, Combo(combos[i])...)
		} else {
			out = append(out, make([]float64, ComboWidth)...)
		}
	}
	return append(out, playersFeature(players))
}

// Pattern describes how a hand is shaped, used to pick a play order.
func Pattern(combos []combo.Combo, players int) []float64 {
	out := make([]float64, PatternWidth)
	if len(combos) == 0 {
		return out
	}
	strengths := combo.Strengths(combos)

	kinds := map[combo.Type]bool{}
	for _, c := range combos {
		kinds[c.Type] = true
	}
	ratios := typeRatios(combos)

	out[0] = float64(len(kinds)) / 5.0
	out[1] = PowerConcentration(combos)
	out[2] = probability.Variance(strengths)
	copy(out[3:8], ratios)
	out[8] = probability.Mean(strengths)
	out[9] = slices.Max(strengths)
	out[10] = slices.Min(strengths)
	out[11] = probability.Median(strengths)
	out[12] = ratios[0]
	out[13] = ratios[1]
	out[14] = playersFeature(players)
	return out
}

// PowerConcentration is the share of combos strong enough to be unbeatable
func PowerConcentration(combos []combo.Combo) float64 {
	if len(combos) == 0 {
		return 0
	}
	strengths := combo.Strengths(combos)
	return float64(probability.Count(strengths, probability.UnbeatableFloor)) / float64(len(combos))
}

func typeRatios(combos []combo.Combo) []float64 {
	out := make([]float64, len(profileTypes))
	for _, c := range combos {
		if i := slices.Index(profileTypes, c.Type); i >= 0 {
			out[i]++
		}
	}
	for i := range out {
		out[i] /= float64(len(combos))
	}
	return out
}

func playersFeature(players int) float64 {
	if players <= 0 {
		players = DefaultPlayers
	}
	return float64(players) / 4.0
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
