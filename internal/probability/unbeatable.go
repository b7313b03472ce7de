// Package probability estimates how likely a combo sequence is to be played
// out unbeaten and summarises hand strength.
package probability

import (
	"slices"

	"github.com/lox/sambridge/internal/combo"
)

// UnbeatableFloor is the strength at which a combo is treated as unbeatable
const UnbeatableFloor = 0.8

// Unbeatable estimates the probability that the sequence cannot be beaten.
// It blends the mean and max strength with the share of unbeatable combos.
func Unbeatable(sequence []combo.Combo) float64 {
	if len(sequence) == 0 {
		return 0
	}
	strengths := combo.Strengths(sequence)
	strong := float64(Count(strengths, UnbeatableFloor)) / float64(len(strengths))
	p := Mean(strengths)*0.4 + slices.Max(strengths)*0.4 + strong*0.2
	return Clamp(p, 0, 1)
}

// ModelConfidence combines a validation confidence with a pattern score
func ModelConfidence(validation, pattern float64) float64 {
	return (validation + pattern) / 2
}

// SequenceStats summarises a planned sequence
type SequenceStats struct {
	TotalCards       int     `json:"total_cards"`
	AvgStrength      float64 `json:"avg_strength"`
	UnbeatableCombos int     `json:"unbeatable_combos"`
	Pattern          string  `json:"pattern_used"`
	MaxStrength      float64 `json:"max_strength"`
	MinStrength      float64 `json:"min_strength"`
	Variance         float64 `json:"strength_variance"`
}

// Stats computes sequence statistics; pattern names the plan that built it.
func Stats(sequence []combo.Combo, pattern string) SequenceStats {
	if pattern == "" {
		pattern = "unknown"
	}
	if len(sequence) == 0 {
		return SequenceStats{Pattern: pattern}
	}
	strengths := combo.Strengths(sequence)
	return SequenceStats{
		TotalCards:       combo.CardCount(sequence),
		AvgStrength:      Mean(strengths),
		UnbeatableCombos: Count(strengths, UnbeatableFloor),
		Pattern:          pattern,
		MaxStrength:      slices.Max(strengths),
		MinStrength:      slices.Min(strengths),
		Variance:         Variance(strengths),
	}
}

// Distribution buckets combo strengths
type Distribution struct {
	VeryWeak   int `json:"very_weak"`
	Weak       int `json:"weak"`
	Medium     int `json:"medium"`
	Strong     int `json:"strong"`
	Unbeatable int `json:"unbeatable"`
}

// Profile is the strength profile of an analysed hand
type Profile struct {
	TotalCombos      int          `json:"total_combos"`
	TotalCards       int          `json:"total_cards"`
	AvgStrength      float64      `json:"avg_strength"`
	StrongCombos     int          `json:"strong_combos"`
	UnbeatableCombos int          `json:"unbeatable_combos"`
	WeakCombos       int          `json:"weak_combos"`
	Distribution     Distribution `json:"strength_distribution"`
	Strengths        []float64    `json:"strengths,omitempty"`
}

// HandProfile buckets the strengths of a hand's combos
func HandProfile(combos []combo.Combo) Profile {
	if len(combos) == 0 {
		return Profile{}
	}
	strengths := combo.Strengths(combos)
	p := Profile{
		TotalCombos: len(combos),
		TotalCards:  combo.CardCount(combos),
		AvgStrength: Mean(strengths),
		Strengths:   strengths,
	}
	for _, s := range strengths {
		switch {
		case s < 0.3:
			p.Distribution.VeryWeak++
		case s < 0.5:
			p.Distribution.Weak++
		case s < 0.7:
			p.Distribution.Medium++
		case s < UnbeatableFloor:
			p.Distribution.Strong++
		default:
			p.Distribution.Unbeatable++
		}
		if s >= 0.7 {
			p.StrongCombos++
		}
		if s < 0.5 {
			p.WeakCombos++
		}
	}
	p.UnbeatableCombos = p.Distribution.Unbeatable
	return p
}
