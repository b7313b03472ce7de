// Package rules gates hands that are too weak to be worth a Báo Sâm
// declaration before any model is consulted.
package rules

import (
	"fmt"

	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/probability"
)

// Strength bands used across the rule checks
const (
	WeakBelow       = 0.5
	StrongAtLeast   = 0.7
	UnbeatableFloor = 0.8
)

// Config holds the rule thresholds
type Config struct {
	MinTotalCards       int     `json:"min_total_cards"`
	MaxWeakCombos       int     `json:"max_weak_combos"`
	MinStrongCombos     int     `json:"min_strong_combos"`
	MinAvgStrength      float64 `json:"min_avg_strength"`
	MinUnbeatableCombos int     `json:"min_unbeatable_combos"`
}

// DefaultConfig returns the production thresholds
func DefaultConfig() Config {
	return Config{
		MinTotalCards:       10,
		MaxWeakCombos:       1,
		MinStrongCombos:     1,
		MinAvgStrength:      0.55,
		MinUnbeatableCombos: 1,
	}
}

// Profile summarises a hand that passed validation
type Profile struct {
	TotalCards       int       `json:"total_cards"`
	AvgStrength      float64   `json:"avg_strength"`
	StrongCombos     int       `json:"strong_combos"`
	UnbeatableCombos int       `json:"unbeatable_combos"`
	Strengths        []float64 `json:"strengths"`
}

// Verdict is the outcome of validating a hand
type Verdict struct {
	Valid   bool     `json:"valid"`
	Reason  string   `json:"reason"`
	Profile *Profile `json:"profile,omitempty"`
}

// Engine applies the rule set to analysed hands
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given thresholds
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the thresholds in use
func (e *Engine) Config() Config {
	return e.cfg
}

// Validate checks the combos of a hand in order: card count, weak combos,
// strong combos, average strength and unbeatable combos. The first failing
// rule names the reason.
func (e *Engine) Validate(combos []combo.Combo) Verdict {
	if len(combos) == 0 {
		return Verdict{Reason: "no_combos_found"}
	}

	total := combo.CardCount(combos)
	strengths := combo.Strengths(combos)

	if total < e.cfg.MinTotalCards {
		return Verdict{Reason: fmt.Sprintf("insufficient_cards_%d", total)}
	}

	weak := countIf(strengths, func(s float64) bool { return s < WeakBelow })
	if weak > e.cfg.MaxWeakCombos {
		return Verdict{Reason: fmt.Sprintf("too_many_weak_combos_%d", weak)}
	}

	strong := countIf(strengths, func(s float64) bool { return s >= StrongAtLeast })
	if strong < e.cfg.MinStrongCombos {
		return Verdict{Reason: fmt.Sprintf("insufficient_strong_combos_%d", strong)}
	}

	avg := probability.Mean(strengths)
	if avg < e.cfg.MinAvgStrength {
		return Verdict{Reason: fmt.Sprintf("low_avg_strength_%.2f", avg)}
	}

	unbeatable := countIf(strengths, func(s float64) bool { return s >= UnbeatableFloor })
	if unbeatable < e.cfg.MinUnbeatableCombos {
		return Verdict{Reason: fmt.Sprintf("no_unbeatable_combos_%d", unbeatable)}
	}

	return Verdict{
		Valid:  true,
		Reason: "validation_passed",
		Profile: &Profile{
			TotalCards:       total,
			AvgStrength:      avg,
			StrongCombos:     strong,
			UnbeatableCombos: unbeatable,
			Strengths:        strengths,
		},
	}
}

func countIf(values []float64, pred func(float64) bool) int {
	n := 0
	for _, v := range values {
		if pred(v) {
			n++
		}
	}
	return n
}
