package sequence

import (
	"slices"

	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/combo"
)

// Strategy names a play plan for a phase of the game
type Strategy string

const (
	BaoSamOptimal Strategy = "bao_sam_optimal"
	Defensive     Strategy = "defensive"
	Aggressive    Strategy = "aggressive"
	BalancedPlan  Strategy = "balanced"
)

var strategies = map[Strategy]struct {
	order  Order
	reason string
}{
	BaoSamOptimal: {PatternBased, "pattern_based_optimal_for_bao_sam"},
	Defensive:     {StrengthAsc, "weak_first_conserve_strength"},
	Aggressive:    {StrengthDesc, "strong_first_immediate_pressure"},
	BalancedPlan:  {Balanced, "balanced_distribution"},
}

// Valid reports whether s names a known strategy
func (s Strategy) Valid() bool {
	_, ok := strategies[s]
	return ok
}

// ParseStrategy resolves a strategy name, falling back to BaoSamOptimal
func ParseStrategy(name string) Strategy {
	s := Strategy(name)
	if _, ok := strategies[s]; ok {
		return s
	}
	return BaoSamOptimal
}

// Plan is an ordered sequence with its provenance
type Plan struct {
	Sequence    []combo.Combo `json:"sequence"`
	Strategy    Strategy      `json:"strategy"`
	Reason      string        `json:"order_reason"`
	TotalCombos int           `json:"total_combos"`
	AvgStrength float64       `json:"avg_strength"`
}

// NewPlan builds the plan for a hand. Unknown strategies use BaoSamOptimal.
func NewPlan(hand cards.Hand, players int, strategy Strategy) Plan {
	return PlanCombos(combo.AnalyzeHand(hand), players, strategy)
}

// PlanCombos builds a plan from already analysed combos
func PlanCombos(combos []combo.Combo, players int, strategy Strategy) Plan {
	strategy = ParseStrategy(string(strategy))
	def := strategies[strategy]
	var seq []combo.Combo
	if len(combos) > 0 {
		seq = Arrange(combos, players, def.order)
	}
	return Plan{
		Sequence:    seq,
		Strategy:    strategy,
		Reason:      def.reason,
		TotalCombos: len(seq),
		AvgStrength: AvgStrength(seq),
	}
}

// Consistency compares the pattern based order with the strongest first order
type Consistency struct {
	Consistent           bool          `json:"consistent"`
	PatternSequence      []combo.Combo `json:"provider_sequence"`
	StrongestFirst       []combo.Combo `json:"unbeatable_sequence"`
	PatternAvgStrength   float64       `json:"provider_avg_strength"`
	StrongestAvgStrength float64       `json:"unbeatable_avg_strength"`
}

// CheckConsistency reports whether the declaration plan plays combos in the
// same strength order as a strongest first plan.
func CheckConsistency(hand cards.Hand, players int) Consistency {
	pattern := Ordered(hand, players, PatternBased)
	strongest := Ordered(hand, players, StrengthDesc)
	return Consistency{
		Consistent:           slices.Equal(combo.Strengths(pattern), combo.Strengths(strongest)),
		PatternSequence:      pattern,
		StrongestFirst:       strongest,
		PatternAvgStrength:   AvgStrength(pattern),
		StrongestAvgStrength: AvgStrength(strongest),
	}
}
