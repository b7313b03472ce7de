// Package heuristic is the secondary decision tier: rule-based providers that
// need no model artifact.
package heuristic

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/probability"
	"github.com/lox/sambridge/internal/provider"
	"github.com/lox/sambridge/internal/sequence"
)

// DeclarerName identifies the rule-based declarer
const DeclarerName = "production_bao_sam"

// Risk grades how exposed a sequence is to being beaten
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Analysis summarises a planned sequence for the declaration rules
type Analysis struct {
	TotalStrength  float64 `json:"total_strength"`
	AvgStrength    float64 `json:"average_strength"`
	StrongCombos   int     `json:"strong_combos"`
	HighRankCombos int     `json:"high_rank_combos"`
	WeakCombos     int     `json:"weak_combos"`
	WinningPattern bool    `json:"winning_pattern"`
	Risk           Risk    `json:"risk_level"`
}

// ComboStrength is the production scoring of a combo: a base per type, a rank
// bonus and extra credit for high straights, quads and high triples.
func ComboStrength(c combo.Combo) float64 {
	var base float64
	switch c.Type {
	case combo.Pair:
		base = 0.3
	case combo.Triple:
		base = 0.5
	case combo.Straight:
		base = 0.7
	case combo.FourKind:
		base = 0.9
	default:
		base = 0.1
	}

	rank := float64(c.Rank) / 12.0 * 0.3

	var special float64
	switch {
	case c.Type == combo.Straight && c.Rank >= 8:
		special = 0.2
	case c.Type == combo.FourKind:
		special = 0.3
	case c.Type == combo.Triple && c.Rank >= 10:
		special = 0.15
	}
	return base + rank + special
}

func isPower(c combo.Combo) bool {
	return c.Type == combo.Straight || c.Type == combo.FourKind
}

// Analyze grades a sequence in play order
func Analyze(seq []combo.Combo) Analysis {
	if len(seq) == 0 {
		return Analysis{Risk: RiskHigh}
	}

	var a Analysis
	for _, c := range seq {
		a.TotalStrength += ComboStrength(c)
		if isPower(c) {
			a.StrongCombos++
		}
		if c.Rank >= 8 {
			a.HighRankCombos++
		}
		if c.Type == combo.Single || c.Type == combo.Pair {
			a.WeakCombos++
		}
	}
	a.AvgStrength = a.TotalStrength / float64(len(seq))

	if len(seq) >= 2 {
		first, last := seq[0], seq[len(seq)-1]
		a.WinningPattern = isPower(first) && (isPower(last) || first.Rank >= 9)
	}

	switch {
	case a.AvgStrength >= 0.8 && a.StrongCombos >= 2:
		a.Risk = RiskLow
	case a.AvgStrength >= 0.6 && a.StrongCombos >= 1:
		a.Risk = RiskMedium
	default:
		a.Risk = RiskHigh
	}
	return a
}

// WinProbability turns an analysis into a probability in [0.05, 0.95]
func WinProbability(a Analysis) float64 {
	p := a.AvgStrength

	switch {
	case a.StrongCombos >= 2:
		p += 0.2
	case a.StrongCombos >= 1:
		p += 0.1
	}
	switch {
	case a.HighRankCombos >= 2:
		p += 0.15
	case a.HighRankCombos >= 1:
		p += 0.05
	}
	if a.WinningPattern {
		p += 0.25
	}

	switch {
	case a.WeakCombos >= 3:
		p -= 0.3
	case a.WeakCombos >= 2:
		p -= 0.15
	}
	switch a.Risk {
	case RiskHigh:
		p -= 0.2
	case RiskMedium:
		p -= 0.1
	}
	return probability.Clamp(p, 0.05, 0.95)
}

// Decide applies the declaration rules to an analysed sequence
func Decide(a Analysis) provider.Declaration {
	p := WinProbability(a)
	d := provider.Declaration{Probability: p}

	switch {
	case p >= 0.85 || (a.AvgStrength >= 0.8 && a.StrongCombos >= 2) || (a.WinningPattern && p >= 0.75):
		d.ShouldDeclare = true
		d.Confidence = min(0.95, p+0.1)
		d.Reason = "high_confidence_winning_sequence"
	case p >= 0.75 && a.Risk != RiskHigh && a.StrongCombos >= 1:
		d.ShouldDeclare = true
		d.Confidence = p
		d.Reason = "medium_confidence_good_sequence"
	default:
		d.Confidence = 1 - p
		d.Reason = "insufficient_confidence_risky_sequence"
	}

	if a.WeakCombos >= 3 {
		d.ShouldDeclare = false
		d.Confidence = 0.1
		d.Reason = "too_many_weak_combos"
	}
	if a.Risk == RiskHigh && p < 0.8 {
		d.ShouldDeclare = false
		d.Confidence = 0.2
		d.Reason = "high_risk_low_win_probability"
	}
	return d
}

// Declarer is the rule-based Báo Sâm declarer
type Declarer struct {
	strategy sequence.Strategy
	logger   *log.Logger
}

// NewDeclarer creates a declarer that plans hands with strategy
func NewDeclarer(strategy sequence.Strategy, logger *log.Logger) *Declarer {
	if logger == nil {
		logger = log.Default()
	}
	return &Declarer{
		strategy: sequence.ParseStrategy(string(strategy)),
		logger:   logger.WithPrefix("heuristic"),
	}
}

func (d *Declarer) Name() string {
	return DeclarerName
}

// Declare implements provider.Declarer
func (d *Declarer) Declare(ctx context.Context, req provider.DeclarationRequest) (provider.Declaration, error) {
	if err := ctx.Err(); err != nil {
		return provider.Declaration{}, provider.NewError(provider.InferenceFailure, DeclarerName, err)
	}

	plan := sequence.NewPlan(req.Hand, req.PlayerCount, d.strategy)
	analysis := Analyze(plan.Sequence)
	decl := Decide(analysis)
	if decl.ShouldDeclare {
		decl.Sequence = plan.Sequence
	}

	d.logger.Debug("Sequence analysed",
		"avg", analysis.AvgStrength,
		"strong", analysis.StrongCombos,
		"weak", analysis.WeakCombos,
		"risk", analysis.Risk,
		"probability", decl.Probability,
		"reason", decl.Reason)
	return decl, nil
}
