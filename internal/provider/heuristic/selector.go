package heuristic

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/penalty"
	"github.com/lox/sambridge/internal/provider"
	"github.com/lox/sambridge/internal/sequence"
)

// SelectorName identifies the rule-based move selector
const SelectorName = "sequence_order"

// MoveSelector plays the hand in the order of its sequence plan, so moves
// follow the same order a declaration was judged on.
type MoveSelector struct {
	strategy sequence.Strategy
	logger   *log.Logger
}

// NewMoveSelector creates a selector that plans hands with strategy
func NewMoveSelector(strategy sequence.Strategy, logger *log.Logger) *MoveSelector {
	if logger == nil {
		logger = log.Default()
	}
	return &MoveSelector{
		strategy: sequence.ParseStrategy(string(strategy)),
		logger:   logger.WithPrefix("heuristic"),
	}
}

func (s *MoveSelector) Name() string {
	return SelectorName
}

// SelectMove picks, in order of preference: the first planned combo that is
// a legal play, the weakest legal play matching the shape being followed,
// the best evaluated legal play, then pass. Tiến Lên plays that break an end
// rule are skipped first.
func (s *MoveSelector) SelectMove(ctx context.Context, req provider.MoveRequest) (provider.Move, error) {
	if err := ctx.Err(); err != nil {
		return provider.Move{}, provider.NewError(provider.InferenceFailure, SelectorName, err)
	}

	rec := req.Record
	moves := s.allowed(rec, req.LegalMoves)

	plan := sequence.NewPlan(rec.Hand, rec.Players(), s.strategy)
	for _, c := range plan.Sequence {
		for _, m := range moves {
			if m.Type == provider.PlayCards && m.Cards.SameCards(c.Cards) {
				s.logger.Debug("Playing planned combo", "combo", c, "strategy", plan.Strategy)
				return m, nil
			}
		}
	}

	if !rec.Leading() {
		if last, ok := rec.LastMove.Shape(); ok {
			if m, ok := weakest(moves, func(c combo.Combo) bool { return c.Type == last.Type }); ok {
				return m, nil
			}
		}
	}
	if ranked := Rank(moves, rec); len(ranked) > 0 && ranked[0].Score > 0 {
		s.logger.Debug("Playing best evaluated move", "move", ranked[0].Move, "score", ranked[0].Score)
		return ranked[0].Move, nil
	}
	return provider.Pass(), nil
}

// allowed drops Tiến Lên plays that break an end rule. The legal moves are
// kept unchanged when that would leave nothing to choose from.
func (s *MoveSelector) allowed(rec provider.GameRecord, legal []provider.Move) []provider.Move {
	if rec.GameType != provider.GameTLMN {
		return legal
	}
	out := make([]provider.Move, 0, len(legal))
	for _, m := range legal {
		if m.Type == provider.PlayCards {
			if rule := penalty.EndRule(rec.Hand, m.Cards); rule != "" {
				s.logger.Debug("Skipping play that breaks an end rule", "move", m, "rule", rule)
				continue
			}
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return legal
	}
	return out
}

func weakest(moves []provider.Move, match func(combo.Combo) bool) (provider.Move, bool) {
	var (
		best     provider.Move
		bestSeen bool
		bestStr  float64
	)
	for _, m := range moves {
		if m.Type != provider.PlayCards || len(m.Cards) == 0 {
			continue
		}
		shape, ok := m.Shape()
		if !ok || !match(shape) {
			continue
		}
		if str := combo.Strength(shape); !bestSeen || str < bestStr {
			best, bestStr, bestSeen = m, str, true
		}
	}
	return best, bestSeen
}
