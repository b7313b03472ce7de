package neural

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/features"
	"github.com/lox/sambridge/internal/model"
	"github.com/lox/sambridge/internal/provider"
)

// SelectorName identifies the primary move selector
const SelectorName = "candidate_move_model"

// MoveSelector scores every legal move with the candidate network and plays
// the best one.
type MoveSelector struct {
	path   string
	net    *model.Network
	logger *log.Logger
}

// NewMoveSelector loads the artifact at path and builds the candidate network
func NewMoveSelector(path string, logger *log.Logger) (*MoveSelector, error) {
	if logger == nil {
		logger = log.Default()
	}
	a, err := loadTrained(SelectorName, path)
	if err != nil {
		return nil, err
	}
	net, err := a.CandidateNetwork()
	if err != nil {
		return nil, provider.NewError(provider.ProviderUninitialized, SelectorName, err)
	}
	return &MoveSelector{path: path, net: net, logger: logger.WithPrefix("neural")}, nil
}

func (s *MoveSelector) Name() string {
	return SelectorName
}

// SelectMove implements provider.MoveSelector. With no legal moves it passes.
func (s *MoveSelector) SelectMove(ctx context.Context, req provider.MoveRequest) (provider.Move, error) {
	if len(req.LegalMoves) == 0 {
		return provider.Pass(), nil
	}

	rec := req.Record
	best, bestScore := -1, 0.0
	for i, m := range req.LegalMoves {
		if err := ctx.Err(); err != nil {
			return provider.Move{}, provider.NewError(provider.InferenceFailure, SelectorName, err)
		}
		if m.Type == provider.DeclareBaoSam {
			continue
		}
		score, err := s.net.Predict(features.Move(candidate(rec, m)))
		if err != nil {
			return provider.Move{}, provider.NewError(provider.InferenceFailure, SelectorName, err)
		}
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return provider.Pass(), nil
	}

	s.logger.Debug("Move scored", "move", req.LegalMoves[best], "score", bestScore, "candidates", len(req.LegalMoves))
	return req.LegalMoves[best], nil
}

// Status implements provider.StatusReporter
func (s *MoveSelector) Status() model.Status {
	return model.StatusOf(s.path)
}

func candidate(rec provider.GameRecord, m provider.Move) features.Candidate {
	shape, ok := m.Shape()
	if !ok {
		shape = combo.Combo{Type: combo.Pass, Cards: m.Cards}
	}
	return features.Candidate{
		HandSize:         len(rec.Hand),
		MinOpponentCards: minOpponentCards(rec),
		PlayersLeft:      rec.Players(),
		Leading:          rec.Leading(),
		Combo:            shape,
		BreaksGroup:      m.Type == provider.PlayCards && features.BreaksGroup(rec.Hand, m.Cards),
	}
}

// minOpponentCards reads CardsLeft as per-seat counts and ignores the
// player's own seat.
func minOpponentCards(rec provider.GameRecord) int {
	least := features.MaxHand
	for seat, n := range rec.CardsLeft {
		if seat == rec.PlayerID {
			continue
		}
		least = min(least, n)
	}
	return least
}
