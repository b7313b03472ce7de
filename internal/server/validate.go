package server

import (
	"fmt"

	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/provider"
)

const (
	minPlayers = 2
	maxPlayers = 5
	// Cards dealt per player. Báo Sâm is only declared on a Sâm hand.
	samHand  = 10
	tlmnHand = 13
)

// ValidateDeclaration checks a declaration request and fills in the default
// player count. The bridge trusts whatever passes here.
func ValidateDeclaration(req *provider.DeclarationRequest) error {
	if err := validateHand(req.Hand, samHand); err != nil {
		return err
	}
	if req.PlayerCount == 0 {
		req.PlayerCount = 4
	}
	return validatePlayers(req.PlayerCount)
}

// ValidateMove checks a move request. Legal plays must use cards from the
// hand and form a legal shape; their combo fields are derived when missing.
func ValidateMove(req *provider.MoveRequest) error {
	rec := &req.Record
	switch rec.GameType {
	case "":
		rec.GameType = provider.GameSam
	case provider.GameSam, provider.GameTLMN:
	default:
		return fmt.Errorf("unknown game_type %q", rec.GameType)
	}
	dealt := samHand
	if rec.GameType == provider.GameTLMN {
		dealt = tlmnHand
	}
	if err := validateHand(rec.Hand, dealt); err != nil {
		return err
	}
	if rec.PlayerCount != 0 {
		if err := validatePlayers(rec.PlayerCount); err != nil {
			return err
		}
	}
	if rec.RoundID < 0 || rec.TurnID < 0 || rec.PlayerID < 0 {
		return fmt.Errorf("round_id, turn_id and player_id must not be negative")
	}
	for i, n := range rec.CardsLeft {
		if n < 0 || n > dealt {
			return fmt.Errorf("cards_left[%d]: %d out of range", i, n)
		}
	}
	if rec.LastMove != nil {
		if err := validateMoveShape(rec.LastMove); err != nil {
			return fmt.Errorf("last_move: %w", err)
		}
	}

	for i := range req.LegalMoves {
		m := &req.LegalMoves[i]
		if err := validateMoveShape(m); err != nil {
			return fmt.Errorf("legal_moves[%d]: %w", i, err)
		}
		for _, c := range m.Cards {
			if !rec.Hand.Contains(c) {
				return fmt.Errorf("legal_moves[%d]: card %s is not in hand", i, c)
			}
		}
	}
	return nil
}

func validateMoveShape(m *provider.Move) error {
	switch m.Type {
	case provider.PassTurn, provider.DeclareBaoSam:
		if len(m.Cards) > 0 {
			return fmt.Errorf("%s carries cards", m.Type)
		}
		return nil
	case provider.PlayCards:
	default:
		return fmt.Errorf("unknown move type %q", m.Type)
	}

	if len(m.Cards) == 0 {
		return fmt.Errorf("play_cards without cards")
	}
	if err := m.Cards.Validate(); err != nil {
		return err
	}
	shape, ok := combo.Classify(m.Cards)
	if !ok {
		return fmt.Errorf("cards %s do not form a combo", m.Cards)
	}
	if m.ComboType == "" {
		m.ComboType = shape.Type.String()
		m.RankValue = int(shape.Rank)
	}
	return nil
}

func validateHand(h cards.Hand, limit int) error {
	if len(h) == 0 {
		return fmt.Errorf("hand is empty")
	}
	if len(h) > limit {
		return fmt.Errorf("hand has %d cards, at most %d allowed", len(h), limit)
	}
	return h.Validate()
}

func validatePlayers(n int) error {
	if n < minPlayers || n > maxPlayers {
		return fmt.Errorf("player_count must be between %d and %d, got %d", minPlayers, maxPlayers, n)
	}
	return nil
}
