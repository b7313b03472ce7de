package provider

import (
	"fmt"
	"slices"
	"time"

	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/combo"
)

// Game types understood by the providers
const (
	GameSam  = "sam"
	GameTLMN = "tlmn"
)

// MoveType is the kind of action a move performs
type MoveType string

const (
	PlayCards     MoveType = "play_cards"
	PassTurn      MoveType = "pass"
	DeclareBaoSam MoveType = "declare_bao_sam"
)

// Move is one action a player can take
type Move struct {
	Type      MoveType   `json:"type"`
	Cards     cards.Hand `json:"cards,omitempty"`
	ComboType string     `json:"combo_type,omitempty"`
	RankValue int        `json:"rank_value,omitempty"`
}

// Pass is the pass move
func Pass() Move {
	return Move{Type: PassTurn}
}

// Play builds a play move, filling in the combo shape when the cards form one
func Play(c cards.Hand) Move {
	m := Move{Type: PlayCards, Cards: c.Clone()}
	if shape, ok := combo.Classify(c); ok {
		m.ComboType = shape.Type.String()
		m.RankValue = int(shape.Rank)
	}
	return m
}

// Shape classifies the cards of the move. Passes and declarations have the
// Pass shape.
func (m Move) Shape() (combo.Combo, bool) {
	if m.Type != PlayCards {
		return combo.Combo{Type: combo.Pass}, true
	}
	return combo.Classify(m.Cards)
}

// Clone deep copies the move
func (m Move) Clone() Move {
	m.Cards = m.Cards.Clone()
	return m
}

func (m Move) String() string {
	if m.Type == PlayCards {
		return fmt.Sprintf("play %s", m.Cards)
	}
	return string(m.Type)
}

// GameRecord is the engine's snapshot of a turn
type GameRecord struct {
	GameID      string     `json:"game_id"`
	GameType    string     `json:"game_type"`
	RoundID     int        `json:"round_id"`
	TurnID      int        `json:"turn_id"`
	PlayerID    int        `json:"player_id"`
	Hand        cards.Hand `json:"hand"`
	LastMove    *Move      `json:"last_move,omitempty"`
	PlayersLeft []int      `json:"players_left,omitempty"`
	CardsLeft   []int      `json:"cards_left,omitempty"`
	PlayerCount int        `json:"player_count,omitempty"`
}

// Clone deep copies the record
func (r GameRecord) Clone() GameRecord {
	r.Hand = r.Hand.Clone()
	if r.LastMove != nil {
		lm := r.LastMove.Clone()
		r.LastMove = &lm
	}
	r.PlayersLeft = slices.Clone(r.PlayersLeft)
	r.CardsLeft = slices.Clone(r.CardsLeft)
	return r
}

// Players returns the table size, inferred from the remaining players when
// the engine did not send it.
func (r GameRecord) Players() int {
	if r.PlayerCount > 0 {
		return r.PlayerCount
	}
	if len(r.PlayersLeft) > 0 {
		return len(r.PlayersLeft)
	}
	return 4
}

// Leading reports whether the player opens a new trick
func (r GameRecord) Leading() bool {
	return r.LastMove == nil || r.LastMove.Type != PlayCards || len(r.LastMove.Cards) == 0
}

// IsSamOpening reports whether this is the first turn of a Sâm game, the
// only moment a Báo Sâm declaration is allowed.
func (r GameRecord) IsSamOpening() bool {
	return r.GameType == GameSam && r.RoundID == 0 && r.TurnID == 0 && r.LastMove == nil
}

// DeclarationRequest asks whether a hand should declare Báo Sâm
type DeclarationRequest struct {
	Hand        cards.Hand `json:"hand"`
	PlayerCount int        `json:"player_count"`
}

// Clone deep copies the request
func (r DeclarationRequest) Clone() DeclarationRequest {
	r.Hand = r.Hand.Clone()
	return r
}

// Summary is a short description used in logs
func (r DeclarationRequest) Summary() string {
	return fmt.Sprintf("declare hand=[%s] players=%d", r.Hand, r.PlayerCount)
}

// MoveRequest asks for one of the legal moves
type MoveRequest struct {
	Record     GameRecord `json:"game_record"`
	LegalMoves []Move     `json:"legal_moves"`
}

// Clone deep copies the request
func (r MoveRequest) Clone() MoveRequest {
	r.Record = r.Record.Clone()
	if r.LegalMoves != nil {
		moves := make([]Move, len(r.LegalMoves))
		for i, m := range r.LegalMoves {
			moves[i] = m.Clone()
		}
		r.LegalMoves = moves
	}
	return r
}

// Summary is a short description used in logs
func (r MoveRequest) Summary() string {
	return fmt.Sprintf("move game=%s turn=%d player=%d hand=%d legal=%d",
		r.Record.GameID, r.Record.TurnID, r.Record.PlayerID, len(r.Record.Hand), len(r.LegalMoves))
}

// Declaration is a provider's answer to a DeclarationRequest
type Declaration struct {
	ShouldDeclare bool          `json:"should_declare"`
	Probability   float64       `json:"probability"`
	Confidence    float64       `json:"confidence"`
	Threshold     float64       `json:"threshold,omitempty"`
	Reason        string        `json:"reason"`
	Sequence      []combo.Combo `json:"sequence,omitempty"`
}

// Fallback records a tier that could not answer
type Fallback struct {
	Tier     Tier      `json:"tier"`
	Provider string    `json:"provider"`
	Kind     ErrorKind `json:"kind"`
	Error    string    `json:"error"`
}

// Meta describes who answered and how
type Meta struct {
	ID        string        `json:"id"`
	Tier      Tier          `json:"tier"`
	Provider  string        `json:"provider"`
	Latency   time.Duration `json:"latency_ns"`
	Fallbacks []Fallback    `json:"fallbacks,omitempty"`
}

// DeclarationResult is a Declaration tagged with its provenance
type DeclarationResult struct {
	Declaration
	Meta
}

// MoveResult is a Move tagged with its provenance
type MoveResult struct {
	Move Move `json:"move"`
	Meta
}
