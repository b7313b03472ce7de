package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/combo"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"typed", NewError(ProviderUninitialized, "neural", errors.New("untrained")), ProviderUninitialized},
		{"wrapped typed", fmt.Errorf("init: %w", NewError(ArtifactMissing, "neural", fs.ErrNotExist)), ArtifactMissing},
		{"missing file", fmt.Errorf("open: %w", fs.ErrNotExist), ArtifactMissing},
		{"deadline", context.DeadlineExceeded, InferenceFailure},
		{"cancelled", context.Canceled, InferenceFailure},
		{"other", errors.New("boom"), ProviderUninitialized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err, ProviderUninitialized))
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	inner := errors.New("bad output")
	err := NewError(InferenceFailure, "neural", inner)
	assert.Equal(t, "neural: inference_failure: bad output", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "inference_failure: bad output", (&Error{Kind: InferenceFailure, Err: inner}).Error())
}

func TestMoveRequestClone(t *testing.T) {
	last := Play(cards.Hand{0})
	req := MoveRequest{
		Record: GameRecord{
			Hand:        cards.Hand{1, 2, 3},
			LastMove:    &last,
			PlayersLeft: []int{0, 1},
			CardsLeft:   []int{10, 9},
		},
		LegalMoves: []Move{Play(cards.Hand{1}), Pass()},
	}

	clone := req.Clone()
	clone.Record.Hand[0] = 40
	clone.Record.LastMove.Cards[0] = 41
	clone.Record.CardsLeft[0] = 1
	clone.LegalMoves[0].Cards[0] = 42

	assert.Equal(t, cards.Card(1), req.Record.Hand[0])
	assert.Equal(t, cards.Card(0), req.Record.LastMove.Cards[0])
	assert.Equal(t, 10, req.Record.CardsLeft[0])
	assert.Equal(t, cards.Card(1), req.LegalMoves[0].Cards[0])
}

func TestMoves(t *testing.T) {
	pair := Play(cards.Hand{cards.New(cards.King, cards.Spades), cards.New(cards.King, cards.Hearts)})
	assert.Equal(t, "pair", pair.ComboType)
	assert.Equal(t, int(cards.King), pair.RankValue)

	shape, ok := pair.Shape()
	require.True(t, ok)
	assert.Equal(t, combo.Pair, shape.Type)

	shape, ok = Pass().Shape()
	require.True(t, ok)
	assert.Equal(t, combo.Pass, shape.Type)

	assert.Equal(t, "pass", Pass().String())
}

func TestGameRecord(t *testing.T) {
	r := GameRecord{GameType: GameSam}
	assert.True(t, r.IsSamOpening())
	assert.True(t, r.Leading())
	assert.Equal(t, 4, r.Players())

	r.PlayersLeft = []int{0, 1, 2}
	assert.Equal(t, 3, r.Players())
	r.PlayerCount = 5
	assert.Equal(t, 5, r.Players())

	r.TurnID = 1
	assert.False(t, r.IsSamOpening())

	last := Play(cards.Hand{5})
	r.LastMove = &last
	assert.False(t, r.Leading())

	assert.False(t, GameRecord{GameType: GameTLMN}.IsSamOpening())
}

func TestResultJSON(t *testing.T) {
	res := DeclarationResult{
		Declaration: Declaration{ShouldDeclare: true, Probability: 0.9, Confidence: 0.9, Reason: "ok"},
		Meta:        Meta{ID: "abc", Tier: Primary, Provider: "neural"},
	}
	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["should_declare"])
	assert.Equal(t, "primary", decoded["tier"])
	assert.Equal(t, "abc", decoded["id"])
}
