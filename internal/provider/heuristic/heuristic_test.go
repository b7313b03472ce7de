package heuristic

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/provider"
	"github.com/lox/sambridge/internal/sequence"
)

var quiet = log.New(io.Discard)

func hand(t *testing.T, s string) cards.Hand {
	t.Helper()
	h, err := cards.ParseHand(s)
	require.NoError(t, err)
	return h
}

func TestComboStrength(t *testing.T) {
	tests := []struct {
		name  string
		combo combo.Combo
		want  float64
	}{
		{"single three", combo.Combo{Type: combo.Single, Rank: cards.Three}, 0.1},
		{"pair of aces", combo.Combo{Type: combo.Pair, Rank: cards.Ace}, 0.3 + 11.0/12.0*0.3},
		{"triple kings", combo.Combo{Type: combo.Triple, Rank: cards.King}, 0.5 + 10.0/12.0*0.3 + 0.15},
		{"straight to ten", combo.Combo{Type: combo.Straight, Rank: cards.Ten}, 0.7 + 7.0/12.0*0.3},
		{"straight to jack", combo.Combo{Type: combo.Straight, Rank: cards.Jack}, 0.7 + 8.0/12.0*0.3 + 0.2},
		{"four twos", combo.Combo{Type: combo.FourKind, Rank: cards.Two}, 0.9 + 0.3 + 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComboStrength(tt.combo), 1e-9)
		})
	}
}

func TestAnalyzeAndDecide(t *testing.T) {
	assert.Equal(t, RiskHigh, Analyze(nil).Risk)

	t.Run("medium confidence", func(t *testing.T) {
		d := Decide(Analysis{AvgStrength: 0.72, StrongCombos: 1, HighRankCombos: 1, Risk: RiskMedium})
		assert.True(t, d.ShouldDeclare)
		assert.Equal(t, "medium_confidence_good_sequence", d.Reason)
		assert.InDelta(t, 0.77, d.Probability, 1e-9)
		assert.InDelta(t, 0.77, d.Confidence, 1e-9)
	})

	t.Run("weak combos veto", func(t *testing.T) {
		d := Decide(Analysis{AvgStrength: 0.9, StrongCombos: 2, HighRankCombos: 2, WeakCombos: 3, Risk: RiskLow})
		assert.False(t, d.ShouldDeclare)
		assert.Equal(t, "too_many_weak_combos", d.Reason)
		assert.Equal(t, 0.1, d.Confidence)
	})

	t.Run("risky", func(t *testing.T) {
		d := Decide(Analysis{AvgStrength: 0.2, Risk: RiskHigh})
		assert.False(t, d.ShouldDeclare)
		assert.Equal(t, "high_risk_low_win_probability", d.Reason)
		assert.Equal(t, 0.05, d.Probability)
	})
}

func TestDeclarer(t *testing.T) {
	ctx := context.Background()
	d := NewDeclarer(sequence.BaoSamOptimal, quiet)
	assert.Equal(t, DeclarerName, d.Name())

	t.Run("strong hand", func(t *testing.T) {
		decl, err := d.Declare(ctx, provider.DeclarationRequest{Hand: hand(t, "2s 2h 2d 2c 9s 10s Js Qs Ks As"), PlayerCount: 4})
		require.NoError(t, err)
		assert.True(t, decl.ShouldDeclare)
		assert.Equal(t, "high_confidence_winning_sequence", decl.Reason)
		assert.InDelta(t, 0.95, decl.Probability, 1e-9)
		assert.InDelta(t, 0.95, decl.Confidence, 1e-9)
		assert.Len(t, decl.Sequence, 2)
	})

	t.Run("weak hand", func(t *testing.T) {
		decl, err := d.Declare(ctx, provider.DeclarationRequest{Hand: hand(t, "3s 3h 5d 7c 9s Js 2h 2d 2c 2s"), PlayerCount: 4})
		require.NoError(t, err)
		assert.False(t, decl.ShouldDeclare)
		assert.Equal(t, "high_risk_low_win_probability", decl.Reason)
		assert.Empty(t, decl.Sequence)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := d.Declare(cctx, provider.DeclarationRequest{})
		assert.Equal(t, provider.InferenceFailure, provider.KindOf(err, ""))
	})
}

func TestMoveSelector(t *testing.T) {
	ctx := context.Background()
	s := NewMoveSelector(sequence.BaoSamOptimal, quiet)
	assert.Equal(t, SelectorName, s.Name())

	t.Run("plays first planned combo", func(t *testing.T) {
		h := hand(t, "3s 3h 7d 9c Kd")
		req := provider.MoveRequest{
			Record: provider.GameRecord{GameType: provider.GameSam, Hand: h},
			LegalMoves: []provider.Move{
				provider.Play(hand(t, "Kd")),
				provider.Play(hand(t, "3s 3h")),
				provider.Play(hand(t, "7d")),
			},
		}
		move, err := s.SelectMove(ctx, req)
		require.NoError(t, err)
		assert.True(t, move.Cards.SameCards(hand(t, "3s 3h")))
	})

	t.Run("follows with weakest matching shape", func(t *testing.T) {
		last := provider.Play(hand(t, "4c"))
		req := provider.MoveRequest{
			Record: provider.GameRecord{Hand: hand(t, "5s 6h 7d 9c 9d"), LastMove: &last},
			LegalMoves: []provider.Move{
				provider.Play(hand(t, "9c")),
				provider.Play(hand(t, "6h")),
				provider.Play(hand(t, "7d")),
				provider.Pass(),
			},
		}
		move, err := s.SelectMove(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, hand(t, "6h"), move.Cards)
	})

	t.Run("passes when nothing playable", func(t *testing.T) {
		req := provider.MoveRequest{
			Record:     provider.GameRecord{Hand: hand(t, "3s 4h")},
			LegalMoves: []provider.Move{provider.Pass()},
		}
		move, err := s.SelectMove(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, provider.Pass(), move)
	})
}

func TestMoveSelectorEndRules(t *testing.T) {
	ctx := context.Background()
	s := NewMoveSelector(sequence.Defensive, quiet)
	four := provider.Play(hand(t, "4s"))

	tests := []struct {
		name     string
		gameType string
		hand     string
		last     *provider.Move
		legal    []string
		want     provider.Move
	}{
		{
			name: "never leaves only twos", gameType: provider.GameTLMN,
			hand: "5s 2h", last: &four, legal: []string{"5s", "2h", "pass"},
			want: provider.Play(hand(t, "2h")),
		},
		{
			name: "never finishes on a two", gameType: provider.GameTLMN,
			hand: "2h", last: &four, legal: []string{"2h", "pass"},
			want: provider.Pass(),
		},
		{
			name: "never leaves exactly four of a kind", gameType: provider.GameTLMN,
			hand: "5s 9s 9h 9d 9c", legal: []string{"5s", "9s 9h 9d 9c"},
			want: provider.Play(hand(t, "9s 9h 9d 9c")),
		},
		{
			name: "finishes on four of a kind when nothing else is legal", gameType: provider.GameTLMN,
			hand: "9s 9h 9d 9c", legal: []string{"9s 9h 9d 9c"},
			want: provider.Play(hand(t, "9s 9h 9d 9c")),
		},
		{
			name: "sam is not bound by the end rules", gameType: provider.GameSam,
			hand: "5s 2h", last: &four, legal: []string{"5s", "2h", "pass"},
			want: provider.Play(hand(t, "5s")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var legal []provider.Move
			for _, l := range tt.legal {
				if l == "pass" {
					legal = append(legal, provider.Pass())
					continue
				}
				legal = append(legal, provider.Play(hand(t, l)))
			}
			req := provider.MoveRequest{
				Record:     provider.GameRecord{GameType: tt.gameType, TurnID: 2, Hand: hand(t, tt.hand), LastMove: tt.last},
				LegalMoves: legal,
			}
			move, err := s.SelectMove(ctx, req)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Type, move.Type)
			assert.True(t, move.Cards.SameCards(tt.want.Cards), "got %s, want %s", move, tt.want)
		})
	}
}

func TestEvaluate(t *testing.T) {
	rec := provider.GameRecord{GameType: provider.GameTLMN, Hand: hand(t, "3s 5h 7d 9c")}

	assert.InDelta(t, 0.4+0.25+0.06+0.09, Evaluate(provider.Play(hand(t, "3s")), rec), 1e-9)
	assert.InDelta(t, 0.4+0.125+0.06+0.09, Evaluate(provider.Play(hand(t, "9c")), rec), 1e-9)
	assert.Zero(t, Evaluate(provider.Pass(), rec))

	t.Run("sheds the two of spades before it is caught", func(t *testing.T) {
		sam := provider.GameRecord{GameType: provider.GameSam, Hand: hand(t, "3h 2s 7d")}
		ranked := Rank([]provider.Move{
			provider.Pass(),
			provider.Play(hand(t, "3h")),
			provider.Play(hand(t, "2s")),
		}, sam)
		require.Len(t, ranked, 3)
		assert.Equal(t, hand(t, "2s"), ranked[0].Move.Cards)
		assert.InDelta(t, 0.70, ranked[0].Score, 1e-9)
		assert.InDelta(t, 0.51, ranked[1].Score, 1e-9)
		assert.Equal(t, provider.PassTurn, ranked[2].Move.Type)
	})

	t.Run("urgency when an opponent is nearly out", func(t *testing.T) {
		calm := provider.GameRecord{GameType: provider.GameTLMN, PlayerID: 0, Hand: hand(t, "3s 5h 7d 9c 10c Jd Qh"), CardsLeft: []int{7, 9, 8}}
		urgent := calm
		urgent.CardsLeft = []int{7, 2, 8}
		m := provider.Play(hand(t, "3s"))
		assert.InDelta(t, 0.2*0.15, Evaluate(m, urgent)-Evaluate(m, calm), 1e-9)
	})
}
