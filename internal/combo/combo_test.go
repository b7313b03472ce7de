package combo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/sambridge/internal/cards"
)

func mustHand(t *testing.T, s string) cards.Hand {
	t.Helper()
	h, err := cards.ParseHand(s)
	require.NoError(t, err)
	return h
}

func TestAnalyzeHand(t *testing.T) {
	t.Run("four of a kind before straight", func(t *testing.T) {
		hand := mustHand(t, "2s 2h 2d 2c 8s 9s 10s Js Qs Ks")
		combos := AnalyzeHand(hand)
		require.Len(t, combos, 2)

		assert.Equal(t, FourKind, combos[0].Type)
		assert.Equal(t, cards.Two, combos[0].Rank)
		assert.Equal(t, Straight, combos[1].Type)
		assert.Equal(t, cards.King, combos[1].Rank)
		assert.Len(t, combos[1].Cards, 6)
	})

	t.Run("longest straight first then leftovers", func(t *testing.T) {
		hand := mustHand(t, "3s 4s 5s 6s 7s 3h 4h 9d 9c Ks")
		combos := AnalyzeHand(hand)
		require.Len(t, combos, 5)

		assert.Equal(t, Straight, combos[0].Type)
		assert.Equal(t, 5, combos[0].Len())
		assert.Equal(t, cards.Seven, combos[0].Rank)
		assert.Equal(t, Pair, combos[1].Type)
		assert.Equal(t, cards.Nine, combos[1].Rank)
		for _, c := range combos[2:] {
			assert.Equal(t, Single, c.Type)
		}
	})

	t.Run("two never joins a straight", func(t *testing.T) {
		hand := mustHand(t, "Qs Kh As 2d")
		combos := AnalyzeHand(hand)
		require.Len(t, combos, 2)
		assert.Equal(t, Straight, combos[0].Type)
		assert.Equal(t, cards.Ace, combos[0].Rank)
		assert.Equal(t, Single, combos[1].Type)
		assert.Equal(t, cards.Two, combos[1].Rank)
	})

	t.Run("straight capped at ten cards", func(t *testing.T) {
		hand := mustHand(t, "3s 4s 5s 6s 7s 8s 9s 10s Js Qs Ks As")
		combos := AnalyzeHand(hand)
		require.Len(t, combos, 3)
		assert.Equal(t, 10, combos[0].Len())
		assert.Equal(t, cards.Queen, combos[0].Rank)
		assert.Equal(t, Single, combos[1].Type)
		assert.Equal(t, Single, combos[2].Type)
	})

	t.Run("every card used once", func(t *testing.T) {
		hand := mustHand(t, "3s 3h 3d 4s 5s 5h 5d 5c 9h Ah")
		combos := AnalyzeHand(hand)
		var all cards.Hand
		for _, c := range combos {
			all = append(all, c.Cards...)
		}
		assert.True(t, hand.SameCards(all))
		assert.Equal(t, len(hand), CardCount(combos))
	})

	t.Run("empty hand", func(t *testing.T) {
		assert.Empty(t, AnalyzeHand(nil))
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		hand  string
		want  Type
		rank  cards.Rank
		legal bool
	}{
		{"single", "7h", Single, cards.Seven, true},
		{"pair", "Kh Kd", Pair, cards.King, true},
		{"triple", "5s 5h 5d", Triple, cards.Five, true},
		{"four", "9s 9h 9d 9c", FourKind, cards.Nine, true},
		{"straight", "3s 4h 5d", Straight, cards.Five, true},
		{"double sequence", "3s 3h 4s 4h 5d 5c", DoubleSeq, cards.Five, true},
		{"straight with two", "Ks As 2s", 0, 0, false},
		{"gap", "3s 5h 6d", 0, 0, false},
		{"mixed counts", "3s 3h 4s 5d", 0, 0, false},
		{"two cards different", "3s 4s", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Classify(mustHand(t, tt.hand))
			require.Equal(t, tt.legal, ok)
			if tt.legal {
				assert.Equal(t, tt.want, c.Type)
				assert.Equal(t, tt.rank, c.Rank)
			}
		})
	}

	c, ok := Classify(nil)
	require.True(t, ok)
	assert.Equal(t, Pass, c.Type)
}

func TestTypeText(t *testing.T) {
	data, err := json.Marshal(Combo{Type: FourKind, Rank: cards.Ace, Cards: cards.Hand{11, 24, 37, 50}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"four_kind","rank":11,"cards":[11,24,37,50]}`, string(data))

	var typ Type
	require.NoError(t, typ.UnmarshalText([]byte("quad")))
	assert.Equal(t, FourKind, typ)
	assert.Error(t, typ.UnmarshalText([]byte("flush")))
}

func TestStrength(t *testing.T) {
	tests := []struct {
		name       string
		combo      Combo
		strength   float64
		unbeatable float64
	}{
		{"single two", Combo{Type: Single, Rank: cards.Two, Cards: make(cards.Hand, 1)}, 1.0, 0.9},
		{"single ace", Combo{Type: Single, Rank: cards.Ace, Cards: make(cards.Hand, 1)}, 0.3, 0.1},
		{"single three", Combo{Type: Single, Rank: cards.Three, Cards: make(cards.Hand, 1)}, 0.1, 0.1},
		{"pair ace", Combo{Type: Pair, Rank: cards.Ace, Cards: make(cards.Hand, 2)}, 0.8, 0.1},
		{"pair ten", Combo{Type: Pair, Rank: cards.Ten, Cards: make(cards.Hand, 2)}, 0.5, 0.1},
		{"pair four", Combo{Type: Pair, Rank: cards.Four, Cards: make(cards.Hand, 2)}, 0.15 + 0.1 + 0.1/7.0, 0.1},
		{"triple king", Combo{Type: Triple, Rank: cards.King, Cards: make(cards.Hand, 3)}, 0.8, 0.55},
		{"triple eight", Combo{Type: Triple, Rank: cards.Eight, Cards: make(cards.Hand, 3)}, 0.5, 0.5},
		{"triple three", Combo{Type: Triple, Rank: cards.Three, Cards: make(cards.Hand, 3)}, 0.25, 0.1},
		{"four twos", Combo{Type: FourKind, Rank: cards.Two, Cards: make(cards.Hand, 4)}, 1.0, 1.0},
		{"four ace", Combo{Type: FourKind, Rank: cards.Ace, Cards: make(cards.Hand, 4)}, 0.98, 0.9},
		{"straight to ace", Combo{Type: Straight, Rank: cards.Ace, Cards: make(cards.Hand, 3)}, 1.0, 1.0},
		{"straight of ten", Combo{Type: Straight, Rank: cards.Queen, Cards: make(cards.Hand, 10)}, 1.0, 0.8 + 0.1},
		{"short straight", Combo{Type: Straight, Rank: cards.Five, Cards: make(cards.Hand, 3)}, 0.1 + 2.0/11.0*0.6, 0.2},
		{"six to king", Combo{Type: Straight, Rank: cards.King, Cards: make(cards.Hand, 6)}, 0.1 + 10.0/11.0*0.6 + 0.08, 0.65},
		{"pass", Combo{Type: Pass}, 0.1, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.strength, Strength(tt.combo), 1e-9)
			assert.InDelta(t, tt.unbeatable, UnbeatableStrength(tt.combo), 1e-9)
		})
	}
}
