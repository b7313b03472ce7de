package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/provider"
)

func firstCards(n int) cards.Hand {
	return cards.Deck()[:n]
}

func TestHandLimits(t *testing.T) {
	t.Run("declaration hands are capped at a sam deal", func(t *testing.T) {
		assert.NoError(t, ValidateDeclaration(&provider.DeclarationRequest{Hand: firstCards(10)}))
		assert.ErrorContains(t, ValidateDeclaration(&provider.DeclarationRequest{Hand: firstCards(11)}), "at most 10")
	})

	tests := []struct {
		name     string
		gameType string
		size     int
		ok       bool
	}{
		{"sam ten", provider.GameSam, 10, true},
		{"sam eleven", provider.GameSam, 11, false},
		{"default game is sam", "", 11, false},
		{"tlmn thirteen", provider.GameTLMN, 13, true},
		{"tlmn fourteen", provider.GameTLMN, 14, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMove(&provider.MoveRequest{Record: provider.GameRecord{GameType: tt.gameType, Hand: firstCards(tt.size)}})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	t.Run("cards left follows the game", func(t *testing.T) {
		sam := provider.MoveRequest{Record: provider.GameRecord{GameType: provider.GameSam, Hand: firstCards(3), CardsLeft: []int{3, 12}}}
		assert.Error(t, ValidateMove(&sam))
		tlmn := provider.MoveRequest{Record: provider.GameRecord{GameType: provider.GameTLMN, Hand: firstCards(3), CardsLeft: []int{3, 12}}}
		assert.NoError(t, ValidateMove(&tlmn))
	})
}
