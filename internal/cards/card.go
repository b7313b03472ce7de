// Package cards implements the 52-card encoding shared with the game engine.
//
// A card is an integer id in [0, 52). The rank is id%13 and the suit is id/13.
// Ranks run from 3 (lowest) to 2 (highest), as in Sâm and Tiến Lên.
package cards

import (
	"fmt"
	"strings"
)

// DeckSize is the number of cards in a standard deck
const DeckSize = 52

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Three is the lowest rank and Two the highest.
type Rank int

const (
	Three Rank = iota
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
	Two
)

var rankSymbols = [...]string{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "2"}

// String returns the string representation of a rank
func (r Rank) String() string {
	if r < Three || r > Two {
		return "?"
	}
	return rankSymbols[r]
}

// IsFace returns true for J, Q and K
func (r Rank) IsFace() bool {
	return r >= Jack && r <= King
}

// Card is a card id in [0, 52)
type Card int

// New creates a card from a rank and suit
func New(rank Rank, suit Suit) Card {
	return Card(int(suit)*13 + int(rank))
}

// Rank returns the rank of the card
func (c Card) Rank() Rank {
	return Rank(int(c) % 13)
}

// Suit returns the suit of the card
func (c Card) Suit() Suit {
	return Suit(int(c) / 13)
}

// Valid reports whether the id is inside the deck
func (c Card) Valid() bool {
	return c >= 0 && c < DeckSize
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	if !c.Valid() {
		return fmt.Sprintf("?%d", int(c))
	}
	return c.Rank().String() + c.Suit().String()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit().IsRed()
}

// Parse reads a card such as "3♠", "10h", "Th", "as" or "2C".
func Parse(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty card")
	}

	runes := []rune(s)
	suitRune := runes[len(runes)-1]
	rankPart := strings.ToUpper(string(runes[:len(runes)-1]))

	var suit Suit
	switch suitRune {
	case 's', 'S', '♠':
		suit = Spades
	case 'h', 'H', '♥':
		suit = Hearts
	case 'd', 'D', '♦':
		suit = Diamonds
	case 'c', 'C', '♣':
		suit = Clubs
	default:
		return 0, fmt.Errorf("invalid suit in card %q", s)
	}

	if rankPart == "T" {
		rankPart = "10"
	}
	for r, sym := range rankSymbols {
		if sym == rankPart {
			return New(Rank(r), suit), nil
		}
	}
	return 0, fmt.Errorf("invalid rank in card %q", s)
}
