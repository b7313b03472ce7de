// Package randutil provides seeded random sources and card dealing.
package randutil

import (
	rand "math/rand/v2"

	"github.com/lox/sambridge/internal/cards"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Both PCG
// seeds are derived from it so equal seeds give equal sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(u), splitmix(u+goldenRatio64)))
}

func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Shuffled returns a freshly shuffled deck
func Shuffled(rng *rand.Rand) cards.Hand {
	deck := cards.Deck()
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// Deal shuffles a deck and deals size cards to each of players hands.
// It returns nil when the deck cannot cover the deal.
func Deal(rng *rand.Rand, players, size int) []cards.Hand {
	if players <= 0 || size <= 0 || players*size > cards.DeckSize {
		return nil
	}
	deck := Shuffled(rng)
	hands := make([]cards.Hand, players)
	for p := range hands {
		hands[p] = deck[p*size : (p+1)*size : (p+1)*size]
	}
	return hands
}
