// Package penalty recognises the end-of-game penalties of Sâm and Tiến Lên:
// cards that cost a player extra when still held as the game ends, and the
// Tiến Lên rules on which cards may finish a hand.
package penalty

import (
	"slices"

	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/provider"
)

// Risk is a penalty a hand is exposed to
type Risk string

const (
	// Tiến Lên
	TwoSpades  Risk = "thoi_2_spades"
	FourKind   Risk = "thoi_four_kind"
	ThreePairs Risk = "thoi_three_pairs"
	FourPairs  Risk = "thoi_four_pairs"

	// Sâm
	TwoSpadesSam Risk = "thoi_2_spades_sam"
	FourKindSam  Risk = "thoi_four_kind_sam"
	Cong         Risk = "cong"
)

// Severity grades a risk by the bets it costs
type Severity int

const (
	Low      Severity = iota // one bet
	Medium                   // six bets
	High                     // thirteen bets
	Critical                 // twenty-six bets
)

// CongHandSize is the hand size above which a Sâm player risks being caught
// without having played a card.
const CongHandSize = 5

// SeverityOf grades r. Every named penalty costs the full 26 bets.
func SeverityOf(r Risk) Severity {
	switch r {
	case TwoSpades, FourKind, ThreePairs, FourPairs, TwoSpadesSam, FourKindSam, Cong:
		return Critical
	}
	return Low
}

// Check lists the penalties hand would incur if the game ended now.
// gameType is provider.GameTLMN or provider.GameSam; anything else is Sâm.
func Check(hand cards.Hand, gameType string) []Risk {
	var risks []Risk
	counts := rankCounts(hand)
	if gameType == provider.GameTLMN {
		if hand.Contains(cards.New(cards.Two, cards.Spades)) {
			risks = append(risks, TwoSpades)
		}
		if hasFourKind(counts) {
			risks = append(risks, FourKind)
		}
		if run := longestPairRun(counts); run >= 3 {
			risks = append(risks, ThreePairs)
			if run >= 4 {
				risks = append(risks, FourPairs)
			}
		}
		return risks
	}

	if hand.Contains(cards.New(cards.Two, cards.Spades)) {
		risks = append(risks, TwoSpadesSam)
	}
	if hasFourKind(counts) {
		risks = append(risks, FourKindSam)
	}
	if len(hand) > CongHandSize {
		risks = append(risks, Cong)
	}
	return risks
}

// End rule violations reported by EndRule
const (
	FinishOnTwo      = "finish_on_two"
	FinishOnFourKind = "finish_on_four_kind"
	LeavesOnlyTwos   = "leaves_only_twos"
	LeavesFourKind   = "leaves_four_kind"
)

// EndRule reports which Tiến Lên end rule playing played from hand would
// break, or "" when the play is allowed. A hand may not finish on a 2 or a
// four of a kind, so a play may neither end the hand that way nor leave
// only 2s or exactly a four of a kind behind.
func EndRule(hand, played cards.Hand) string {
	if len(played) == 0 {
		return ""
	}
	remaining := Remaining(hand, played)

	if len(remaining) == 0 {
		if slices.ContainsFunc(played, isTwo) {
			return FinishOnTwo
		}
		if isFourKind(played) {
			return FinishOnFourKind
		}
		return ""
	}
	if !slices.ContainsFunc(remaining, func(c cards.Card) bool { return !isTwo(c) }) {
		return LeavesOnlyTwos
	}
	if isFourKind(remaining) {
		return LeavesFourKind
	}
	return ""
}

// Remaining returns the cards of hand not in played
func Remaining(hand, played cards.Hand) cards.Hand {
	out := make(cards.Hand, 0, len(hand))
	for _, c := range hand {
		if !played.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

func isTwo(c cards.Card) bool {
	return c.Rank() == cards.Two
}

func isFourKind(h cards.Hand) bool {
	if len(h) != 4 {
		return false
	}
	for _, c := range h[1:] {
		if c.Rank() != h[0].Rank() {
			return false
		}
	}
	return true
}

func rankCounts(h cards.Hand) [13]int {
	var counts [13]int
	for _, c := range h {
		counts[c.Rank()]++
	}
	return counts
}

func hasFourKind(counts [13]int) bool {
	return slices.ContainsFunc(counts[:], func(n int) bool { return n >= 4 })
}

// longestPairRun is the longest run of consecutive ranks held at least in
// pairs. 2s never form part of a run.
func longestPairRun(counts [13]int) int {
	best, run := 0, 0
	for r := cards.Three; r < cards.Two; r++ {
		if counts[r] >= 2 {
			run++
			best = max(best, run)
		} else {
			run = 0
		}
	}
	return best
}
