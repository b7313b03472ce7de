package heuristic

import (
	"cmp"
	"slices"

	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/penalty"
	"github.com/lox/sambridge/internal/probability"
	"github.com/lox/sambridge/internal/provider"
)

// Evaluation weights, summing to 1
const (
	weightPenalty   = 0.40
	weightCardValue = 0.25
	weightCombo     = 0.20
	weightStrategic = 0.15
)

var comboEfficiency = map[combo.Type]float64{
	combo.Single:    0.3,
	combo.Pair:      0.5,
	combo.Triple:    0.7,
	combo.Straight:  0.6,
	combo.DoubleSeq: 0.8,
	combo.FourKind:  0.9,
}

// Scored is a move with its evaluation score
type Scored struct {
	Move  provider.Move
	Score float64
}

// Evaluate scores a play between 0.1 and 1 from four weighted parts: how
// well it avoids end-of-game penalties, the rank of the cards shed, the
// combo shape and how urgent the table is. Non-plays score 0.
func Evaluate(m provider.Move, rec provider.GameRecord) float64 {
	if m.Type != provider.PlayCards || len(m.Cards) == 0 {
		return 0
	}
	score := weightPenalty*penaltyScore(m.Cards, rec) +
		weightCardValue*cardValueScore(m.Cards) +
		weightCombo*comboScore(m) +
		weightStrategic*strategicScore(rec)
	return probability.Clamp(score, 0.1, 1)
}

// Rank scores every legal move, best first. Equal scores keep their order.
func Rank(moves []provider.Move, rec provider.GameRecord) []Scored {
	out := make([]Scored, len(moves))
	for i, m := range moves {
		out[i] = Scored{Move: m, Score: Evaluate(m, rec)}
	}
	slices.SortStableFunc(out, func(a, b Scored) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

func penaltyScore(played cards.Hand, rec provider.GameRecord) float64 {
	score := 1.0
	for _, r := range penalty.Check(penalty.Remaining(rec.Hand, played), rec.GameType) {
		switch penalty.SeverityOf(r) {
		case penalty.Critical:
			score -= 0.8
		case penalty.High:
			score -= 0.4
		case penalty.Medium:
			score -= 0.2
		}
	}
	for _, c := range played {
		switch {
		case c == cards.New(cards.Two, cards.Spades):
			score += 0.3
		case c.Rank() == cards.Two:
			score += 0.2
		case c.Rank() >= cards.King:
			score += 0.1
		}
	}
	return max(0, score)
}

func cardValueScore(played cards.Hand) float64 {
	total, high := 0, 0
	for _, c := range played {
		total += int(c.Rank())
		if c.Rank() >= cards.Jack {
			high++
		}
	}
	avg := float64(total) / float64(len(played))
	score := (float64(cards.Two) - avg) / float64(cards.Two)
	if high > 1 {
		score += 0.2
	}
	return min(1, score)
}

func comboScore(m provider.Move) float64 {
	shape, ok := m.Shape()
	if !ok {
		return 0.5
	}
	if v, ok := comboEfficiency[shape.Type]; ok {
		return v
	}
	return 0.5
}

func strategicScore(rec provider.GameRecord) float64 {
	score := 0.5
	switch n := len(rec.Hand); {
	case n <= 3:
		score += 0.3
	case n <= 6:
		score += 0.1
	}

	dealt := dealtSize(rec.GameType)
	played, least, seen := 0, dealt, false
	for seat, n := range rec.CardsLeft {
		played += dealt - n
		if seat != rec.PlayerID {
			least, seen = min(least, n), true
		}
	}
	if seen && least <= 2 {
		score += 0.2
	}
	if played > 30 {
		score += 0.1
	}
	return min(1, score)
}

// dealtSize is the number of cards each player starts with
func dealtSize(gameType string) int {
	if gameType == provider.GameTLMN {
		return 13
	}
	return 10
}
