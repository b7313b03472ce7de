package combo

import "github.com/lox/sambridge/internal/cards"

// Strength scores a combo for Sâm in [0, 1]. Twos and Ace-high straights are
// effectively unbeatable and score 1.
func Strength(c Combo) float64 {
	rank := c.Rank
	isTwo := rank == cards.Two
	isAce := rank == cards.Ace
	base := 0.1 + float64(min(rank, cards.Ten))/7.0*0.1

	switch c.Type {
	case Straight:
		length := c.Len()
		if length >= 10 || isAce {
			return 1.0
		}
		strength := 0.1 + float64(rank)/11.0*0.6
		switch {
		case length >= 7:
			strength += 0.1 + float64(length-7)*0.02
		case length == 6:
			strength += 0.08
		case length == 5:
			strength += 0.06
		default:
			strength += float64(length-3) * 0.03
		}
		return strength

	case Single:
		if isTwo {
			return 1.0
		}
		if isAce {
			return 0.3
		}
		return base

	case Pair:
		switch {
		case isTwo:
			return 1.0
		case isAce:
			return 0.8
		case rank > cards.Seven:
			return 0.3 + base
		}
		return 0.15 + base

	case Triple:
		switch {
		case isTwo:
			return 1.0
		case isAce:
			return 0.9
		case rank.IsFace():
			return 0.8
		case rank >= cards.Seven:
			return 0.5
		}
		return 0.25 + float64(rank)/4.0*0.05

	case FourKind:
		if isTwo {
			return 1.0
		}
		if isAce {
			return 0.98
		}
		return 0.95 + float64(rank)/11.0*0.03
	}

	return 0.1
}

// UnbeatableStrength scores how long a combo should be held when playing out a
// declared hand: strong combos score high and are kept for last.
func UnbeatableStrength(c Combo) float64 {
	rank := c.Rank
	isTwo := rank == cards.Two
	isAce := rank == cards.Ace
	isFace := rank.IsFace()

	switch c.Type {
	case Straight:
		length := c.Len()
		if isAce {
			return 1.0
		}
		if length >= 7 {
			s := 0.65 + float64(length-7)*0.05
			if isFace {
				s += 0.1
			}
			return s
		}
		if length == 6 && isFace {
			return 0.65
		}
		s := 0.2 + float64(length-3)*0.08
		if isFace {
			s += 0.05
		}
		return s

	case Single:
		if isTwo {
			return 0.9
		}
		return 0.1

	case Pair:
		if isTwo {
			return 0.95
		}
		return 0.1

	case Triple:
		switch {
		case isTwo:
			return 1.0
		case isAce:
			return 0.6
		case isFace:
			return 0.55
		case rank >= cards.Eight:
			return 0.5
		}
		return 0.1

	case FourKind:
		if isTwo {
			return 1.0
		}
		return 0.9
	}

	return 0.0
}

// Strengths maps Strength over combos
func Strengths(combos []Combo) []float64 {
	out := make([]float64, len(combos))
	for i, c := range combos {
		out[i] = Strength(c)
	}
	return out
}
