package solve

import (
	"github.com/hailam-chessplay/bridge-solver/internal/cards"
	"github.com/hailam-chessplay/bridge-solver/internal/deal"
)

// mtdf repeatedly runs run(beta) — a null-window search — narrowing
// [lower, upper] until they meet, per spec.md §4.6.
func mtdf(numTricks int8, guess int8, run func(beta int8) int8) int8 {
	lower, upper := int8(0), numTricks
	g := guess
	for lower < upper {
		beta := g
		if g == lower {
			beta = g + 1
		}
		v := run(beta)
		if v < beta {
			upper = v
		} else {
			lower = v
		}
		g = v
	}
	return lower
}

// guessTricks is the opening MTD(f) estimate: an HCP-plus-trump-length
// heuristic, never consulted for correctness, only for how many
// iterations convergence takes.
func guessTricks(h *deal.Hands, trump cards.Suit, numTricks int8) int8 {
	nsPoints := h.Hand(deal.North).Points() + h.Hand(deal.South).Points()
	ewPoints := 40 - nsPoints

	if trump == cards.NoTrump {
		switch {
		case nsPoints*2 < ewPoints:
			return 0
		case nsPoints < ewPoints:
			return numTricks/2 + 1
		default:
			return numTricks
		}
	}

	nsTrumps := h.Hand(deal.North).Suit(trump).Size() + h.Hand(deal.South).Suit(trump).Size()
	ewTrumps := 13 - nsTrumps
	switch {
	case nsPoints*2 < ewPoints && nsTrumps <= ewTrumps:
		return 0
	case nsPoints < ewPoints && nsTrumps < ewTrumps:
		return numTricks/2 + 1
	case nsTrumps > ewTrumps || nsPoints > ewPoints:
		return numTricks
	default:
		return numTricks / 2
	}
}
