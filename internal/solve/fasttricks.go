package solve

import (
	"github.com/hailam-chessplay/bridge-solver/internal/cards"
	"github.com/hailam-chessplay/bridge-solver/internal/deal"
)

// fastTricks is a sound lower bound on the number of tricks the seat on
// lead can cash immediately, suit by suit: a consecutive run, from the
// top of the remaining cards in that suit, held entirely by seat. Such a
// run is unconditionally cashable because each card played is still the
// new top of the suit, so seat keeps winning (and keeps the lead) for
// the whole run regardless of how the defense plays — in notrump, or for
// the trump suit itself. In a suit contract a side-suit run can be
// ruffed, so searchAtTrickStart counts only the trump-suit run (topRun)
// there instead of calling this.
//
// Partner's holdings are deliberately not folded in: doing so would
// require reasoning about entries this estimator does not attempt, and
// an unsound overestimate here would corrupt Layer B's final-result
// pruning, not just its speed. A tighter, partner-aware estimate is a
// possible follow-up; this one is conservative and always safe.
func fastTricks(h *deal.Hands, seat deal.Seat, all cards.Cards) int {
	total := 0
	for suit := cards.Spade; suit < cards.NumSuits; suit++ {
		total += topRun(h.Hand(seat).Suit(suit), all.Suit(suit))
	}
	return total
}

// topRun counts how many of the top cards remaining in a suit (by
// all's membership) hand holds consecutively from the very top.
func topRun(hand, allInSuit cards.Cards) int {
	run := 0
	for c := allInSuit; !c.Empty(); {
		top := c.Top()
		if !hand.Have(top) {
			break
		}
		run++
		c = c.Remove(top)
	}
	return run
}

// slowTricksForOpponents is a sound lower bound on the tricks the
// opponents of seat are guaranteed to win eventually, used to prune the
// opposite side of Layer B's bound check; seat is on lead. Only counted
// in notrump: if the opponents hold the highest remaining card of every
// suit seat holds, then whatever seat leads, the holder of that suit's
// top card follows with it and wins, so the opponents take at least one
// trick. At most 1 is counted: a top card alone is not a sure trick,
// since its suit may never be led and its holder may have to discard
// it. In a suit contract that guarantee does not hold (the card can be
// ruffed), so this estimator contributes nothing there — sound but
// conservative, exactly the tradeoff spec.md §9 endorses for this class
// of heuristic.
func slowTricksForOpponents(h *deal.Hands, seat deal.Seat, trump cards.Suit, all cards.Cards) int {
	if trump != cards.NoTrump {
		return 0
	}
	mine := h.Hand(seat)
	if mine.Empty() {
		return 0
	}
	opp := h.OpponentCards(seat)
	for suit := cards.Spade; suit < cards.NumSuits; suit++ {
		if !mine.Suit(suit).Empty() && !opp.Have(all.Suit(suit).Top()) {
			return 0
		}
	}
	return 1
}
