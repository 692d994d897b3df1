package pattern

import (
	"github.com/hailam-chessplay/bridge-solver/internal/cards"
	"github.com/hailam-chessplay/bridge-solver/internal/deal"
)

// RelativeHands compresses the four hands, suit by suit, against the
// union of cards still remaining in that suit. Two positions whose
// hands differ only in spot cards that have been squeezed out of the
// remaining set collapse to the identical RelativeHands value, which is
// exactly the property the pattern cache exploits.
type RelativeHands struct {
	hands [deal.NumSeats]cards.Cards
}

// Hand returns the compressed bits for one seat.
func (r RelativeHands) Hand(seat deal.Seat) cards.Cards { return r.hands[seat] }

// FromHands builds a RelativeHands directly from already-relative,
// per-seat bit sets — used when deriving a filtered view of an existing
// RelativeHands (e.g. restricting it to rank-relevant cards) rather than
// recomputing from actual hands.
func FromHands(hands [deal.NumSeats]cards.Cards) RelativeHands {
	return RelativeHands{hands: hands}
}

// Compute builds RelativeHands from scratch for every suit.
func Compute(h *deal.Hands) RelativeHands {
	var r RelativeHands
	all := h.AllCards()
	for suit := cards.Spade; suit < cards.NumSuits; suit++ {
		mask := all.Suit(suit)
		for seat := deal.West; seat < deal.NumSeats; seat++ {
			r.hands[seat] = r.hands[seat].Union(convertSuit(h.Hand(seat).Suit(suit), mask, suit))
		}
	}
	return r
}

// convertSuit packs hand's bits (restricted to one suit) against mask,
// then re-spreads the compacted bits back at the suit's own base offset
// so that relative values from different suits never collide in the
// 52-bit RelativeHands address space.
func convertSuit(hand, mask cards.Cards, suit cards.Suit) cards.Cards {
	base := int(suit) * int(cards.NumRanks)
	compact := PackCards(hand, mask)
	return cards.Cards(uint64(compact) << uint(base))
}

// Update recomputes only the suits whose remaining-card mask changed
// between prevAll and newAll, leaving the rest of the cached value
// untouched. The search does not call it: it rebuilds RelativeHands
// with Compute at every trick start.
func (r RelativeHands) Update(h *deal.Hands, prevAll, newAll cards.Cards) RelativeHands {
	out := r
	for suit := cards.Spade; suit < cards.NumSuits; suit++ {
		sm := cards.SuitMask(suit)
		if prevAll.Intersect(sm) == newAll.Intersect(sm) {
			continue
		}
		mask := newAll.Suit(suit)
		for seat := deal.West; seat < deal.NumSeats; seat++ {
			out.hands[seat] = out.hands[seat].Different(sm).Union(convertSuit(h.Hand(seat).Suit(suit), mask, suit))
		}
	}
	return out
}
