package solve

import (
	"github.com/hailam-chessplay/bridge-solver/internal/cards"
	"github.com/hailam-chessplay/bridge-solver/internal/deal"
)

// orderedCards accumulates a priority-ranked card list, skipping cards
// already emitted — move ordering only ever affects search speed (spec
// invariant 6: "move-ordering insensitivity"), never the result, so the
// accumulator's only real job is "never repeat a card, never drop one."
type orderedCards struct {
	cards []cards.Cards
	seen  cards.Cards
}

func (o *orderedCards) add(c cards.Cards) {
	if c == 0 || o.seen.Have(c) {
		return
	}
	o.cards = append(o.cards, c)
	o.seen = o.seen.Add(c)
}

func (o *orderedCards) addAll(set cards.Cards) {
	set.Iter(o.add)
}

func (o *orderedCards) addReversed(set cards.Cards) {
	idx := set.Indices()
	for i := len(idx) - 1; i >= 0; i-- {
		o.add(cards.Cards(1) << uint(idx[i]))
	}
}

// orderLeads classifies the lead seat's playable cards into the suit
// buckets of spec.md §4.3 and concatenates them in priority order.
// Ruff/bad/trump-suit buckets only apply to suit contracts.
func orderLeads(h *deal.Hands, seat deal.Seat, playable cards.Cards, trump cards.Suit, all cards.Cards) []cards.Cards {
	out := &orderedCards{}
	partner := deal.Partner(seat)
	lho := deal.LHO(seat)
	rho := deal.RHO(seat)

	var ruff, good, high, normal, bad []cards.Suit
	for suit := cards.Spade; suit < cards.NumSuits; suit++ {
		mine := playable.Suit(suit)
		if mine.Empty() {
			continue
		}
		partnerSuit := h.Hand(partner).Suit(suit)
		lhoSuit := h.Hand(lho).Suit(suit)
		rhoSuit := h.Hand(rho).Suit(suit)
		allSuit := all.Suit(suit)

		isTrumpSuit := trump != cards.NoTrump && suit == trump

		switch {
		case trump != cards.NoTrump && !isTrumpSuit && partnerSuit.Empty() && !h.Hand(partner).Suit(trump).Empty():
			// Partner void in this suit and not trump-exhausted: a ruff
			// opportunity. (Simplified trump-exhaustion test: partner
			// still holds at least one trump.)
			ruff = append(ruff, suit)
		case isFinesseShape(mine, partnerSuit, lhoSuit, rhoSuit):
			good = append(good, suit)
		case highCardLead(mine, partnerSuit, lhoSuit, rhoSuit):
			high = append(high, suit)
		case trump != cards.NoTrump && !isTrumpSuit && badLead(mine, rhoSuit, allSuit):
			bad = append(bad, suit)
		case isTrumpSuit:
			// handled after normal leads below
		default:
			normal = append(normal, suit)
		}
	}

	emit := func(suits []cards.Suit) {
		for _, s := range suits {
			mine := playable.Suit(s)
			out.add(mine.Top())
			out.add(mine.Bottom())
		}
	}
	emit(ruff)
	emit(good)
	emit(high)
	emit(normal)
	if trump != cards.NoTrump {
		emit(bad)
		trumpMine := playable.Suit(trump)
		out.add(trumpMine.Top())
		out.add(trumpMine.Bottom())
	}
	out.addAll(playable)
	return out.cards
}

// isFinesseShape recognizes the textbook finesse topologies: partner K
// facing LHO's A; partner A and LHO K with the partnership also holding
// the Q (or QJ); partner K and LHO Q with the J or JT in our side.
func isFinesseShape(mine, partnerSuit, lhoSuit, rhoSuit cards.Cards) bool {
	top := mine.Top()
	if top == 0 {
		return false
	}
	suit := cards.SuitOf(top.Indices()[0])
	has := func(c cards.Cards, r cards.Rank) bool { return c.Have(cards.CardBit(suit, r)) }
	combined := mine.Union(partnerSuit)

	switch {
	case has(partnerSuit, cards.King) && has(lhoSuit, cards.Ace):
		return true
	case has(partnerSuit, cards.Ace) && has(lhoSuit, cards.King) && (has(combined, cards.Queen)):
		return true
	case has(partnerSuit, cards.King) && has(lhoSuit, cards.Queen) && has(combined, cards.Jack):
		return true
	default:
		return false
	}
}

func highCardLead(mine, partnerSuit, lhoSuit, rhoSuit cards.Cards) bool {
	combined := mine.Union(partnerSuit)
	highHonors := 0
	top := mine.Top()
	if top == 0 {
		return false
	}
	suit := cards.SuitOf(top.Indices()[0])
	for _, r := range []cards.Rank{cards.Ace, cards.King, cards.Queen} {
		if combined.Have(cards.CardBit(suit, r)) {
			highHonors++
		}
	}
	return highHonors >= 2 && !lhoSuit.Empty() && !rhoSuit.Empty()
}

func badLead(mine, rhoSuit, allSuit cards.Cards) bool {
	top := mine.Top()
	if top == 0 {
		return false
	}
	suit := cards.SuitOf(top.Indices()[0])
	if mine.Have(cards.CardBit(suit, cards.Ace)) && rhoSuit.Have(cards.CardBit(suit, cards.King)) {
		return true
	}
	if mine.Have(cards.CardBit(suit, cards.King)) && rhoSuit.Have(cards.CardBit(suit, cards.Ace)) && !mine.Have(cards.CardBit(suit, cards.Queen)) {
		return true
	}
	return false
}

// orderFollows implements spec.md §4.4's four situations. Trick state is
// passed as: leadSuit, winningCard/winningSeat (zero winningCard means no
// one has played yet — only relevant when playable excludes leadSuit),
// trump, and hasLeadSuit (whether seat can follow).
func orderFollows(h *deal.Hands, seat deal.Seat, playable, leadSuitHolding cards.Cards, leadSuit, trump cards.Suit, winningCard cards.Cards, winningSeat deal.Seat, hasLeadSuit bool) []cards.Cards {
	out := &orderedCards{}
	partner := deal.Partner(seat)
	lho := deal.LHO(seat)

	if hasLeadSuit {
		myTop := playable.Top()
		beatsWinner := winningCard == 0 || cardBeats(myTop, winningCard, leadSuit, trump)
		partnerWinning := winningCard != 0 && winningSeat == partner
		if !beatsWinner || partnerWinning {
			out.addAll(playable)
			return out.cards
		}
		lhoSuit := h.Hand(lho).Suit(leadSuit)
		if lhoSuit.Empty() {
			// LHO can't beat anything more by us playing high; go low.
			out.addReversed(playable)
			return out.cards
		}
		above := playable.Slice(0, winningBit(winningCard))
		below := playable.Different(above)
		if needOutrankLHO(lhoSuit, winningCard) {
			out.addReversed(above)
		} else {
			out.addAll(above)
		}
		out.addAll(below)
		return out.cards
	}

	// Cannot follow suit.
	haveTrump := trump != cards.NoTrump && !playable.Suit(trump).Empty()
	if !haveTrump {
		return discardOrder(out, h, seat, playable, leadSuit)
	}
	partnerWinning := winningCard != 0 && winningSeat == partner && cardBeats(winningCard, 0, leadSuit, trump)
	if partnerWinning {
		return discardOrder(out, h, seat, playable, leadSuit)
	}
	trumpMine := playable.Suit(trump)
	someoneRuffed := winningCard != 0 && cards.SuitOf(winningBit(winningCard)) == trump
	if someoneRuffed {
		higher := trumpMine.Slice(0, winningBit(winningCard))
		if !higher.Empty() {
			out.addAll(higher)
		}
		return discardOrder(out, h, seat, playable, leadSuit)
	}
	lhoTrump := h.Hand(lho).Suit(trump)
	if lhoTrump.Empty() {
		out.add(trumpMine.Bottom())
		return discardOrder(out, h, seat, playable, leadSuit)
	}
	out.addReversed(trumpMine)
	return discardOrder(out, h, seat, playable, leadSuit)
}

func discardOrder(out *orderedCards, h *deal.Hands, seat deal.Seat, playable cards.Cards, excludeSuit cards.Suit) []cards.Cards {
	type bottomBySuit struct {
		suit   cards.Suit
		bottom cards.Cards
		length int
	}
	var bottoms []bottomBySuit
	for suit := cards.Spade; suit < cards.NumSuits; suit++ {
		if suit == excludeSuit {
			continue
		}
		mine := playable.Suit(suit)
		if mine.Empty() {
			continue
		}
		bottoms = append(bottoms, bottomBySuit{suit, mine.Bottom(), h.Hand(seat).Suit(suit).Size()})
	}
	// Stable sort by residual suit length, descending.
	for i := 1; i < len(bottoms); i++ {
		for j := i; j > 0 && bottoms[j].length > bottoms[j-1].length; j-- {
			bottoms[j], bottoms[j-1] = bottoms[j-1], bottoms[j]
		}
	}
	for _, b := range bottoms {
		out.add(b.bottom)
	}
	out.addAll(playable)
	return out.cards
}

func needOutrankLHO(lhoSuit, winningCard cards.Cards) bool {
	return !lhoSuit.Slice(0, winningBit(winningCard)).Empty()
}

func winningBit(c cards.Cards) int {
	if c == 0 {
		return 0
	}
	return c.Indices()[0]
}

// cardBeats reports whether a beats b when following leadSuit under
// trump. A zero card never beats anything (used to mean "no winner
// yet"); a trump always beats a non-trump; otherwise the lower bit
// index (higher rank) wins within the same suit, and cross-suit
// non-trump comparisons never beat.
func cardBeats(a, b cards.Cards, leadSuit, trump cards.Suit) bool {
	if a == 0 {
		return false
	}
	if b == 0 {
		return true
	}
	aIdx, bIdx := winningBit(a), winningBit(b)
	aSuit, bSuit := cards.SuitOf(aIdx), cards.SuitOf(bIdx)
	aTrump := trump != cards.NoTrump && aSuit == trump
	bTrump := trump != cards.NoTrump && bSuit == trump
	switch {
	case aTrump && !bTrump:
		return true
	case !aTrump && bTrump:
		return false
	case aSuit != bSuit:
		return false
	default:
		return aIdx < bIdx
	}
}
