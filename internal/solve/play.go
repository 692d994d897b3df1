package solve

import (
	"github.com/hailam-chessplay/bridge-solver/internal/cards"
	"github.com/hailam-chessplay/bridge-solver/internal/deal"
)

// playableCards returns the cards seat may legally play: if seat holds
// any card of leadSuit, only those; otherwise the whole hand.
func playableCards(h *deal.Hands, seat deal.Seat, leadSuit cards.Suit, hasLead bool) cards.Cards {
	if !hasLead {
		return h.Hand(seat)
	}
	inSuit := h.Hand(seat).Suit(leadSuit)
	if !inSuit.Empty() {
		return inSuit
	}
	return h.Hand(seat)
}

// trickWinner determines which of the (up to four) plays in a completed
// trick wins it: highest trump if any trump was played, else highest
// card of the lead suit.
func trickWinner(plays []cardPlay, leadSuit, trump cards.Suit) int {
	best := 0
	for i := 1; i < len(plays); i++ {
		if cardBeats(plays[i].card, plays[best].card, leadSuit, trump) {
			best = i
		}
	}
	return best
}

// cardPlay pairs a played card with the seat that played it.
type cardPlay struct {
	card cards.Cards
	seat deal.Seat
}
