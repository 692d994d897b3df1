package pattern

import (
	"github.com/hailam-chessplay/bridge-solver/internal/cards"
	"github.com/hailam-chessplay/bridge-solver/internal/deal"
)

// Shape packs all 16 (seat, suit) hand lengths into one 64-bit value, one
// nibble each, at the start of a trick. PlayTrick can advance it
// incrementally across one trick; the search does not use that and
// builds it afresh with NewShape at every trick start.
type Shape uint64

// offset returns the bit offset of the (seat, suit) nibble. Seat 0..3,
// suit 0..3, 16 slots of 4 bits packed from the high end down.
func offset(seat deal.Seat, suit cards.Suit) uint {
	return 60 - uint(int(seat)*4+int(suit))*4
}

// NewShape packs the current lengths of every (seat, suit) hand.
func NewShape(h *deal.Hands) Shape {
	var s Shape
	for seat := deal.West; seat < deal.NumSeats; seat++ {
		for suit := cards.Spade; suit < cards.NumSuits; suit++ {
			n := h.Hand(seat).Suit(suit).Size()
			s |= Shape(uint64(n) << offset(seat, suit))
		}
	}
	return s
}

// Length extracts the packed length for (seat, suit).
func (s Shape) Length(seat deal.Seat, suit cards.Suit) int {
	return int((uint64(s) >> offset(seat, suit)) & 0xF)
}

// PlayedAt names one (seat, suit) slot a completed trick removes a card
// from; PlayTrick takes the four of them for one trick.
type PlayedAt struct {
	Seat deal.Seat
	Suit cards.Suit
}

// Decrement returns the shape with one card removed from (seat, suit)'s
// nibble. It panics if the nibble is already zero, matching the
// invariant that a trick can never remove a card a hand does not hold.
func (s Shape) Decrement(seat deal.Seat, suit cards.Suit) Shape {
	n := s.Length(seat, suit)
	if n == 0 {
		panic("pattern: shape decrement on empty (seat,suit)")
	}
	off := offset(seat, suit)
	return s - Shape(uint64(1)<<off)
}

// PlayTrick applies four Decrement calls, one per seat, for the suit each
// seat actually played to the trick (ruffs decrement a different suit
// than the led one).
func (s Shape) PlayTrick(plays [4]PlayedAt) Shape {
	for _, p := range plays {
		s = s.Decrement(p.Seat, p.Suit)
	}
	return s
}
