// Package deal holds the four-hand container (Hands) and its parsers.
package deal

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hailam-chessplay/bridge-solver/internal/cards"
)

// Seat identifies a player position around the table.
type Seat int

const (
	West Seat = iota
	North
	East
	South
	NumSeats
)

func (s Seat) String() string {
	switch s {
	case West:
		return "West"
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	default:
		return fmt.Sprintf("Seat(%d)", int(s))
	}
}

// Letter renders a seat as its single-letter PBN form.
func (s Seat) Letter() byte { return s.String()[0] }

// IsNS reports whether seat belongs to the North-South partnership.
// WEST=0, NORTH=1, EAST=2, SOUTH=3: NS are the odd-indexed seats.
func IsNS(s Seat) bool { return s&1 != 0 }

// Partner, LHO, RHO are the three seat-arithmetic relations the engine
// needs throughout move ordering and fast/slow-trick estimation.
func Partner(s Seat) Seat { return (s + 2) % NumSeats }
func LHO(s Seat) Seat     { return (s + 1) % NumSeats }
func RHO(s Seat) Seat     { return (s + 3) % NumSeats }
func Next(s Seat) Seat    { return (s + 1) % NumSeats }

func ParseSeat(c byte) (Seat, bool) {
	switch c | 0x20 {
	case 'w':
		return West, true
	case 'n':
		return North, true
	case 'e':
		return East, true
	case 's':
		return South, true
	}
	return 0, false
}

// Hands is the four-seat card container.
type Hands struct {
	hands [NumSeats]cards.Cards
}

// Hand returns seat's cards.
func (h *Hands) Hand(s Seat) cards.Cards { return h.hands[s] }

// SetHand replaces seat's cards.
func (h *Hands) SetHand(s Seat, c cards.Cards) { h.hands[s] = c }

// AllCards is the union of all four hands (the cards still "live" in the
// deal, used both for a fresh deal and mid-trick, where it shrinks as
// cards are played).
func (h *Hands) AllCards() cards.Cards {
	var all cards.Cards
	for _, c := range h.hands {
		all = all.Union(c)
	}
	return all
}

// PartnershipCards is the union of a seat and its partner's hands.
func (h *Hands) PartnershipCards(s Seat) cards.Cards {
	return h.hands[s].Union(h.hands[Partner(s)])
}

// OpponentCards is the union of the two seats not in s's partnership.
func (h *Hands) OpponentCards(s Seat) cards.Cards {
	return h.PartnershipCards(s).Complement().Intersect(h.AllCards())
}

// NumTricks is the maximum hand size, the number of tricks left to play.
// In mid-trick positions hand sizes can differ by the trick depth.
func (h *Hands) NumTricks() int {
	max := 0
	for _, c := range h.hands {
		if n := c.Size(); n > max {
			max = n
		}
	}
	return max
}

var upperCaser = cases.Upper(language.Und)

// ParsePBN parses the standard "N:AKQT3.J6.KJ42.95 652.AK42.AQ87.T4
// J74.QT95.T.AK863 98.873.9653.QJ72" form: a leading seat letter and
// colon, then four dot-separated space-delimited hands starting at that
// seat and proceeding clockwise.
func ParsePBN(s string) (Hands, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[1] != ':' {
		return Hands{}, fmt.Errorf("deal: malformed PBN string %q: expected \"<seat>:...\"", s)
	}
	first, ok := ParseSeat(s[0])
	if !ok {
		return Hands{}, fmt.Errorf("deal: invalid seat letter %q in PBN string", s[0])
	}
	fields := strings.Fields(s[2:])
	if len(fields) != 4 {
		return Hands{}, fmt.Errorf("deal: expected 4 hands in PBN string, got %d", len(fields))
	}

	var h Hands
	seat := first
	for _, field := range fields {
		c, err := parseSuitDotted(field)
		if err != nil {
			return Hands{}, fmt.Errorf("deal: seat %s: %w", seat, err)
		}
		h.SetHand(seat, c)
		seat = Next(seat)
	}
	return h, h.validate()
}

// parseSuitDotted parses one hand in "AKQT3.J6.KJ42.95" form: four
// dot-separated runs, spades-hearts-diamonds-clubs order.
func parseSuitDotted(field string) (cards.Cards, error) {
	suits := strings.Split(upperCaser.String(field), ".")
	if len(suits) != 4 {
		return 0, fmt.Errorf("expected 4 dot-separated suits, got %d in %q", len(suits), field)
	}
	var c cards.Cards
	order := [4]cards.Suit{cards.Spade, cards.Heart, cards.Diamond, cards.Club}
	for i, run := range suits {
		for j := 0; j < len(run); j++ {
			r, ok := cards.ParseRank(run[j])
			if !ok {
				return 0, fmt.Errorf("invalid rank %q in suit run %q", run[j], run)
			}
			c = c.Add(cards.CardBit(order[i], r))
		}
	}
	return c, nil
}

// ParseHandSpaces accepts the whitespace-separated four-suit form used by
// the diagnostic CLI's hand file: one to four space-separated suit runs,
// assigned to S, H, D, C in order. Only trailing suits can be left out;
// there is no marker for a void in an earlier suit.
func ParseHandSpaces(line string) (cards.Cards, error) {
	fields := strings.Fields(upperCaser.String(line))
	if len(fields) == 0 || len(fields) > 4 {
		return 0, fmt.Errorf("deal: expected 1-4 suit groups, got %d", len(fields))
	}
	order := [4]cards.Suit{cards.Spade, cards.Heart, cards.Diamond, cards.Club}
	var c cards.Cards
	for i, run := range fields {
		for j := 0; j < len(run); j++ {
			r, ok := cards.ParseRank(run[j])
			if !ok {
				return 0, fmt.Errorf("invalid rank %q in suit group %q", run[j], run)
			}
			c = c.Add(cards.CardBit(order[i], r))
		}
	}
	return c, nil
}

// validate enforces the spec's post-parse invariant: 52 distinct cards,
// 13 per seat.
func (h *Hands) validate() error {
	seen := cards.Cards(0)
	for s := West; s < NumSeats; s++ {
		hand := h.hands[s]
		if hand.Size() != 13 {
			return fmt.Errorf("deal: seat %s has %d cards, want 13", s, hand.Size())
		}
		if seen.Overlaps(hand) {
			return fmt.Errorf("deal: duplicate card(s) dealt to %s", s)
		}
		seen = seen.Union(hand)
	}
	if seen.Size() != 52 {
		return fmt.Errorf("deal: deck has %d distinct cards, want 52", seen.Size())
	}
	return nil
}

func (h *Hands) String() string {
	var b strings.Builder
	for s := West; s < NumSeats; s++ {
		fmt.Fprintf(&b, "%s: %s\n", s, h.hands[s])
	}
	return b.String()
}
