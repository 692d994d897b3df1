package solve

import (
	"fmt"

	"github.com/hailam-chessplay/bridge-solver/internal/cards"
	"github.com/hailam-chessplay/bridge-solver/internal/deal"
	"github.com/hailam-chessplay/bridge-solver/internal/pattern"
)

// PlayedCard pairs a single card with the seat that played it — the
// public form of cardPlay, used at the Solver API boundary for
// mid-trick queries.
type PlayedCard struct {
	Card cards.Cards
	Seat deal.Seat
}

// PartialTrick is 1-3 cards already played in the current trick.
type PartialTrick struct {
	Plays    []PlayedCard
	LeadSuit cards.Suit
	Leader   deal.Seat
}

// NextToPlay is the seat that plays the partial trick's next card.
func (p PartialTrick) NextToPlay() deal.Seat {
	seat := p.Leader
	for i := 0; i < len(p.Plays); i++ {
		seat = deal.Next(seat)
	}
	return seat
}

func (p PartialTrick) toInternal() []cardPlay {
	out := make([]cardPlay, len(p.Plays))
	for i, pc := range p.Plays {
		out[i] = cardPlay{pc.Card, pc.Seat}
	}
	return out
}

// Solver is the public entry point: a deal, a trump denomination, and
// (for a fresh-deal solve) the opening leader.
type Solver struct {
	hands         deal.Hands
	trump         cards.Suit
	initialLeader deal.Seat
	numTricks     int8
	partial       *PartialTrick
}

// NewSolver builds a full-deal solver: solve starts with an empty trick,
// initialLeader on lead.
func NewSolver(hands deal.Hands, trump cards.Suit, initialLeader deal.Seat) *Solver {
	return &Solver{hands: hands, trump: trump, initialLeader: initialLeader, numTricks: int8(hands.NumTricks())}
}

// NewMidTrickSolver builds a solver resuming from a partial trick; it
// fails construction (spec.md §7's "invalid partial trick") if partial
// has 0 or 4+ plays — a complete or empty trick is not a mid-trick
// position.
//
// hands is the deal as it stood before the trick began: the cards
// named in partial.Plays are still expected to be present in their
// players' hands here, and this constructor removes them, since the
// search state a hand represents is always "cards not yet played" —
// the already-played cards live only in the trick's own record from
// this point on, or a later search node could deal them out again.
func NewMidTrickSolver(hands deal.Hands, trump cards.Suit, partial PartialTrick) (*Solver, error) {
	if len(partial.Plays) == 0 || len(partial.Plays) >= 4 {
		return nil, fmt.Errorf("solve: invalid partial trick: %d plays, want 1-3", len(partial.Plays))
	}
	for _, p := range partial.Plays {
		have := hands.Hand(p.Seat)
		if !have.Have(p.Card) {
			return nil, fmt.Errorf("solve: invalid partial trick: seat %s does not hold %s", p.Seat, p.Card)
		}
		hands.SetHand(p.Seat, have.Remove(p.Card))
	}
	return &Solver{hands: hands, trump: trump, numTricks: int8(hands.NumTricks()), partial: &partial}, nil
}

// SolveWithCaches runs MTD(f) to convergence, returning the NS trick
// count under perfect defense, reusing cutoff and patternCache across
// the whole sequence of null-window searches (and, if the caller wants,
// across further calls for other leaders of the same denomination).
func (s *Solver) SolveWithCaches(cutoff *CutoffCache, patternCache *pattern.Cache) int8 {
	guess := guessTricks(&s.hands, s.trump, s.numTricks)
	run := func(beta int8) int8 {
		search := NewSearch(s.hands, s.trump, cutoff, patternCache)
		if s.partial != nil {
			return search.RunFromPartialTrick(beta, 0, s.partial.NextToPlay(), s.partial.toInternal(), s.partial.LeadSuit)
		}
		return search.Run(beta, 0, s.initialLeader)
	}
	return mtdf(s.numTricks, guess, run)
}

// NumTricks is the number of tricks remaining to be played.
func (s *Solver) NumTricks() int8 { return s.numTricks }
