package solve

import (
	"testing"

	"github.com/hailam-chessplay/bridge-solver/internal/cards"
	"github.com/hailam-chessplay/bridge-solver/internal/deal"
	"github.com/hailam-chessplay/bridge-solver/internal/pattern"
)

func solveDeal(t *testing.T, pbn string, trump cards.Suit, leader deal.Seat) int8 {
	t.Helper()
	h, err := deal.ParsePBN(pbn)
	if err != nil {
		t.Fatalf("ParsePBN(%q): %v", pbn, err)
	}
	solver := NewSolver(h, trump, leader)
	cutoff := NewCutoffCache(10)
	patternCache := pattern.NewCache(10)
	return solver.SolveWithCaches(cutoff, patternCache)
}

// TestScenarioS1 mirrors spec.md scenario S-1: North holds the top
// cards of every suit (AKQJ of spades, AKQ of the rest), so once North
// wins the opening lead NS runs the entire deal.
func TestScenarioS1(t *testing.T) {
	const dealS1 = "N:AKQJ.AKQ.AKQ.AKQ T987.JT9.JT9.JT9 6543.876.876.876 2.5432.5432.5432"
	got := solveDeal(t, dealS1, cards.NoTrump, deal.West)
	if got != 13 {
		t.Errorf("S-1: got %d NS tricks, want 13", got)
	}
}

// TestScenarioS2 mirrors S-2: swapping N<->E and S<->W hands off a
// topless deal must make NS win nothing.
func TestScenarioS2(t *testing.T) {
	const dealS2 = "N:T987.JT9.JT9.JT9 AKQJ.AKQ.AKQ.AKQ 2.5432.5432.5432 6543.876.876.876"
	got := solveDeal(t, dealS2, cards.NoTrump, deal.West)
	if got != 0 {
		t.Errorf("S-2: got %d NS tricks, want 0", got)
	}
}

// TestScenarioS4Manual mirrors S-4: a single-trick deal resolves in one call.
func TestScenarioS4Manual(t *testing.T) {
	var h deal.Hands
	h.SetHand(deal.North, cards.CardBit(cards.Spade, cards.Ace))
	h.SetHand(deal.East, cards.CardBit(cards.Spade, cards.King))
	h.SetHand(deal.South, cards.CardBit(cards.Spade, cards.Two))
	h.SetHand(deal.West, cards.CardBit(cards.Spade, cards.Three))

	solver := NewSolver(h, cards.NoTrump, deal.West)
	got := solver.SolveWithCaches(NewCutoffCache(6), pattern.NewCache(6))
	if got != 1 {
		t.Errorf("S-4: got %d NS tricks, want 1 (North's bare ace is high)", got)
	}
}

func TestScenarioS5Manual(t *testing.T) {
	var h deal.Hands
	h.SetHand(deal.North, cards.CardBit(cards.Spade, cards.Ace).Add(cards.CardBit(cards.Heart, cards.Ace)))
	h.SetHand(deal.East, cards.CardBit(cards.Spade, cards.King).Add(cards.CardBit(cards.Heart, cards.King)))
	h.SetHand(deal.South, cards.CardBit(cards.Spade, cards.Two).Add(cards.CardBit(cards.Heart, cards.Two)))
	h.SetHand(deal.West, cards.CardBit(cards.Spade, cards.Three).Add(cards.CardBit(cards.Heart, cards.Three)))

	solver := NewSolver(h, cards.NoTrump, deal.West)
	got := solver.SolveWithCaches(NewCutoffCache(6), pattern.NewCache(6))
	if got != 2 {
		t.Errorf("S-5: got %d NS tricks, want 2 (North holds both bare aces)", got)
	}
}

func TestBoundsInvariant(t *testing.T) {
	const sample = "N:AKQT3.J6.KJ42.95 652.AK42.AQ87.T4 J74.QT95.T.AK863 98.873.9653.QJ72"
	for _, trump := range []cards.Suit{cards.NoTrump, cards.Spade, cards.Heart, cards.Diamond, cards.Club} {
		for leader := deal.West; leader < deal.NumSeats; leader++ {
			got := solveDeal(t, sample, trump, leader)
			if got < 0 || got > 13 {
				t.Errorf("trump=%v leader=%v: ns tricks %d out of [0,13]", trump, leader, got)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	const sample = "N:AKQT3.J6.KJ42.95 652.AK42.AQ87.T4 J74.QT95.T.AK863 98.873.9653.QJ72"
	a := solveDeal(t, sample, cards.Spade, deal.West)
	b := solveDeal(t, sample, cards.Spade, deal.West)
	if a != b {
		t.Errorf("non-deterministic: %d vs %d", a, b)
	}
}

func TestNoPruningMatchesDefault(t *testing.T) {
	const sample = "N:AKQT3.J6.KJ42.95 652.AK42.AQ87.T4 J74.QT95.T.AK863 98.873.9653.QJ72"
	got := solveDeal(t, sample, cards.Heart, deal.North)
	SetNoPruning(true)
	defer SetNoPruning(false)
	gotNoPrune := solveDeal(t, sample, cards.Heart, deal.North)
	if got != gotNoPrune {
		t.Errorf("pruning changed result: %d vs %d", got, gotNoPrune)
	}
}

func TestNoRankSkipMatchesDefault(t *testing.T) {
	const sample = "N:AKQT3.J6.KJ42.95 652.AK42.AQ87.T4 J74.QT95.T.AK863 98.873.9653.QJ72"
	got := solveDeal(t, sample, cards.Diamond, deal.East)
	SetNoRankSkip(true)
	defer SetNoRankSkip(false)
	gotNoSkip := solveDeal(t, sample, cards.Diamond, deal.East)
	if got != gotNoSkip {
		t.Errorf("rank-skip changed result: %d vs %d", got, gotNoSkip)
	}
}

func TestMidTrickRejectsEmptyOrFullTrick(t *testing.T) {
	var h deal.Hands
	h.SetHand(deal.North, cards.CardBit(cards.Spade, cards.Ace))
	h.SetHand(deal.East, cards.CardBit(cards.Spade, cards.King))
	h.SetHand(deal.South, cards.CardBit(cards.Spade, cards.Two))
	h.SetHand(deal.West, cards.CardBit(cards.Spade, cards.Three))

	if _, err := NewMidTrickSolver(h, cards.NoTrump, PartialTrick{Plays: nil, Leader: deal.West}); err == nil {
		t.Error("expected error for empty partial trick")
	}
	full := PartialTrick{
		Plays: []PlayedCard{
			{cards.CardBit(cards.Spade, cards.Three), deal.West},
			{cards.CardBit(cards.Spade, cards.Ace), deal.North},
			{cards.CardBit(cards.Spade, cards.King), deal.East},
			{cards.CardBit(cards.Spade, cards.Two), deal.South},
		},
		LeadSuit: cards.Spade,
		Leader:   deal.West,
	}
	if _, err := NewMidTrickSolver(h, cards.NoTrump, full); err == nil {
		t.Error("expected error for a complete (4-play) partial trick")
	}
}

func TestMidTrickConsistency(t *testing.T) {
	var h deal.Hands
	h.SetHand(deal.North, cards.CardBit(cards.Spade, cards.Ace).Add(cards.CardBit(cards.Heart, cards.Ace)))
	h.SetHand(deal.East, cards.CardBit(cards.Spade, cards.King).Add(cards.CardBit(cards.Heart, cards.King)))
	h.SetHand(deal.South, cards.CardBit(cards.Spade, cards.Two).Add(cards.CardBit(cards.Heart, cards.Two)))
	h.SetHand(deal.West, cards.CardBit(cards.Spade, cards.Three).Add(cards.CardBit(cards.Heart, cards.Three)))

	base := NewSolver(h, cards.Spade, deal.West)
	want := base.SolveWithCaches(NewCutoffCache(6), pattern.NewCache(6))

	partial := PartialTrick{
		Plays:    []PlayedCard{{cards.CardBit(cards.Spade, cards.Three), deal.West}},
		LeadSuit: cards.Spade,
		Leader:   deal.West,
	}
	mid, err := NewMidTrickSolver(h, cards.Spade, partial)
	if err != nil {
		t.Fatalf("NewMidTrickSolver: %v", err)
	}
	got := mid.SolveWithCaches(NewCutoffCache(6), pattern.NewCache(6))
	if got != want {
		t.Errorf("mid-trick solve = %d, want %d (full solve)", got, want)
	}
}

func TestNodeCountIncreases(t *testing.T) {
	ResetNodeCount()
	const sample = "N:AKQT3.J6.KJ42.95 652.AK42.AQ87.T4 J74.QT95.T.AK863 98.873.9653.QJ72"
	solveDeal(t, sample, cards.Club, deal.South)
	if NodeCount() == 0 {
		t.Error("expected NodeCount to advance during a solve")
	}
}
