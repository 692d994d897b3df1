package pattern

import (
	"testing"

	"github.com/hailam-chessplay/bridge-solver/internal/cards"
	"github.com/hailam-chessplay/bridge-solver/internal/deal"
)

func sampleHands(t *testing.T) deal.Hands {
	t.Helper()
	h, err := deal.ParsePBN("N:AKQT3.J6.KJ42.95 652.AK42.AQ87.T4 J74.QT95.T.AK863 98.873.9653.QJ72")
	if err != nil {
		t.Fatalf("ParsePBN: %v", err)
	}
	return h
}

func TestShapeLengths(t *testing.T) {
	h := sampleHands(t)
	s := NewShape(&h)
	for seat := deal.West; seat < deal.NumSeats; seat++ {
		total := 0
		for suit := cards.Spade; suit < cards.NumSuits; suit++ {
			total += s.Length(seat, suit)
		}
		if total != 13 {
			t.Errorf("seat %s total suit lengths = %d, want 13", seat, total)
		}
	}
}

func TestShapeDecrement(t *testing.T) {
	h := sampleHands(t)
	s := NewShape(&h)
	before := s.Length(deal.West, cards.Spade)
	s2 := s.Decrement(deal.West, cards.Spade)
	if s2.Length(deal.West, cards.Spade) != before-1 {
		t.Errorf("decrement did not reduce length")
	}
	if s2.Length(deal.North, cards.Spade) != s.Length(deal.North, cards.Spade) {
		t.Errorf("decrement touched an unrelated (seat,suit) slot")
	}
}

func TestRelativeHandsCollapseSpotCards(t *testing.T) {
	// Two positions differing only in which low spot card West holds
	// (2 vs 3 of spades, with the other no longer in any hand) must
	// compress to the same RelativeHands value for that suit, since only
	// the relative rank among *remaining* cards matters.
	var a, b deal.Hands
	a.SetHand(deal.West, cards.CardBit(cards.Spade, cards.Ace).Add(cards.CardBit(cards.Spade, cards.Two)))
	a.SetHand(deal.North, cards.CardBit(cards.Spade, cards.King))
	a.SetHand(deal.East, cards.CardBit(cards.Spade, cards.Jack))
	a.SetHand(deal.South, cards.CardBit(cards.Spade, cards.Queen))

	b.SetHand(deal.West, cards.CardBit(cards.Spade, cards.Ace).Add(cards.CardBit(cards.Spade, cards.Three)))
	b.SetHand(deal.North, cards.CardBit(cards.Spade, cards.King))
	b.SetHand(deal.East, cards.CardBit(cards.Spade, cards.Jack))
	b.SetHand(deal.South, cards.CardBit(cards.Spade, cards.Queen))

	ra := Compute(&a)
	rb := Compute(&b)
	if ra.Hand(deal.West) != rb.Hand(deal.West) {
		t.Errorf("relative hands did not collapse equivalent spot cards: %v vs %v", ra.Hand(deal.West), rb.Hand(deal.West))
	}
}

func TestBoundsCutoff(t *testing.T) {
	b := Bounds{Lower: 5, Upper: 5}
	if !b.Cutoff(5) {
		t.Error("lower==beta should cut off")
	}
	b2 := Bounds{Lower: 0, Upper: 3}
	if !b2.Cutoff(4) {
		t.Error("upper<beta should cut off")
	}
	b3 := Bounds{Lower: 0, Upper: 10}
	if b3.Cutoff(5) {
		t.Error("wide bounds should not cut off")
	}
}

func TestBoundsIntersect(t *testing.T) {
	b1 := Bounds{Lower: 2, Upper: 8}
	b2 := Bounds{Lower: 4, Upper: 6}
	got := b1.Intersect(b2)
	if got != (Bounds{4, 6}) {
		t.Errorf("Intersect = %+v, want {4 6}", got)
	}
}

func TestPatternInsertLookupMonotonic(t *testing.T) {
	h := sampleHands(t)
	all := Compute(&h)
	root := NewRoot(all, 13)

	// Insert a narrower pattern with a tighter bound.
	narrow := RelativeHands{}
	narrow.hands[deal.West] = all.Hand(deal.West).Suit(cards.Spade)
	root.Insert(narrow, Bounds{5, 5})

	probe := RelativeHands{}
	probe.hands[deal.West] = all.Hand(deal.West).Suit(cards.Spade)
	best, _, cutoff := root.Lookup(probe, 5)
	if !cutoff {
		t.Fatalf("expected exact-bound cutoff at beta=5")
	}
	if best.Lower != 5 || best.Upper != 5 {
		t.Errorf("Lookup bounds = %+v, want {5 5}", best)
	}

	// A second insert at the same hands must never widen the bound.
	root.Insert(narrow, Bounds{0, 13})
	best2, _, _ := root.Lookup(probe, 5)
	if best2.Lower != 5 || best2.Upper != 5 {
		t.Errorf("bound widened after redundant insert: %+v", best2)
	}
}

func TestCacheHashDeterministic(t *testing.T) {
	h := sampleHands(t)
	s := NewShape(&h)
	h1 := Hash(s, deal.North)
	h2 := Hash(s, deal.North)
	if h1 != h2 {
		t.Error("Hash not deterministic for identical inputs")
	}
	if h3 := Hash(s, deal.East); h3 == h1 {
		t.Error("Hash collided trivially across different seats (unlikely but not impossible)")
	}
}

func TestCacheGetOrCreateReplacesOnMismatch(t *testing.T) {
	c := NewCache(4)
	h := sampleHands(t)
	all := Compute(&h)
	root1 := c.GetOrCreate(1, all, 13)
	root1.Insert(all, Bounds{3, 3})

	// A different hash that maps to the same slot must unconditionally
	// replace the stored root (direct-mapped, no chaining).
	// The slot index is the hash's top 4 bits, so 2 shares slot 0 with 1.
	collidingHash := uint64(2)
	root2 := c.GetOrCreate(collidingHash, all, 13)
	if root2 == root1 {
		t.Fatal("expected a fresh root on tag mismatch")
	}
	if _, ok := c.Lookup(1); ok {
		t.Error("old entry should have been evicted by direct-mapped replacement")
	}
}
