package solve

import (
	"github.com/hailam-chessplay/bridge-solver/internal/cards"
	"github.com/hailam-chessplay/bridge-solver/internal/deal"
	"github.com/hailam-chessplay/bridge-solver/internal/pattern"
)

// searchResult is what every recursive layer returns: the NS trick
// count the subtree proves (relative to a null-window beta) and the set
// of cards whose specific rank influenced that proof (spec.md §4.7).
type searchResult struct {
	tricks      int8
	rankWinners cards.Cards
}

// Search owns one solve's mutable state: the live hands (mutated in
// place by play/unplay) and the two caches it borrows for the whole
// MTD(f) sequence.
type Search struct {
	hands   deal.Hands
	trump   cards.Suit
	cutoff  *CutoffCache
	pattern *pattern.Cache
}

// NewSearch creates a Search over hands for trump, borrowing cutoff and
// patternCache for its whole lifetime (they are not thread-safe and must
// not be shared with a concurrently-running Search).
func NewSearch(h deal.Hands, trump cards.Suit, cutoff *CutoffCache, patternCache *pattern.Cache) *Search {
	return &Search{hands: h, trump: trump, cutoff: cutoff, pattern: patternCache}
}

// Run performs one null-window search from seatToPlay on lead with
// nsTricksWon already credited, returning the proven NS trick count.
func (s *Search) Run(beta int8, nsTricksWon int8, seatToPlay deal.Seat) int8 {
	return s.searchWithCache(nsTricksWon, seatToPlay, nil, 0, beta).tricks
}

// RunFromPartialTrick resumes mid-trick: trick already holds the cards
// played so far this round (1-3 plays), leadSuit is the suit that trick
// opened with, and seatToPlay is whoever plays next.
func (s *Search) RunFromPartialTrick(beta int8, nsTricksWon int8, seatToPlay deal.Seat, trick []cardPlay, leadSuit cards.Suit) int8 {
	return s.searchWithCache(nsTricksWon, seatToPlay, trick, leadSuit, beta).tricks
}

func (s *Search) remainingTricks(all cards.Cards) int {
	return all.Size() / 4
}

// searchWithCache is Layer A: trick-boundary handling, early bound
// checks, and pattern-cache lookup/store.
func (s *Search) searchWithCache(nsTricksWon int8, seatToPlay deal.Seat, trick []cardPlay, leadSuit cards.Suit, beta int8) searchResult {
	if len(trick) > 0 {
		// Mid-trick: carry forward and go straight to card enumeration.
		// Bounds are only checked at trick starts, where remainingTricks
		// is exact; mid-trick there is no well-defined "tricks left"
		// count to bound against.
		return s.evaluatePlayableCards(nsTricksWon, seatToPlay, trick, leadSuit, beta)
	}

	all := s.hands.AllCards()
	remaining := int8(s.remainingTricks(all))

	if nsTricksWon >= beta {
		return searchResult{nsTricksWon, 0}
	}
	if nsTricksWon+remaining < beta {
		return searchResult{nsTricksWon + remaining, 0}
	}

	if remaining == 1 {
		return s.collectLastTrick(nsTricksWon, seatToPlay, beta)
	}

	if !ttEnabled() {
		return s.searchAtTrickStart(nsTricksWon, seatToPlay, all, remaining, beta)
	}

	shape := pattern.NewShape(&s.hands)
	rel := pattern.Compute(&s.hands)
	hash := pattern.Hash(shape, seatToPlay)
	root := s.pattern.GetOrCreate(hash, rel, remaining)

	relBeta := beta - nsTricksWon
	bounds, matchedHands, cutoff := root.Lookup(rel, relBeta)
	if cutoff {
		var tricks int8
		if bounds.Lower >= relBeta {
			tricks = nsTricksWon + bounds.Lower
		} else {
			tricks = nsTricksWon + bounds.Upper
		}
		return searchResult{tricks, expandRankRelevant(matchedHands, all)}
	}

	res := s.searchAtTrickStart(nsTricksWon, seatToPlay, all, remaining, beta)
	relTricks := res.tricks - nsTricksWon
	var newBounds pattern.Bounds
	if res.tricks < beta {
		newBounds = pattern.Bounds{Lower: 0, Upper: relTricks}
	} else {
		newBounds = pattern.Bounds{Lower: relTricks, Upper: remaining}
	}
	filtered := filterToRankRelevant(rel, res.rankWinners, all)
	root.Insert(filtered, newBounds)
	return searchResult{res.tricks, expandRankRelevant(filtered, all)}
}

// searchAtTrickStart is Layer B: fast/slow trick pruning at a fresh
// trick boundary.
func (s *Search) searchAtTrickStart(nsTricksWon int8, seatToPlay deal.Seat, all cards.Cards, remaining int8, beta int8) searchResult {
	if pruningEnabled() {
		onLeadIsNS := deal.IsNS(seatToPlay)
		fast := int8(fastTricks(&s.hands, seatToPlay, all))
		if s.trump != cards.NoTrump {
			// Side-suit winners can be ruffed; only the trump run is sure.
			fast = int8(topRun(s.hands.Hand(seatToPlay).Suit(s.trump), all.Suit(s.trump)))
		}
		slow := int8(slowTricksForOpponents(&s.hands, seatToPlay, s.trump, all))
		if onLeadIsNS {
			if nsTricksWon+fast >= beta {
				return searchResult{nsTricksWon + fast, 0}
			}
			if nsTricksWon+remaining-slow < beta {
				return searchResult{nsTricksWon + remaining - slow, 0}
			}
		} else {
			if nsTricksWon+remaining-fast < beta {
				return searchResult{nsTricksWon + remaining - fast, 0}
			}
			if nsTricksWon+slow >= beta {
				return searchResult{nsTricksWon + slow, 0}
			}
		}
	}
	return s.evaluatePlayableCards(nsTricksWon, seatToPlay, nil, 0, beta)
}

// collectLastTrick resolves the forced single-card-each final trick
// directly, without going through the general card loop.
func (s *Search) collectLastTrick(nsTricksWon int8, seatToPlay deal.Seat, beta int8) searchResult {
	var trick []cardPlay
	var leadSuit cards.Suit
	seat := seatToPlay
	var rankWinners cards.Cards
	for i := 0; i < 4; i++ {
		card := s.hands.Hand(seat)
		if i == 0 {
			leadSuit = cards.SuitOf(winningBit(card))
		}
		trick = append(trick, cardPlay{card, seat})
		s.hands.SetHand(seat, 0)
		seat = deal.Next(seat)
	}
	winnerIdx := trickWinner(trick, leadSuit, s.trump)
	for i, p := range trick {
		if i == winnerIdx {
			continue
		}
		if cards.SuitOf(winningBit(p.card)) == leadSuit {
			rankWinners = rankWinners.Add(trick[winnerIdx].card).Add(p.card)
		}
	}
	for _, p := range trick {
		s.hands.SetHand(p.seat, s.hands.Hand(p.seat).Add(p.card))
	}
	if deal.IsNS(trick[winnerIdx].seat) {
		nsTricksWon++
	}
	return searchResult{nsTricksWon, rankWinners}
}

// evaluatePlayableCards is Layer C: enumerate the legal cards, consult
// the cutoff cache for a preferred first try, move-order the rest, and
// recurse with rank-skip and equivalence suppression.
func (s *Search) evaluatePlayableCards(nsTricksWon int8, seatToPlay deal.Seat, trick []cardPlay, leadSuit cards.Suit, beta int8) searchResult {
	hasLead := len(trick) > 0
	playable := playableCards(&s.hands, seatToPlay, leadSuit, hasLead)

	var winningCard cards.Cards
	var winningSeat deal.Seat
	if hasLead {
		wi := trickWinner(trick, leadSuit, s.trump)
		winningCard = trick[wi].card
		winningSeat = trick[wi].seat
	}

	hash := HashContext(playable, winningCard, winningSeat, len(trick))
	order := make([]cards.Cards, 0, playable.Size())
	seen := cards.Cards(0)
	if cached, ok := s.cutoff.Lookup(hash, seatToPlay); ok && playable.Have(cached) {
		order = append(order, cached)
		seen = seen.Add(cached)
	}
	var rest []cards.Cards
	if !hasLead {
		rest = orderLeads(&s.hands, seatToPlay, playable, s.trump, s.hands.AllCards())
	} else {
		hasLeadSuit := !s.hands.Hand(seatToPlay).Suit(leadSuit).Empty()
		rest = orderFollows(&s.hands, seatToPlay, playable, s.hands.Hand(seatToPlay).Suit(leadSuit), leadSuit, s.trump, winningCard, winningSeat, hasLeadSuit)
	}
	for _, c := range rest {
		if !seen.Have(c) {
			order = append(order, c)
			seen = seen.Add(c)
		}
	}

	maximizing := deal.IsNS(seatToPlay)
	var minRelevantRank [cards.NumSuits]int
	var triedInSuit [cards.NumSuits][]int
	var best *searchResult
	var bestCard cards.Cards
	var accumulated cards.Cards

	for _, card := range order {
		idx := winningBit(card)
		suit := cards.SuitOf(idx)
		rank := cards.RankOf(idx)

		if rankSkipEnabled() {
			if int(rank) < minRelevantRank[suit] {
				continue
			}
			if isEquivalent(idx, triedInSuit[suit], s.hands.AllCards().Different(s.hands.Hand(seatToPlay)).Suit(suit)) {
				continue
			}
		}

		bumpNodeCount()
		res := s.playCardAndSearch(nsTricksWon, seatToPlay, trick, leadSuit, hasLead, card, beta)
		accumulated = accumulated.Union(res.rankWinners)
		triedInSuit[suit] = append(triedInSuit[suit], idx)

		if best == nil || (maximizing && res.tricks > best.tricks) || (!maximizing && res.tricks < best.tricks) {
			best = &searchResult{res.tricks, res.rankWinners}
			bestCard = card
		}

		if res.rankWinners.Suit(suit).Empty() {
			minRelevantRank[suit] = int(cards.NumRanks)
		} else {
			minRelevantRank[suit] = int(lowestRankInSuit(res.rankWinners, suit))
		}

		if maximizing && best.tricks >= beta {
			s.cutoff.Store(hash, seatToPlay, bestCard)
			return searchResult{best.tricks, accumulated}
		}
		if !maximizing && best.tricks < beta {
			s.cutoff.Store(hash, seatToPlay, bestCard)
			return searchResult{best.tricks, accumulated}
		}
	}
	if best == nil {
		// No legal card: should not happen given remaining>0, but stay total.
		return searchResult{nsTricksWon, 0}
	}
	return searchResult{best.tricks, accumulated}
}

// playCardAndSearch plays card from seatToPlay's hand, recurses one ply,
// and restores the hand on every return path.
func (s *Search) playCardAndSearch(nsTricksWon int8, seatToPlay deal.Seat, trick []cardPlay, leadSuit cards.Suit, hasLead bool, card cards.Cards, beta int8) searchResult {
	s.hands.SetHand(seatToPlay, s.hands.Hand(seatToPlay).Remove(card))
	defer s.hands.SetHand(seatToPlay, s.hands.Hand(seatToPlay).Add(card))

	newTrick := append(append([]cardPlay{}, trick...), cardPlay{card, seatToPlay})
	newLeadSuit := leadSuit
	if !hasLead {
		newLeadSuit = cards.SuitOf(winningBit(card))
	}

	if len(newTrick) < 4 {
		return s.searchWithCache(nsTricksWon, deal.Next(seatToPlay), newTrick, newLeadSuit, beta)
	}

	// Trick complete: resolve winner, credit NS, continue from there.
	winnerIdx := trickWinner(newTrick, newLeadSuit, s.trump)
	winnerSeat := newTrick[winnerIdx].seat
	var rankWinners cards.Cards
	for i, p := range newTrick {
		if i == winnerIdx {
			continue
		}
		if cards.SuitOf(winningBit(p.card)) == newLeadSuit {
			rankWinners = rankWinners.Add(newTrick[winnerIdx].card).Add(p.card)
		}
	}
	nextNS := nsTricksWon
	if deal.IsNS(winnerSeat) {
		nextNS++
	}
	res := s.searchWithCache(nextNS, winnerSeat, nil, 0, beta)
	return searchResult{res.tricks, res.rankWinners.Union(rankWinners)}
}

// isEquivalent reports whether playing the card at idx is provably the
// same, game-theoretically, as one already tried in the same suit: true
// when the gap in bit-index space between idx and some tried index
// contains no card held by anyone but the mover (partner's cards count
// as "someone else's" here, same as an opponent's — only cards the
// mover itself still holds, or has already played from this suit, may
// occupy the gap).
func isEquivalent(idx int, tried []int, othersSuit cards.Cards) bool {
	for _, t := range tried {
		lo, hi := idx, t
		if lo > hi {
			lo, hi = hi, lo
		}
		gap := othersSuit.Slice(lo+1, hi)
		if gap.Empty() {
			return true
		}
	}
	return false
}

func lowestRankInSuit(c cards.Cards, suit cards.Suit) cards.Rank {
	suited := c.Suit(suit)
	if suited.Empty() {
		return 0
	}
	bottom := suited.Bottom()
	return cards.RankOf(winningBit(bottom))
}

// filterToRankRelevant reduces rel to the cards at or above (in rank
// terms) the lowest rank-winner per suit — the mechanism spec.md §4.7
// relies on to make positions that differ only in irrelevant spot cards
// pattern-equal. The kept set is not extended below that winner, and a
// suit with no rank winner keeps no cards. With no rank winners at all,
// rel is returned unchanged.
func filterToRankRelevant(rel pattern.RelativeHands, rankWinners cards.Cards, all cards.Cards) pattern.RelativeHands {
	if rankWinners.Empty() {
		return rel
	}
	var relevant cards.Cards
	for suit := cards.Spade; suit < cards.NumSuits; suit++ {
		winners := rankWinners.Suit(suit)
		if winners.Empty() {
			continue
		}
		bottomWinner := winners.Bottom()
		idx := winningBit(bottomWinner)
		// Convert the actual-card mask into rel's packed per-suit layout.
		base := uint(suit) * uint(cards.NumRanks)
		relevant = relevant.Union(pattern.PackCards(all.Suit(suit).Slice(0, idx+1), all.Suit(suit)) << base)
	}
	return intersectRelativeHands(rel, relevant)
}

func intersectRelativeHands(rel pattern.RelativeHands, mask cards.Cards) pattern.RelativeHands {
	var hands [deal.NumSeats]cards.Cards
	for seat := deal.West; seat < deal.NumSeats; seat++ {
		hands[seat] = rel.Hand(seat).Intersect(mask)
	}
	return pattern.FromHands(hands)
}

// expandRankRelevant translates a pattern-cache match's filtered
// relative hands back into actual rank winners for the caller.
func expandRankRelevant(rel pattern.RelativeHands, all cards.Cards) cards.Cards {
	var packed cards.Cards
	for seat := deal.West; seat < deal.NumSeats; seat++ {
		packed = packed.Union(rel.Hand(seat))
	}
	var out cards.Cards
	for suit := cards.Spade; suit < cards.NumSuits; suit++ {
		base := uint(suit) * uint(cards.NumRanks)
		out = out.Union(pattern.UnpackCards(packed.Suit(suit)>>base, all.Suit(suit)))
	}
	return out
}
