package pattern

import "github.com/hailam-chessplay/bridge-solver/internal/deal"

// Pattern is one node of the hierarchical, shape-keyed bounds tree. A
// node's Hands record the rank-relevant relative-hand bits the search
// actually depended on; its Children are patterns whose Hands are a
// subset of this node's Hands, and siblings are incomparable (neither's
// Hands is a subset of the other's). Insert does not check that a
// child's Bounds are tighter than its parent's.
type Pattern struct {
	Hands    RelativeHands
	Bounds   Bounds
	Children []*Pattern
}

// isSubsetRH reports whether a's relative-hand bits, seat by seat, are
// entirely contained within b's — the structural relation the pattern
// tree is built on. A query position "matches" a stored node when the
// query (which shrinks as the game proceeds and cards leave play) is a
// subset of what the node recorded as mattering.
func isSubsetRH(a, b RelativeHands) bool {
	for seat := deal.West; seat < deal.NumSeats; seat++ {
		if a.Hand(seat).Different(b.Hand(seat)) != 0 {
			return false
		}
	}
	return true
}

func equalRH(a, b RelativeHands) bool {
	for seat := deal.West; seat < deal.NumSeats; seat++ {
		if a.Hand(seat) != b.Hand(seat) {
			return false
		}
	}
	return true
}

// NewRoot creates the sentinel root of a fresh shape entry: it matches
// any probe (Lookup and Insert only ever test its children's Hands,
// never its own) with the weakest possible bounds.
func NewRoot(all RelativeHands, tricksRemaining int8) *Pattern {
	return &Pattern{Hands: all, Bounds: Bounds{0, tricksRemaining}}
}

// Lookup descends the tree from root, returning the tightest matching
// Bounds and the RelativeHands of the deepest node that matched, plus
// whether that node alone settles the null-window search at beta.
func (root *Pattern) Lookup(probe RelativeHands, beta int8) (best Bounds, bestHands RelativeHands, cutoff bool) {
	node := root
	best = root.Bounds
	bestHands = root.Hands
	for {
		advanced := false
		for _, child := range node.Children {
			if !isSubsetRH(probe, child.Hands) {
				continue
			}
			best = child.Bounds
			bestHands = child.Hands
			if child.Bounds.Cutoff(beta) {
				return best, bestHands, true
			}
			node = child
			advanced = true
			break
		}
		if !advanced {
			return best, bestHands, false
		}
	}
}

// Insert stores a newly-solved (hands, bounds) pair into the tree
// rooted at root, rebalancing so the parent/child invariants hold:
// subsumed siblings (whose Hands the new node's Hands is a superset of)
// are absorbed as its children; a sibling that already subsumes the new
// node receives the insert recursively instead; children whose bounds
// become identical to their parent's after an update collapse away.
func (root *Pattern) Insert(hands RelativeHands, bounds Bounds) {
	insertInto(root, hands, bounds)
	collapseEqualBounds(root)
}

func insertInto(parent *Pattern, hands RelativeHands, bounds Bounds) {
	for _, child := range parent.Children {
		if equalRH(child.Hands, hands) {
			child.Bounds = child.Bounds.Intersect(bounds)
			return
		}
		if isSubsetRH(hands, child.Hands) {
			// hands is more specific than child: recurse into it.
			insertInto(child, hands, bounds)
			return
		}
	}

	newNode := &Pattern{Hands: hands, Bounds: bounds}

	// Absorb any existing sibling whose Hands are subsumed by (a subset
	// of) the new, more general node.
	remaining := parent.Children[:0]
	for _, child := range parent.Children {
		if isSubsetRH(child.Hands, hands) {
			newNode.Children = append(newNode.Children, child)
		} else {
			remaining = append(remaining, child)
		}
	}
	parent.Children = append(remaining, newNode)
}

// collapseEqualBounds removes a leaf child whose Bounds exactly equal
// its parent's: it carries no information the parent does not already
// have. A child that has children of its own is kept.
func collapseEqualBounds(node *Pattern) {
	kept := node.Children[:0]
	for _, child := range node.Children {
		collapseEqualBounds(child)
		if child.Bounds == node.Bounds && len(child.Children) == 0 {
			continue
		}
		kept = append(kept, child)
	}
	node.Children = kept
}
