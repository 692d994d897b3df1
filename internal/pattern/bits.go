package pattern

import "github.com/hailam-chessplay/bridge-solver/internal/cards"

// packBits gathers the bits of value selected by mask into the low end of
// the result, in ascending bit order — the PEXT operation. unpackBits is
// its inverse (PDEP): it scatters the low bits of value back out across
// the positions mask selects.
//
// Go has no portable PEXT/PDEP intrinsic exposed by the standard library
// (unlike the BMI2 hardware instructions the original solver could
// target), so both are implemented by iterated low-bit isolation, which
// is the software fallback the algorithm always falls back to on
// non-BMI2 hardware; the semantics are identical either way.
func packBits(value, mask uint64) uint64 {
	var result uint64
	var bitPos uint
	for m := mask; m != 0; {
		lsb := m & (-m)
		if value&lsb != 0 {
			result |= 1 << bitPos
		}
		bitPos++
		m &^= lsb
	}
	return result
}

func unpackBits(value, mask uint64) uint64 {
	var result uint64
	var bitPos uint
	for m := mask; m != 0; {
		lsb := m & (-m)
		if value&(1<<bitPos) != 0 {
			result |= lsb
		}
		bitPos++
		m &^= lsb
	}
	return result
}

// PackCards and UnpackCards are the cards.Cards-typed wrappers used by
// RelativeHands.
func PackCards(value, mask cards.Cards) cards.Cards {
	return cards.Cards(packBits(uint64(value), uint64(mask)))
}

func UnpackCards(value, mask cards.Cards) cards.Cards {
	return cards.Cards(unpackBits(uint64(value), uint64(mask)))
}
