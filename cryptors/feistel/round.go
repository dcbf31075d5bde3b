package feistel

import (
	"github.com/bgallie/f42/cryptors"
	"github.com/bgallie/f42/cryptors/bitops"
	"github.com/bgallie/f42/cryptors/tables"
)

// F is the round function.  The half-block is expanded to 88 bits, mixed
// with the round key, pushed through the eight S-boxes 11 bits at a time and
// finally permuted twice.
func F(half cryptors.Half, rk cryptors.RoundKey, t *tables.Tables) cryptors.Half {
	var mixed [cryptors.RoundKeyBytes]byte
	expansion := t.Expansion()
	bitops.Permute(mixed[:], half[:], expansion[:])
	bitops.Xor(mixed[:], mixed[:], rk[:])

	// SBoxOutputBits is 8, so S-box i fills byte i of the result.
	var substituted cryptors.Half
	for box := 0; box < cryptors.NumberOfSBoxes; box++ {
		row, col := sboxIndex(mixed[:], uint(box*cryptors.SBoxInputBits))
		substituted[box] = t.Lookup(box, row, col)
	}

	var permuted, out cryptors.Half
	fp1, fp2 := t.FinalPermutations()
	bitops.Permute(permuted[:], substituted[:], fp1[:])
	bitops.Permute(out[:], permuted[:], fp2[:])
	return out
}

// sboxIndex reads the 11 bit chunk starting at bit start.  Bits at even
// offsets (0, 2, .., 10) form the 6 bit row and bits at odd offsets form the
// 5 bit column, each read left to right.
func sboxIndex(ary []byte, start uint) (row, col int) {
	for i := uint(0); i < cryptors.SBoxInputBits; i++ {
		bit := 0
		if bitops.GetBit(ary, start+i) {
			bit = 1
		}

		if i%2 == 0 {
			row = row<<1 | bit
		} else {
			col = col<<1 | bit
		}
	}

	return
}
