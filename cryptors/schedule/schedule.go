// schedule
//
// Package schedule derives the 42 round keys of F42 from a 128 bit key.
//
// Every round key is computed from the same 100 bit reduced key: round r
// rotates both 50 bit halves of the reduced key by Shifts[r] and compresses
// the result with PCK.  Rotations do not carry over from one round to the
// next as they do in DES, so changing the shift of one round changes only
// that round's key.
package schedule

import (
	"github.com/bgallie/f42/cryptors"
	"github.com/bgallie/f42/cryptors/bitops"
	"github.com/bgallie/f42/cryptors/tables"
)

const halfReducedSize = cryptors.ReducedKeySize / 2

// ReducedKey is the 100 bit key left after PC1, PC2 and PC3.  The last four
// bits of the array are always zero.
type ReducedKey [cryptors.ReducedKeyBytes]byte

func (rk ReducedKey) String() string {
	return bitops.String(rk[:], cryptors.ReducedKeySize)
}

// Reduce applies PC1, PC2 and PC3 to key.
func Reduce(key cryptors.Key, t *tables.Tables) ReducedKey {
	var k116 [(cryptors.PC1Size + 7) / 8]byte
	var k108 [(cryptors.PC2Size + 7) / 8]byte
	var k100 ReducedKey

	pc1, pc2, pc3 := t.PC1(), t.PC2(), t.PC3()
	bitops.Permute(k116[:], key[:], pc1[:])
	bitops.Permute(k108[:], k116[:], pc2[:])
	bitops.Permute(k100[:], k108[:], pc3[:])
	return k100
}

// RoundKey rotates each half of reduced left by shift and compresses the
// result to 88 bits with PCK.
func RoundKey(reduced ReducedKey, shift int, t *tables.Tables) cryptors.RoundKey {
	var rk cryptors.RoundKey

	bitops.RotateLeft(reduced[:], 0, halfReducedSize, uint(shift))
	bitops.RotateLeft(reduced[:], halfReducedSize, halfReducedSize, uint(shift))
	pck := t.PCK()
	bitops.Permute(rk[:], reduced[:], pck[:])
	return rk
}

// Derive returns the round keys for key in round order.
func Derive(key cryptors.Key, t *tables.Tables) cryptors.RoundKeys {
	var keys cryptors.RoundKeys

	reduced := Reduce(key, t)
	for r, shift := range t.Shifts() {
		// reduced is passed by value; every round starts from the same bits.
		keys[r] = RoundKey(reduced, shift, t)
	}

	return keys
}
