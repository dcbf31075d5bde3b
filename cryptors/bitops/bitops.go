// bitops project bitops.go
//
// Bits are numbered from the most significant bit of ary[0], so bit 0 is the
// leftmost bit of the sequence and bit 8 is the leftmost bit of ary[1].
package bitops

import (
	"fmt"
	"strings"
)

func SetBit(ary []byte, bit uint) []byte {
	ary[bit>>3] |= (0x80 >> (bit & 7))
	return ary
}

func ClrBit(ary []byte, bit uint) []byte {
	ary[bit>>3] &= ^byte(0x80 >> (bit & 7))
	return ary
}

func GetBit(ary []byte, bit uint) bool {
	return (ary[bit>>3]&(0x80>>(bit&7)) != 0)
}

func PutBit(ary []byte, bit uint, val bool) []byte {
	if val {
		return SetBit(ary, bit)
	}

	return ClrBit(ary, bit)
}

// Permute sets bit i of dst to bit table[i] of src.  dst is cleared first so
// any bits beyond len(table) are left zero.  Used both for permutations and
// for compressions (len(table) smaller than the width of src).
func Permute(dst, src []byte, table []int) []byte {
	for i := range dst {
		dst[i] = 0
	}

	for i, v := range table {
		if GetBit(src, uint(v)) {
			SetBit(dst, uint(i))
		}
	}

	return dst
}

// Xor stores a ^ b in dst, byte by byte.  dst may alias a or b.
func Xor(dst, a, b []byte) []byte {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}

	return dst
}

// Uint returns the n bits (n <= 64) starting at bit start as an unsigned
// integer, the first bit being the most significant.
func Uint(ary []byte, start, n uint) uint64 {
	var v uint64

	for i := uint(0); i < n; i++ {
		v <<= 1
		if GetBit(ary, start+i) {
			v |= 1
		}
	}

	return v
}

// PutUint stores the low n bits of v at bit start, most significant first.
func PutUint(ary []byte, start, n uint, v uint64) []byte {
	for i := uint(0); i < n; i++ {
		PutBit(ary, start+i, v&(1<<(n-1-i)) != 0)
	}

	return ary
}

// RotateLeft rotates the n bit field (n <= 64) beginning at bit start left by
// shift positions.  Bits leaving the left end of the field re-enter on the
// right; bits outside the field are not touched.
func RotateLeft(ary []byte, start, n, shift uint) []byte {
	if n == 0 {
		return ary
	}

	mask := uint64(1)<<n - 1
	shift %= n
	v := Uint(ary, start, n)
	v = ((v << shift) | (v >> (n - shift))) & mask
	return PutUint(ary, start, n, v)
}

// String renders the first n bits of ary as a string of '0' and '1'.
func String(ary []byte, n uint) string {
	var sb strings.Builder
	sb.Grow(int(n))

	for i := uint(0); i < n; i++ {
		if GetBit(ary, i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// Parse converts a string of '0' and '1' into packed bytes.  The last byte is
// zero filled on the right when len(s) is not a multiple of 8.
func Parse(s string) ([]byte, error) {
	ary := make([]byte, (len(s)+7)/8)

	for i, c := range []byte(s) {
		switch c {
		case '0':
		case '1':
			SetBit(ary, uint(i))
		default:
			return nil, fmt.Errorf("bitops: invalid bit %q at position %d", c, i)
		}
	}

	return ary, nil
}
