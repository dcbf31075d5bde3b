// cryptor
//
// Package cryptors holds the fixed-width values shared by the F42 table
// generator, key schedule and Feistel engine, together with the channel based
// machine used to push blocks through a Crypter.
package cryptors

import (
	"errors"
	"fmt"

	"github.com/bgallie/f42/cryptors/bitops"
)

const (
	BitsPerByte = 8

	BlockSize  = 128
	BlockBytes = BlockSize / BitsPerByte
	HalfSize   = BlockSize / 2
	HalfBytes  = HalfSize / BitsPerByte
	KeySize    = 128
	KeyBytes   = KeySize / BitsPerByte

	// Widths of the key after each of the three initial compressions.
	PC1Size         = 116
	PC2Size         = 108
	PC3Size         = 100
	ReducedKeySize  = PC3Size
	ReducedKeyBytes = (ReducedKeySize + BitsPerByte - 1) / BitsPerByte

	RoundKeySize   = 88
	RoundKeyBytes  = RoundKeySize / BitsPerByte
	NumberOfRounds = 42
	ExpansionSize  = RoundKeySize

	NumberOfSBoxes = 8
	SBoxRows       = 64
	SBoxColumns    = 32
	SBoxInputBits  = ExpansionSize / NumberOfSBoxes // 6 row bits + 5 column bits
	SBoxOutputBits = HalfSize / NumberOfSBoxes
)

var (
	// ShiftAmounts are the rotation amounts a round of the key schedule may use.
	ShiftAmounts = [...]int{1, 2, 3, 5}

	// ErrLengthMismatch is returned when a key, block or half-block does not
	// have exactly the width the cipher requires.
	ErrLengthMismatch  = errors.New("length mismatch")
	// ErrTableGeneration is returned when a generated table is malformed.
	// It is a configuration error and retrying with the same seed fails again.
	ErrTableGeneration = errors.New("table generation failure")
)

type (
	Block     [BlockBytes]byte
	Key       [KeyBytes]byte
	Half      [HalfBytes]byte
	RoundKey  [RoundKeyBytes]byte
	RoundKeys [NumberOfRounds]RoundKey
)

// NewBlock copies b into a Block.  b must be exactly 16 bytes long.
func NewBlock(b []byte) (Block, error) {
	var blk Block
	if len(b) != BlockBytes {
		return blk, lengthError("block", BlockSize, len(b)*BitsPerByte)
	}

	copy(blk[:], b)
	return blk, nil
}

// NewKey copies b into a Key.  b must be exactly 16 bytes long.
func NewKey(b []byte) (Key, error) {
	var key Key
	if len(b) != KeyBytes {
		return key, lengthError("key", KeySize, len(b)*BitsPerByte)
	}

	copy(key[:], b)
	return key, nil
}

// NewHalf copies b into a Half.  b must be exactly 8 bytes long.
func NewHalf(b []byte) (Half, error) {
	var h Half
	if len(b) != HalfBytes {
		return h, lengthError("half-block", HalfSize, len(b)*BitsPerByte)
	}

	copy(h[:], b)
	return h, nil
}

// ParseBlock builds a Block from a string of 128 '0' and '1' characters.
func ParseBlock(bits string) (Block, error) {
	if len(bits) != BlockSize {
		return Block{}, lengthError("block", BlockSize, len(bits))
	}

	b, err := bitops.Parse(bits)
	if err != nil {
		return Block{}, err
	}

	return NewBlock(b)
}

// ParseKey builds a Key from a string of 128 '0' and '1' characters.
func ParseKey(bits string) (Key, error) {
	if len(bits) != KeySize {
		return Key{}, lengthError("key", KeySize, len(bits))
	}

	b, err := bitops.Parse(bits)
	if err != nil {
		return Key{}, err
	}

	return NewKey(b)
}

func lengthError(what string, want, got int) error {
	return fmt.Errorf("%w: %s must be %d bits, got %d", ErrLengthMismatch, what, want, got)
}

// Halves splits the block into its first and last 64 bits.
func (blk Block) Halves() (left, right Half) {
	copy(left[:], blk[:HalfBytes])
	copy(right[:], blk[HalfBytes:])
	return
}

// Join concatenates two halves into a block, first then second.
func Join(first, second Half) Block {
	var blk Block
	copy(blk[:HalfBytes], first[:])
	copy(blk[HalfBytes:], second[:])
	return blk
}

func (blk Block) String() string {
	return bitops.String(blk[:], BlockSize)
}

func (key Key) String() string {
	return bitops.String(key[:], KeySize)
}

func (h Half) String() string {
	return bitops.String(h[:], HalfSize)
}

func (rk RoundKey) String() string {
	return bitops.String(rk[:], RoundKeySize)
}
