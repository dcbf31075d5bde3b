// tables project tables.go
//
// Package tables builds every fixed table F42 needs (key compressions, shift
// amounts, the expansion table, S-boxes and the final permutations) from a
// single seed.  A Tables value never changes after Initialize returns it, so
// one value may be shared by any number of goroutines.
package tables

import (
	"errors"
	"fmt"
	"math/rand"

	mtwist "blitter.com/go/mtwist"
	"github.com/bgallie/f42/cryptors"
)

// ErrInvalidShift is returned by WithShift for a round outside [0, 42) or an
// amount that is not one of cryptors.ShiftAmounts.
var ErrInvalidShift = errors.New("invalid shift")

// expansionTable maps the 88 expanded positions onto the 64 bit half-block.
// None of its eight 11 element groups repeats a source index.
var expansionTable = [cryptors.ExpansionSize]int{
	36, 32, 49, 34, 5, 60, 38, 53, 29, 27, 1,
	6, 44, 14, 17, 8, 50, 26, 31, 25, 58, 7,
	47, 2, 61, 5, 41, 13, 40, 3, 10, 48, 12,
	28, 4, 59, 9, 51, 46, 6, 16, 63, 35, 56,
	29, 23, 11, 43, 30, 42, 1, 45, 55, 22, 18,
	21, 24, 19, 0, 20, 37, 62, 33, 54, 39, 52,
	22, 63, 43, 15, 6, 12, 57, 32, 9, 26, 1,
	8, 2, 37, 33, 28, 14, 51, 13, 10, 42, 55}

// SBox is one substitution table, indexed [row][column].
type SBox [cryptors.SBoxRows][cryptors.SBoxColumns]byte

// Tables is the immutable set of tables generated from one seed.
type Tables struct {
	seed      int64
	pc1       [cryptors.PC1Size]int
	pc2       [cryptors.PC2Size]int
	pc3       [cryptors.PC3Size]int
	pck       [cryptors.RoundKeySize]int
	shifts    [cryptors.NumberOfRounds]int
	expansion [cryptors.ExpansionSize]int
	sboxes    [cryptors.NumberOfSBoxes]SBox
	fp1       [cryptors.HalfSize]int
	fp2       [cryptors.HalfSize]int
}

// newRand returns a math/rand generator driven by a 64 bit Mersenne Twister
// seeded with seed.  The stream is identical on every platform and run.
func newRand(seed int64) *rand.Rand {
	mt := mtwist.New()
	mt.Seed(seed)
	return rand.New(mt)
}

// Initialize generates the tables for seed.  The same seed always yields
// byte-identical tables.
func Initialize(seed int64) (*Tables, error) {
	var t Tables
	t.seed = seed
	rng := newRand(seed)

	steps := []struct {
		dst []int
		in  int
	}{
		{t.pc1[:], cryptors.KeySize},
		{t.pc2[:], cryptors.PC1Size},
		{t.pc3[:], cryptors.PC2Size},
		{t.pck[:], cryptors.PC3Size},
	}
	for _, s := range steps {
		compression(rng, s.dst, s.in)
	}

	for i := range t.shifts {
		t.shifts[i] = cryptors.ShiftAmounts[rng.Intn(len(cryptors.ShiftAmounts))]
	}

	t.expansion = expansionTable

	for b := range t.sboxes {
		for r := range t.sboxes[b] {
			for c := range t.sboxes[b][r] {
				t.sboxes[b][r][c] = byte(rng.Intn(256))
			}
		}
	}

	compression(rng, t.fp1[:], cryptors.HalfSize)
	compression(rng, t.fp2[:], cryptors.HalfSize)

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return &t, nil
}

// compression fills dst with the first len(dst) entries of a shuffled
// identity sequence of length in.  When len(dst) == in the result is a
// permutation.
func compression(rng *rand.Rand, dst []int, in int) {
	idx := make([]int, in)
	for i := range idx {
		idx[i] = i
	}

	rng.Shuffle(len(idx), func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
	copy(dst, idx)
}

// Validate reports the first malformed table, wrapped in
// cryptors.ErrTableGeneration.
func (t *Tables) Validate() error {
	checks := []struct {
		name  string
		table []int
		in    int
	}{
		{"PC1", t.pc1[:], cryptors.KeySize},
		{"PC2", t.pc2[:], cryptors.PC1Size},
		{"PC3", t.pc3[:], cryptors.PC2Size},
		{"PCK", t.pck[:], cryptors.PC3Size},
		{"final permutation 1", t.fp1[:], cryptors.HalfSize},
		{"final permutation 2", t.fp2[:], cryptors.HalfSize},
	}
	for _, c := range checks {
		if err := distinct(c.table, c.in); err != nil {
			return fmt.Errorf("%w: %s: %v", cryptors.ErrTableGeneration, c.name, err)
		}
	}

	for r, s := range t.shifts {
		if !validShift(s) {
			return fmt.Errorf("%w: shift for round %d is %d", cryptors.ErrTableGeneration, r, s)
		}
	}

	for g := 0; g < cryptors.NumberOfSBoxes; g++ {
		group := t.expansion[g*cryptors.SBoxInputBits : (g+1)*cryptors.SBoxInputBits]
		if err := distinct(group, cryptors.HalfSize); err != nil {
			return fmt.Errorf("%w: expansion group %d: %v", cryptors.ErrTableGeneration, g, err)
		}
	}

	return nil
}

// distinct checks that every entry of table is in [0, in) and appears once.
func distinct(table []int, in int) error {
	seen := make([]bool, in)
	for i, v := range table {
		if v < 0 || v >= in {
			return fmt.Errorf("entry %d is %d, outside [0, %d)", i, v, in)
		}
		if seen[v] {
			return fmt.Errorf("index %d repeated at entry %d", v, i)
		}
		seen[v] = true
	}

	return nil
}

func validShift(s int) bool {
	for _, v := range cryptors.ShiftAmounts {
		if s == v {
			return true
		}
	}

	return false
}

// WithShift returns a copy of t whose key schedule rotates round's halves by
// amount.  t itself is not modified.
func (t *Tables) WithShift(round, amount int) (*Tables, error) {
	if round < 0 || round >= cryptors.NumberOfRounds {
		return nil, fmt.Errorf("%w: round %d outside [0, %d)", ErrInvalidShift, round, cryptors.NumberOfRounds)
	}
	if !validShift(amount) {
		return nil, fmt.Errorf("%w: amount %d not in %v", ErrInvalidShift, amount, cryptors.ShiftAmounts)
	}

	n := *t
	n.shifts[round] = amount
	return &n, nil
}

// Seed returns the seed the tables were generated from.
func (t *Tables) Seed() int64 {
	return t.seed
}

// PC1 is the 128 to 116 bit compression applied first to the key.
func (t *Tables) PC1() [cryptors.PC1Size]int {
	return t.pc1
}

// PC2 compresses the output of PC1 to 108 bits.
func (t *Tables) PC2() [cryptors.PC2Size]int {
	return t.pc2
}

// PC3 compresses the output of PC2 to the 100 bit reduced key.
func (t *Tables) PC3() [cryptors.PC3Size]int {
	return t.pc3
}

// PCK is the 100 to 88 bit compression applied to every rotated reduced key.
func (t *Tables) PCK() [cryptors.RoundKeySize]int {
	return t.pck
}

// Shifts returns the rotation amount of every round, in round order.
func (t *Tables) Shifts() [cryptors.NumberOfRounds]int {
	return t.shifts
}

func (t *Tables) Shift(round int) int {
	return t.shifts[round]
}

// Expansion is the 64 to 88 bit expansion applied to a half-block in F.
func (t *Tables) Expansion() [cryptors.ExpansionSize]int {
	return t.expansion
}

// SBox returns a copy of S-box box.  Use Lookup for single entries.
func (t *Tables) SBox(box int) SBox {
	return t.sboxes[box]
}

// Lookup returns the entry at row, col of S-box box without copying the box.
func (t *Tables) Lookup(box, row, col int) byte {
	return t.sboxes[box][row][col]
}

// FinalPermutations returns the two permutations applied, in order, to the
// S-box output.
func (t *Tables) FinalPermutations() (first, second [cryptors.HalfSize]int) {
	return t.fp1, t.fp2
}
