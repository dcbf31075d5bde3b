package tables

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bgallie/f42/cryptors"
)

const testSeed = 42

func mustInitialize(t *testing.T, seed int64) *Tables {
	t.Helper()
	tbl, err := Initialize(seed)
	if err != nil {
		t.Fatalf("Initialize(%d): %v", seed, err)
	}
	return tbl
}

func TestInitializeDeterministic(t *testing.T) {
	a := mustInitialize(t, testSeed)
	b := mustInitialize(t, testSeed)

	ab, _ := a.MarshalBinary()
	bb, _ := b.MarshalBinary()
	if !bytes.Equal(ab, bb) {
		t.Fatal("two tables built from the same seed differ")
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprints differ for the same seed")
	}
	if a.Seed() != testSeed {
		t.Errorf("Seed: got %d, want %d", a.Seed(), testSeed)
	}

	c := mustInitialize(t, testSeed+1)
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different seeds produced the same fingerprint")
	}
}

func checkDistinct(t *testing.T, name string, table []int, in int) {
	t.Helper()
	seen := make(map[int]bool)
	for i, v := range table {
		if v < 0 || v >= in {
			t.Errorf("%s[%d] = %d, outside [0, %d)", name, i, v, in)
		}
		if seen[v] {
			t.Errorf("%s: index %d repeated", name, v)
		}
		seen[v] = true
	}
}

func TestTablesWellFormed(t *testing.T) {
	for _, seed := range []int64{0, 1, testSeed, -7, 1 << 40} {
		tbl := mustInitialize(t, seed)

		pc1, pc2, pc3, pck := tbl.PC1(), tbl.PC2(), tbl.PC3(), tbl.PCK()
		checkDistinct(t, "PC1", pc1[:], cryptors.KeySize)
		checkDistinct(t, "PC2", pc2[:], cryptors.PC1Size)
		checkDistinct(t, "PC3", pc3[:], cryptors.PC2Size)
		checkDistinct(t, "PCK", pck[:], cryptors.PC3Size)

		// Permutations must cover the whole range.
		fp1, fp2 := tbl.FinalPermutations()
		checkDistinct(t, "FP1", fp1[:], cryptors.HalfSize)
		checkDistinct(t, "FP2", fp2[:], cryptors.HalfSize)
		if len(fp1) != cryptors.HalfSize || len(fp2) != cryptors.HalfSize {
			t.Errorf("final permutations have %d and %d entries", len(fp1), len(fp2))
		}

		for r, s := range tbl.Shifts() {
			if s != 1 && s != 2 && s != 3 && s != 5 {
				t.Errorf("seed %d: shift[%d] = %d", seed, r, s)
			}
			if tbl.Shift(r) != s {
				t.Errorf("Shift(%d) disagrees with Shifts()", r)
			}
		}

		if err := tbl.Validate(); err != nil {
			t.Errorf("seed %d: Validate: %v", seed, err)
		}
	}
}

func TestExpansionNonCollision(t *testing.T) {
	exp := mustInitialize(t, testSeed).Expansion()
	for g := 0; g < cryptors.NumberOfSBoxes; g++ {
		group := exp[g*cryptors.SBoxInputBits : (g+1)*cryptors.SBoxInputBits]
		checkDistinct(t, "expansion group", group, cryptors.HalfSize)
	}

	// Repetition across groups is expected.
	counts := make(map[int]int)
	for _, v := range exp {
		counts[v]++
	}
	if len(counts) == cryptors.ExpansionSize {
		t.Error("expansion table has no repeated indices at all")
	}
}

func TestSBoxesUseWholeByteRange(t *testing.T) {
	tbl := mustInitialize(t, testSeed)
	var lo, hi byte = 255, 0
	for b := 0; b < cryptors.NumberOfSBoxes; b++ {
		box := tbl.SBox(b)
		for r := range box {
			for c, v := range box[r] {
				if tbl.Lookup(b, r, c) != v {
					t.Fatalf("Lookup(%d, %d, %d) disagrees with SBox", b, r, c)
				}
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
		}
	}
	// 16384 uniform draws from [0, 255] hit both ends.
	if lo != 0 || hi != 255 {
		t.Errorf("S-box values span [%d, %d], want [0, 255]", lo, hi)
	}
}

func TestValidateRejectsMalformedTables(t *testing.T) {
	good := mustInitialize(t, testSeed)

	dup := *good
	dup.pc2[1] = dup.pc2[0]
	if err := dup.Validate(); !errors.Is(err, cryptors.ErrTableGeneration) {
		t.Errorf("repeated PC2 index: got %v, want ErrTableGeneration", err)
	}

	outOfRange := *good
	outOfRange.pck[5] = cryptors.PC3Size
	if err := outOfRange.Validate(); !errors.Is(err, cryptors.ErrTableGeneration) {
		t.Errorf("PCK index out of range: got %v, want ErrTableGeneration", err)
	}

	badShift := *good
	badShift.shifts[3] = 4
	if err := badShift.Validate(); !errors.Is(err, cryptors.ErrTableGeneration) {
		t.Errorf("shift of 4: got %v, want ErrTableGeneration", err)
	}

	collision := *good
	collision.expansion[1] = collision.expansion[0]
	if err := collision.Validate(); !errors.Is(err, cryptors.ErrTableGeneration) {
		t.Errorf("expansion collision: got %v, want ErrTableGeneration", err)
	}
}

func TestWithShift(t *testing.T) {
	tbl := mustInitialize(t, testSeed)
	before := tbl.Fingerprint()
	round := 7
	amount := 1
	if tbl.Shift(round) == 1 {
		amount = 5
	}

	mod, err := tbl.WithShift(round, amount)
	if err != nil {
		t.Fatal(err)
	}
	if mod.Shift(round) != amount {
		t.Errorf("WithShift: shift is %d, want %d", mod.Shift(round), amount)
	}
	for r := 0; r < cryptors.NumberOfRounds; r++ {
		if r != round && mod.Shift(r) != tbl.Shift(r) {
			t.Errorf("WithShift changed round %d", r)
		}
	}
	if tbl.Fingerprint() != before {
		t.Error("WithShift modified the receiver")
	}

	for _, tc := range []struct{ round, amount int }{{-1, 1}, {cryptors.NumberOfRounds, 1}, {0, 4}, {0, 0}} {
		if _, err := tbl.WithShift(tc.round, tc.amount); !errors.Is(err, ErrInvalidShift) {
			t.Errorf("WithShift(%d, %d): got %v, want ErrInvalidShift", tc.round, tc.amount, err)
		}
	}
}

func TestString(t *testing.T) {
	s := mustInitialize(t, testSeed).String()
	for _, name := range []string{"PC1 = [116]int{", "PC2 = [108]int{", "PC3 = [100]int{",
		"PCK = [88]int{", "SHIFTS = [42]int{", "EXPANSION = [88]int{", "SBOXES = [8][64][32]byte{",
		"FINAL_PERMUTATION1 = [64]int{", "FINAL_PERMUTATION2 = [64]int{"} {
		if !strings.Contains(s, name) {
			t.Errorf("String() is missing %q", name)
		}
	}
	if !strings.Contains(s, "\t36, 32, 49, 34, 5, 60, 38, 53, 29, 27, 1,\n") {
		t.Error("String() does not list the expansion table in groups of 11")
	}
}
