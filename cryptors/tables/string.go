package tables

import (
	"bytes"
	"fmt"

	"github.com/bgallie/f42/cryptors"
	"github.com/segmentio/fasthash/fnv1a"
)

// MarshalBinary encodes every table, in generation order, one byte per entry.
// The seed is not part of the encoding.
func (t *Tables) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(cryptors.PC1Size + cryptors.PC2Size + cryptors.PC3Size + cryptors.RoundKeySize +
		cryptors.NumberOfRounds + cryptors.ExpansionSize +
		cryptors.NumberOfSBoxes*cryptors.SBoxRows*cryptors.SBoxColumns + 2*cryptors.HalfSize)

	for _, table := range [][]int{t.pc1[:], t.pc2[:], t.pc3[:], t.pck[:], t.shifts[:], t.expansion[:]} {
		for _, v := range table {
			buf.WriteByte(byte(v))
		}
	}

	for b := range t.sboxes {
		for r := range t.sboxes[b] {
			buf.Write(t.sboxes[b][r][:])
		}
	}

	for _, table := range [][]int{t.fp1[:], t.fp2[:]} {
		for _, v := range table {
			buf.WriteByte(byte(v))
		}
	}

	return buf.Bytes(), nil
}

// Fingerprint is the FNV-1a hash of MarshalBinary.  Two table sets with the
// same fingerprint encrypt identically.
func (t *Tables) Fingerprint() uint64 {
	b, _ := t.MarshalBinary()
	return fnv1a.HashBytes64(b)
}

// String dumps the tables as Go composite literals.
func (t *Tables) String() string {
	var output bytes.Buffer
	output.WriteString(fmt.Sprintf("// seed %d, fingerprint %016x\n", t.seed, t.Fingerprint()))
	writeInts(&output, "PC1", t.pc1[:], 16)
	writeInts(&output, "PC2", t.pc2[:], 16)
	writeInts(&output, "PC3", t.pc3[:], 16)
	writeInts(&output, "PCK", t.pck[:], 16)
	writeInts(&output, "SHIFTS", t.shifts[:], 21)
	writeInts(&output, "EXPANSION", t.expansion[:], cryptors.SBoxInputBits)
	output.WriteString(fmt.Sprintf("SBOXES = [%d][%d][%d]byte{\n",
		cryptors.NumberOfSBoxes, cryptors.SBoxRows, cryptors.SBoxColumns))

	for b := range t.sboxes {
		output.WriteString("\t{\n")
		for r := range t.sboxes[b] {
			output.WriteString("\t\t{")
			for c, v := range t.sboxes[b][r] {
				if c > 0 {
					output.WriteString(", ")
				}
				output.WriteString(fmt.Sprintf("%d", v))
			}
			output.WriteString("},\n")
		}
		output.WriteString("\t},\n")
	}

	output.WriteString("}\n")
	writeInts(&output, "FINAL_PERMUTATION1", t.fp1[:], 16)
	writeInts(&output, "FINAL_PERMUTATION2", t.fp2[:], 16)
	return output.String()
}

func writeInts(output *bytes.Buffer, name string, table []int, perLine int) {
	output.WriteString(fmt.Sprintf("%s = [%d]int{\n", name, len(table)))

	for i := 0; i < len(table); i += perLine {
		end := i + perLine
		if end > len(table) {
			end = len(table)
		}

		output.WriteString("\t")
		for _, k := range table[i:end] {
			output.WriteString(fmt.Sprintf("%d, ", k))
		}
		output.Truncate(output.Len() - 1)
		output.WriteString("\n")
	}

	output.WriteString("}\n")
}
