/*
Copyright © 2026 Billy G. Allie <bill.allie@defiant.mug.org>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/bgallie/f42/cryptors"
	"github.com/bgallie/filters/ascii85"
	"github.com/bgallie/filters/lines"
	"github.com/bgallie/filters/pem"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// decryptCmd represents the decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt [key]",
	Short: "Decrypt a F42 encrypted file.",
	Long: `Decrypt a file encrypted by "f42 encrypt".  The cipher tables are rebuilt from
the seed recorded in the file and checked against the recorded fingerprint.`,
	Run: func(cmd *cobra.Command, args []string) {
		decrypt(args)
	},
}

func init() {
	rootCmd.AddCommand(decryptCmd)
}

// readHeader reads the PEM or line header at the start of bRdr.  The
// returned reader yields the raw ciphertext.
func readHeader(bRdr *bufio.Reader) (fileHeader, io.Reader, error) {
	b, err := bRdr.Peek(5)
	if err != nil {
		return fileHeader{}, nil, fmt.Errorf("%w: %v", errBadHeader, err)
	}

	if string(b) == "-----" {
		pRdr, blck := pem.FromPem(bRdr)
		hdr, err := headerFromPem(blck)
		return hdr, pRdr, err
	}

	line, err := bRdr.ReadString('\n')
	if err != nil {
		return fileHeader{}, nil, fmt.Errorf("%w: %v", errBadHeader, err)
	}

	hdr, err := parseHeaderLine(line)
	if err != nil {
		return hdr, nil, err
	}

	if hdr.ascii85 {
		return hdr, ascii85.FromASCII85(lines.CombineLines(bRdr)), nil
	}

	return hdr, bRdr, nil
}

func decrypt(args []string) {
	fin, fout := getInputAndOutputFiles(false)
	defer fout.Close()
	hdr, aRdr, err := readHeader(bufio.NewReader(fin))
	cobra.CheckErr(err)

	// The seed recorded in the file wins over the configured one.
	if seed := viper.GetInt64(seedKey); seed != hdr.seed {
		fmt.Fprintf(os.Stderr, "Using seed %d from the encrypted file instead of %d.\n", hdr.seed, seed)
	}

	initTables(hdr.seed)
	cobra.CheckErr(hdr.check(f42Tables))
	initEngine(args)

	left, right := cryptors.CreateDecryptMachine(f42Machine)
	_, err = io.Copy(fout, cipherHelper(aRdr, left, right))
	checkError(err)
	wg.Wait() // Wait for the decryption machine to finish it's clean up.
	cobra.CheckErr(cipherErr)
}
