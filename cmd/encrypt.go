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
	"io"

	"github.com/bgallie/f42/cryptors"
	"github.com/bgallie/filters/ascii85"
	"github.com/bgallie/filters/lines"
	"github.com/bgallie/filters/pem"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	useASCII85 bool
	usePem     bool
)

// encryptCmd represents the encrypt command
var encryptCmd = &cobra.Command{
	Use:   "encrypt [key]",
	Short: "Encrypt 128 bit blocks using F42",
	Long: `Encrypt the input using F42.  Every 16 byte block of the input is encrypted on
its own with the same key.  The input is not padded, so its length must be a
multiple of 16 bytes.`,
	Run: func(cmd *cobra.Command, args []string) {
		encrypt(args)
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)
	encryptCmd.Flags().BoolVarP(&useASCII85, "useASCII85", "a", false, "use ASCII85 encoding")
	encryptCmd.Flags().BoolVarP(&usePem, "usePem", "p", false, "use PEM encoding.")
}

func encrypt(args []string) {
	initTables(viper.GetInt64(seedKey))
	initEngine(args)
	fin, fout := getInputAndOutputFiles(true)
	defer fout.Close()

	var fileName string
	if len(inputFileName) > 0 && inputFileName != "-" {
		fileName = inputFileName
	}

	hdr := newFileHeader(fileName, useASCII85, f42Tables)
	left, right := cryptors.CreateEncryptMachine(f42Machine)
	encIn := cipherHelper(fin, left, right)

	err := writeCiphertext(fout, encIn, hdr, usePem)
	checkError(err)
	wg.Wait()
	cobra.CheckErr(cipherErr)
}

// writeCiphertext writes hdr and the encrypted stream encIn to w, either as a
// PEM block or as a header line followed by binary or ASCII85 text.
func writeCiphertext(w io.Writer, encIn io.Reader, hdr fileHeader, pemOut bool) error {
	if pemOut {
		_, err := io.Copy(w, pem.ToPem(encIn, hdr.pemBlock()))
		return err
	}

	if _, err := io.WriteString(w, hdr.String()); err != nil {
		return err
	}

	if hdr.ascii85 {
		encIn = lines.SplitToLines(ascii85.ToASCII85(encIn))
	}

	_, err := io.Copy(w, encIn)
	return err
}
