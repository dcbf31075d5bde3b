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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bgallie/f42/cryptors"
	"github.com/bgallie/f42/cryptors/feistel"
	"github.com/bgallie/f42/cryptors/tables"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	demoMessage string
	demoSecret  string
)

var errRoundTrip = errors.New("decrypted block differs from the plaintext")

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Encrypt and decrypt one block, printing every step as bits",
	Long: `Encrypt a 16 byte message with the first 128 bits of a key, decrypt it again
and print the plaintext, key, ciphertext and decrypted block as bit strings.
The command fails if the decrypted block differs from the plaintext.`,
	Run: func(cmd *cobra.Command, args []string) {
		initTables(viper.GetInt64(seedKey))
		cobra.CheckErr(runDemo(os.Stdout, demoMessage, demoSecret, f42Tables))
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVarP(&demoMessage, "message", "m", "HelloMyMesIsThis", "the 16 byte message to encrypt")
	demoCmd.Flags().StringVarP(&demoSecret, "key", "k", "!MySuperKeyIsTheBestKeyEver!", "the key (only the first 16 bytes are used)")
}

func runDemo(w io.Writer, message, secret string, t *tables.Tables) error {
	plaintext, err := cryptors.NewBlock([]byte(message))
	if err != nil {
		return err
	}

	key, err := keyFromSecret(w, secret)
	if err != nil {
		return err
	}

	m := feistel.New(key, t)
	ciphertext := plaintext
	cryptors.Encrypt(m, &ciphertext)
	decrypted := ciphertext
	cryptors.Decrypt(m, &decrypted)
	fmt.Fprintln(w, "Plaintext (128 bits):", plaintext)
	fmt.Fprintln(w, "Key (only 128 bits): ", key)
	fmt.Fprintln(w, "Ciphertext:          ", ciphertext)
	fmt.Fprintln(w, "Decrypted message:   ", decrypted)

	if decrypted != plaintext {
		return errRoundTrip
	}

	fmt.Fprintf(w, "Working correctly: %q\n", decrypted[:])
	return nil
}
