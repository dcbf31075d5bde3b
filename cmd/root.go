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
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/bgallie/f42/cryptors"
	"github.com/bgallie/f42/cryptors/feistel"
	"github.com/bgallie/f42/cryptors/tables"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	cfgFile        string
	inputFileName  string
	outputFileName string
	f42Tables      *tables.Tables
	f42Machine     *feistel.Machine
	wg             sync.WaitGroup
	cipherErr      error // set by cipherHelper before wg is released
	GitCommit      string = "not set"
	BuildDate      string = "not set"
	Version        string = "dev"
)

const (
	f42ApiLevel    = 1
	f42Suffix      = ".f42"
	defaultSeed    = 42
	seedKey        = "seed"
	secretKey      = "secret"
	f42EnvPrefix   = "F42"
	f42ConfigName  = ".f42"
	f42HeaderMagic = "+F42"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "f42",
	Short: "A 42 round, 128 bit Feistel block cipher",
	Long: `f42 encrypts and decrypts 128 bit blocks with a 128 bit key using a 42 round
Feistel network whose tables are generated from a seed.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}} (commit %s, built %s, API level %d)\n",
		GitCommit, BuildDate, f42ApiLevel))
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.f42.yaml)")
	rootCmd.PersistentFlags().Int64P(seedKey, "s", defaultSeed, "seed used to generate the cipher tables")
	rootCmd.PersistentFlags().StringVarP(&inputFileName, "inputFile", "i", "-", "Name of the file to encrypt/decrypt.")
	rootCmd.PersistentFlags().StringVarP(&outputFileName, "outputFile", "o", "", "Name of the file containing the encrypted/decrypted data.")
	cobra.CheckErr(viper.BindPFlag(seedKey, rootCmd.PersistentFlags().Lookup(seedKey)))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".f42" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(f42ConfigName)
	}

	// F42_SEED and F42_SECRET
	viper.SetEnvPrefix(f42EnvPrefix)
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// initTables builds the cipher tables for seed.
func initTables(seed int64) {
	var err error
	f42Tables, err = tables.Initialize(seed)
	cobra.CheckErr(err)
}

func initEngine(args []string) {
	key, err := keyFromSecret(os.Stderr, readSecret(args))
	cobra.CheckErr(err)
	f42Machine = feistel.New(key, f42Tables)
}

// readSecret obtains the key material from either:
// 1. Arguments from the entered command line (least secure - not recommended)
// 2. The 'F42_SECRET' environment variable or the config file (less secure)
// 3. User input from the terminal (most secure)
func readSecret(args []string) string {
	var secret string
	if len(args) != 0 {
		secret = strings.Join(args, " ")
	} else if viper.IsSet(secretKey) {
		secret = viper.GetString(secretKey)
	} else if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "Enter the key: ")
		byteSecret, err := term.ReadPassword(int(os.Stdin.Fd()))
		cobra.CheckErr(err)
		fmt.Fprintln(os.Stderr, "")
		secret = string(byteSecret)
	}

	if len(secret) == 0 {
		cobra.CheckErr("You must supply a key.")
	}

	return secret
}

// keyFromSecret uses the first 128 bits of secret as the key.  A shorter
// secret is an error; the rest of a longer one is ignored and a notice saying
// so is written to w.
func keyFromSecret(w io.Writer, secret string) (cryptors.Key, error) {
	if len(secret) > cryptors.KeyBytes {
		fmt.Fprintf(w, "Using only the first %d bytes (%d bits) of the key.\n",
			cryptors.KeyBytes, cryptors.KeySize)
		secret = secret[:cryptors.KeyBytes]
	}

	return cryptors.NewKey([]byte(secret))
}

/*
	getInputAndOutputFiles will return the input and output files to use while
	encrypting/decrypting data.  If input and/or output files names were given,
	then those files will be opened.  Otherwise stdin and stdout are used.
*/
func getInputAndOutputFiles(encode bool) (*os.File, *os.File) {
	var fin *os.File
	var err error

	if len(inputFileName) > 0 && inputFileName != "-" {
		fin, err = os.Open(inputFileName)
		cobra.CheckErr(err)
	} else {
		fin = os.Stdin
	}

	var fout *os.File

	if len(outputFileName) > 0 {
		if outputFileName == "-" {
			fout = os.Stdout
		} else {
			fout, err = os.Create(outputFileName)
			cobra.CheckErr(err)
		}
	} else if len(inputFileName) == 0 || inputFileName == "-" {
		fout = os.Stdout
	} else if encode {
		outputFileName = inputFileName + f42Suffix
		fout, err = os.Create(outputFileName)
		cobra.CheckErr(err)
	} else if strings.HasSuffix(inputFileName, f42Suffix) {
		outputFileName = strings.TrimSuffix(inputFileName, f42Suffix)
		fout, err = os.Create(outputFileName)
		cobra.CheckErr(err)
	} else {
		fout = os.Stdout
	}

	return fin, fout
}

// checkError checks for error that are not io.EOF and io.ErrUnexpectedEOF and reports them.
func checkError(e error) {
	if e != io.EOF && e != io.ErrUnexpectedEOF {
		cobra.CheckErr(e)
	}
}

// cipherHelper pushes every 16 byte block read from rdr through the machine
// connected to left and right, and makes the results available from the
// returned PipeReader.  Input that does not end on a block boundary makes the
// reader fail with cryptors.ErrLengthMismatch since F42 does not pad.
func cipherHelper(rdr io.Reader, left chan cryptors.CypherBlock, right chan cryptors.CypherBlock) *io.PipeReader {
	rRdr, rWrtr := io.Pipe()
	wg.Add(1)

	go func() {
		defer wg.Done()
		var blk cryptors.CypherBlock
		var cnt int
		var err error

		for {
			cnt, err = io.ReadFull(rdr, blk.CypherBlock[:])
			if err != nil {
				break
			}

			blk.Length = cryptors.BlockBytes
			left <- blk
			blk = <-right
			if _, err = rWrtr.Write(blk.CypherBlock[:]); err != nil {
				break
			}
		}

		// shutdown the machine by processing a CypherBlock with zero
		// value length field.
		left <- cryptors.CypherBlock{}
		<-right

		switch err {
		case io.EOF:
			rWrtr.Close()
			return
		case io.ErrUnexpectedEOF:
			cipherErr = fmt.Errorf("%w: the input ends with a partial block of %d bits (input must be a multiple of %d bits)",
				cryptors.ErrLengthMismatch, cnt*cryptors.BitsPerByte, cryptors.BlockSize)
		default:
			cipherErr = err
		}

		rWrtr.CloseWithError(cipherErr)
	}()

	return rRdr
}
