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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var dumpTables bool

// tablesCmd represents the tables command
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Show the fingerprint of the cipher tables for a seed",
	Long: `Generate the cipher tables for the configured seed and print the seed and the
tables' fingerprint.  With --dump every table is printed as well.`,
	Run: func(cmd *cobra.Command, args []string) {
		initTables(viper.GetInt64(seedKey))
		fmt.Fprintf(os.Stdout, "Seed:        %d\n", f42Tables.Seed())
		fmt.Fprintf(os.Stdout, "Fingerprint: %016x\n", f42Tables.Fingerprint())
		if dumpTables {
			fmt.Fprint(os.Stdout, f42Tables)
		}
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.Flags().BoolVarP(&dumpTables, "dump", "d", false, "print every table")
}
