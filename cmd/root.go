package cmd

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/naruebet-orgl/sqlsift/cmd/extract"
	"github.com/naruebet-orgl/sqlsift/cmd/load"
	"github.com/naruebet-orgl/sqlsift/cmd/tables"
)

var rootCmd = &cobra.Command{
	Use:   "sqlsift",
	Short: "a streaming extractor turning MySQL dump files into per-table CSV files",
	Long: `sqlsift reads a textual MySQL dump (CREATE TABLE statements interleaved
with multi-row INSERT statements) in a single forward pass and writes each
table's rows to its own CSV file - without ever executing SQL or loading the
whole dump into memory.`,
	Example: `sqlsift extract dump.sql --out sql_raw
sqlsift tables dump.sql
sqlsift load sql_raw --dsn "user:pass@tcp(localhost:3306)/mydb"`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.AddCommand(extract.ExtractCmd)
	rootCmd.AddCommand(tables.TablesCmd)
	rootCmd.AddCommand(load.LoadCmd)

	// Execute cobra
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Adds global flags for PTerm settings.
	rootCmd.PersistentFlags().BoolVarP(&pterm.PrintDebugMessages, "debug", "", false, "enable debug messages")
	rootCmd.PersistentFlags().BoolVarP(&pterm.RawOutput, "raw", "", false, "print unstyled raw output (set it if output is written to a file)")

	// Change global PTerm theme
	pterm.ThemeDefault.SectionStyle = *pterm.NewStyle(pterm.FgCyan)
}
