package tables

import (
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/naruebet-orgl/sqlsift/pkg/dump"
)

var password string

var TablesCmd = &cobra.Command{
	Use:     "tables [dump file]",
	Short:   "List the tables declared in a MySQL dump",
	Long:    `Scans the dump once without tokenizing any values and prints each table with its column and INSERT statement counts.`,
	Args:    cobra.ExactArgs(1),
	Example: `sqlsift tables dump.sql`,
	Run: func(cmd *cobra.Command, args []string) {
		dumpPath := args[0]

		if dump.IsEncrypted(dumpPath) && password == "" {
			prompt := promptui.Prompt{Label: "Dump password", Mask: '*'}
			var err error
			password, err = prompt.Run()
			if err != nil {
				pterm.Fatal.Printfln("Could not read password: %s", err)
			}
		}

		in, err := dump.Open(dumpPath, password, nil)
		if err != nil {
			pterm.Fatal.Printfln("Could not open dump: %s", err)
		}
		defer func() { _ = in.Close() }()

		infos, err := dump.Discover(in)
		if err != nil {
			pterm.Fatal.Printfln("Could not scan dump: %s", err)
		}
		if len(infos) == 0 {
			pterm.Warning.Printfln("No CREATE TABLE statements found in %s", dumpPath)
			return
		}

		data := pterm.TableData{{"Table", "Columns", "INSERT statements"}}
		for _, ti := range infos {
			data = append(data, []string{ti.Name, strconv.Itoa(ti.Columns), strconv.Itoa(ti.Inserts)})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

		pterm.Info.Printfln("%d tables", len(infos))
	},
}

func init() {
	TablesCmd.Flags().StringVar(&password, "password", "", "password for .enc dumps (prompted when omitted)")
}
