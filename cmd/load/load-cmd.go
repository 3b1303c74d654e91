package load

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/naruebet-orgl/sqlsift/pkg/common/config"
	loader "github.com/naruebet-orgl/sqlsift/pkg/load"
)

var dsn string

var LoadCmd = &cobra.Command{
	Use:     "load [csv directory]",
	Short:   "Load previously extracted CSV files into a MySQL database",
	Long:    `Reads every *.csv file in the directory and re-creates one TEXT-column table per file. A file that fails to parse or import is skipped; the rest are still loaded.`,
	Args:    cobra.ExactArgs(1),
	Example: `sqlsift load sql_raw --dsn "user:pass@tcp(localhost:3306)/mydb"`,
	Run: func(cmd *cobra.Command, args []string) {
		dir := args[0]

		if dsn == "" {
			cfg, err := config.ReadFromYaml()
			if err != nil {
				pterm.Fatal.Printfln("Could not read %s: %s", config.SqlsiftYamlFile, err)
			}
			dsn = cfg.Mysql.Dsn
		}
		if dsn == "" {
			pterm.Fatal.Printfln("No DSN given. Use --dsn or the mysql.dsn key in %s.", config.SqlsiftYamlFile)
		}

		tables, err := loader.ReadDir(dir)
		if err != nil {
			pterm.Fatal.Printfln("Could not read CSV files: %s", err)
		}
		pterm.Info.Printfln("Loading %d tables...", len(tables))

		db, err := sql.Open("mysql", dsn)
		if err != nil {
			pterm.Fatal.Printfln("Error opening database: %s", err)
		}
		defer func() { _ = db.Close() }()

		imported, err := loader.NewImporter(db).Import(cmd.Context(), tables)
		if err != nil {
			pterm.Fatal.Printfln("Import aborted: %s", err)
		}
		pterm.Success.Printfln("Loaded %d of %d tables", imported, len(tables))
	},
}

func init() {
	LoadCmd.Flags().StringVar(&dsn, "dsn", "", "MySQL DSN, e.g. user:pass@tcp(localhost:3306)/mydb")
}
