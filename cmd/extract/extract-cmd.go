package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/pterm/pterm"
	"github.com/repeale/fp-go"
	"github.com/spf13/cobra"

	"github.com/naruebet-orgl/sqlsift/pkg/common/config"
	"github.com/naruebet-orgl/sqlsift/pkg/common/dto"
	"github.com/naruebet-orgl/sqlsift/pkg/dump"
	"github.com/naruebet-orgl/sqlsift/pkg/sink"
	"github.com/naruebet-orgl/sqlsift/pkg/transform"
)

var (
	outDir        string
	tablesFilter  []string
	interactive   bool
	password      string
	transformPath string
	reportPath    string
)

var ExtractCmd = &cobra.Command{
	Use:     "extract [dump file]",
	Short:   "Extract every table of a MySQL dump into per-table CSV files",
	Long:    `Streams the dump in a single forward pass; peak memory is independent of dump size. Use "-" to read from stdin.`,
	Args:    cobra.ExactArgs(1),
	Example: `sqlsift extract dump.sql --out sql_raw --tables users,orders`,
	Run: func(cmd *cobra.Command, args []string) {
		dumpPath := args[0]

		cfg, err := config.ReadFromYaml()
		if err != nil {
			pterm.Fatal.Printfln("Could not read %s: %s", config.SqlsiftYamlFile, err)
		}

		if outDir == "" {
			outDir = cfg.OutputDir
		}
		if outDir == "" {
			outDir = "sql_raw"
		}
		filter := tablesFilter
		if len(filter) == 0 {
			filter = cfg.Tables
		}

		if dump.IsEncrypted(dumpPath) && password == "" {
			prompt := promptui.Prompt{Label: "Dump password", Mask: '*'}
			password, err = prompt.Run()
			if err != nil {
				pterm.Fatal.Printfln("Could not read password: %s", err)
			}
		}

		if interactive {
			filter, err = selectTablesInteractively(dumpPath)
			if err != nil {
				pterm.Fatal.Printfln("Could not list tables: %s", err)
			}
			if len(filter) == 0 {
				pterm.Warning.Printfln("No tables selected. Nothing to do.")
				return
			}
		}

		var rowTransform dump.RowTransform
		if transformPath != "" {
			script, err := transform.Load(transformPath)
			if err != nil {
				pterm.Fatal.Printfln("Could not load transform script: %s", err)
			}
			rowTransform = script
		}

		var pb *pterm.ProgressbarPrinter
		if size := dump.Size(dumpPath); size > 0 {
			pb, _ = pterm.DefaultProgressbar.WithTotal(int(size)).WithTitle("Extracting").Start()
		}

		in, err := dump.Open(dumpPath, password, pb)
		if err != nil {
			pterm.Fatal.Printfln("Could not open dump: %s", err)
		}
		defer func() { _ = in.Close() }()

		extractor := dump.NewExtractor(sink.CsvFactory(outDir), dump.Options{
			Tables:    filter,
			Transform: rowTransform,
		})
		report, runErr := extractor.Run(cmd.Context(), in)
		if pb != nil {
			_, _ = pb.Stop()
		}

		printReport(report)

		if reportPath != "" {
			if err := report.WriteFile(reportPath); err != nil {
				pterm.Error.Printfln("Could not write report: %s", err)
			}
		}

		if runErr != nil {
			pterm.Error.Printfln("Extraction aborted: %s", runErr)
			os.Exit(1)
		}
		pterm.Success.Printfln("Extracted %d tables (%d rows) to %s", len(report.Tables), report.TotalRows(), outDir)
	},
}

func selectTablesInteractively(dumpPath string) ([]string, error) {
	in, err := dump.Open(dumpPath, password, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = in.Close() }()

	infos, err := dump.Discover(in)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("no CREATE TABLE statements found in %s", dumpPath)
	}

	labels := fp.Map(func(ti dump.TableInfo) string {
		return ti.Label()
	})(infos)

	selected, err := pterm.DefaultInteractiveMultiselect.
		WithOptions(labels).
		WithDefaultText("Select tables to extract").
		Show()
	if err != nil {
		return nil, err
	}

	return fp.Map(extractNameFromLabel)(selected), nil
}

func extractNameFromLabel(label string) string {
	tmp := strings.SplitN(label, " (", 2)
	return tmp[0]
}

func printReport(report *dto.Report) {
	for _, t := range report.Tables {
		if t.Incomplete {
			pterm.Warning.Printfln("%s", t.Label())
		} else {
			pterm.Info.Printfln("%s", t.Label())
		}
	}

	kinds := []dto.WarningKind{
		dto.WARN_MALFORMED_LITERAL,
		dto.WARN_ARITY_MISMATCH,
		dto.WARN_INSERT_BEFORE_SCHEMA,
		dto.WARN_MISATTRIBUTED_INSERT,
		dto.WARN_DUPLICATE_COLUMN,
		dto.WARN_SINK_FAILURE,
		dto.WARN_TRANSFORM_FAILURE,
	}
	var parts []string
	for _, kind := range kinds {
		if n := report.CountByKind(kind); n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", kind, n))
		}
	}
	if len(parts) > 0 {
		pterm.Warning.Printfln("%d warnings (%s)", len(report.Warnings), strings.Join(parts, ", "))
	}
}

func init() {
	ExtractCmd.Flags().StringVar(&outDir, "out", "", "output directory for CSV files (default \"sql_raw\")")
	ExtractCmd.Flags().StringSliceVar(&tablesFilter, "tables", nil, "comma-separated list of tables to extract, if empty all tables will be extracted")
	ExtractCmd.Flags().BoolVar(&interactive, "interactive", false, "interactively select which tables to extract")
	ExtractCmd.Flags().StringVar(&password, "password", "", "password for .enc dumps (prompted when omitted)")
	ExtractCmd.Flags().StringVar(&transformPath, "transform", "", "JavaScript file defining transform(table, row) applied to every row")
	ExtractCmd.Flags().StringVar(&reportPath, "report", "", "write the extraction summary as JSON to this file")
}
