package load

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/naruebet-orgl/sqlsift/pkg/sink"
	"github.com/pterm/pterm"
)

// TableData is one previously extracted table read back from CSV: the header
// row plus all data rows.
type TableData struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// ReadDir loads every *.csv file in dir into an explicit table-name -> data
// mapping. Files that cannot be parsed are reported and skipped; a single bad
// file never aborts the load.
func ReadDir(dir string) (map[string]*TableData, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no CSV files found in %s", dir)
	}
	sort.Strings(paths)

	tables := make(map[string]*TableData, len(paths))
	for _, path := range paths {
		td, err := readFile(path)
		if err != nil {
			pterm.Warning.Printfln("Skipping %s: %s", path, err)
			continue
		}
		tables[td.Name] = td
	}
	return tables, nil
}

func readFile(path string) (*TableData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	name := strings.TrimSuffix(filepath.Base(path), ".csv")
	return &TableData{
		Name:    name,
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}

// Importer writes extracted tables into a MySQL database, re-using the same
// sink the extractor streams into.
type Importer struct {
	db *sql.DB
}

func NewImporter(db *sql.DB) *Importer {
	return &Importer{db: db}
}

// Import re-creates each table and inserts its rows. Failures are fatal for
// the affected table only; the remaining tables are still imported. The
// context is checked between tables.
func (im *Importer) Import(ctx context.Context, tables map[string]*TableData) (imported int, err error) {
	factory := sink.MysqlFactory(im.db)

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		if err := im.importTable(factory, tables[name]); err != nil {
			pterm.Error.Printfln("Table %s could not be imported: %s", name, err)
			continue
		}
		pterm.Success.Printfln("Imported %s (%d rows)", name, len(tables[name].Rows))
		imported++
	}
	return imported, nil
}

func (im *Importer) importTable(factory sink.Factory, td *TableData) error {
	s, err := factory(td.Name, td.Columns)
	if err != nil {
		return err
	}
	if err := s.WriteHeader(td.Columns); err != nil {
		_ = s.Close()
		return err
	}

	for _, record := range td.Rows {
		row := make(sink.Row, len(record))
		for i := range record {
			row[i] = &record[i]
		}
		if err := s.WriteRow(row); err != nil {
			_ = s.Close()
			return err
		}
	}
	return s.Close()
}
