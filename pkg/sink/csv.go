package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CsvSink writes one table to a CSV file: the header first, then one line per
// row. NULL fields become empty cells.
type CsvSink struct {
	f  *os.File
	cw *countingWriter
	w  *csv.Writer
}

func NewCsvSink(path string) (*CsvSink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot open CSV file %s: %w", path, err)
	}
	cw := &countingWriter{w: f}
	return &CsvSink{
		f:  f,
		cw: cw,
		w:  csv.NewWriter(cw),
	}, nil
}

// CsvFactory returns a Factory placing one <table>.csv per table inside dir,
// creating dir if needed.
func CsvFactory(dir string) Factory {
	return func(table string, columns []string) (TableSink, error) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("cannot create output directory %s: %w", dir, err)
		}
		return NewCsvSink(filepath.Join(dir, table+".csv"))
	}
}

func (s *CsvSink) WriteHeader(columns []string) error {
	return s.w.Write(columns)
}

func (s *CsvSink) WriteRow(row Row) error {
	record := make([]string, len(row))
	for i, v := range row {
		if v != nil {
			record[i] = *v
		}
	}
	return s.w.Write(record)
}

func (s *CsvSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.f.Close()
		return err
	}
	return s.f.Close()
}

func (s *CsvSink) Size() uint64 {
	return s.cw.writtenBytes
}

type countingWriter struct {
	w            *os.File
	writtenBytes uint64
}

func (c *countingWriter) Write(p []byte) (n int, err error) {
	n, err = c.w.Write(p)
	c.writtenBytes += uint64(n)
	return n, err
}
