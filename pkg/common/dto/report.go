package dto

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
)

type WarningKind string

const (
	WARN_MALFORMED_LITERAL    WarningKind = "MalformedLiteral"
	WARN_ARITY_MISMATCH       WarningKind = "ArityMismatch"
	WARN_INSERT_BEFORE_SCHEMA WarningKind = "InsertBeforeSchema"
	WARN_MISATTRIBUTED_INSERT WarningKind = "MisattributedInsert"
	WARN_DUPLICATE_COLUMN     WarningKind = "DuplicateColumn"
	WARN_SINK_FAILURE         WarningKind = "SinkWriteFailure"
	WARN_TRANSFORM_FAILURE    WarningKind = "TransformFailure"
)

// Warning is one non-fatal incident recorded while extracting. Warnings never
// abort a run; they are collected on the Report for the caller.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Table  string      `json:"table,omitempty"`
	Line   int         `json:"line,omitempty"`
	Detail string      `json:"detail"`
}

// TableReport summarizes the extraction of a single table.
type TableReport struct {
	Name        string   `json:"name"`
	Columns     []string `json:"columns"`
	Rows        int      `json:"rows"`
	SkippedRows int      `json:"skippedRows"`
	DroppedRows int      `json:"droppedRows"`
	SizeBytes   uint64   `json:"sizeBytes"`
	// Incomplete is set when the table's sink failed mid-stream. The rows
	// written before the failure are kept.
	Incomplete bool `json:"incomplete"`
}

func (t *TableReport) Label() string {
	if t.Incomplete {
		return fmt.Sprintf("%s (%d rows, %s, INCOMPLETE)", t.Name, t.Rows, humanize.IBytes(t.SizeBytes))
	}
	return fmt.Sprintf("%s (%d rows, %s)", t.Name, t.Rows, humanize.IBytes(t.SizeBytes))
}

// Report is the summary of one extraction run. It is always produced, even
// after partial failures.
type Report struct {
	Tables    []*TableReport `json:"tables"`
	Warnings  []Warning      `json:"warnings"`
	LinesRead int            `json:"linesRead"`
}

func (r *Report) TableByName(name string) *TableReport {
	for _, t := range r.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (r *Report) CountByKind(kind WarningKind) int {
	n := 0
	for _, w := range r.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Report) TotalRows() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Rows
	}
	return n
}

func (r *Report) WriteFile(path string) error {
	bytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report cannot be serialized: %w", err)
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return fmt.Errorf("cannot write report file %s: %w", path, err)
	}

	return nil
}
