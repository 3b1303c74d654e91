package dto

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportLookupAndCounts(t *testing.T) {
	report := &Report{
		Tables: []*TableReport{
			{Name: "users", Rows: 3},
			{Name: "orders", Rows: 2},
		},
		Warnings: []Warning{
			{Kind: WARN_ARITY_MISMATCH, Table: "orders"},
			{Kind: WARN_ARITY_MISMATCH, Table: "orders"},
			{Kind: WARN_SINK_FAILURE, Table: "users"},
		},
	}

	assert.Equal(t, 5, report.TotalRows())
	assert.Equal(t, 2, report.CountByKind(WARN_ARITY_MISMATCH))
	assert.Equal(t, 0, report.CountByKind(WARN_MALFORMED_LITERAL))
	require.NotNil(t, report.TableByName("users"))
	assert.Nil(t, report.TableByName("missing"))
}

func TestTableReportLabel(t *testing.T) {
	complete := &TableReport{Name: "users", Rows: 3, SizeBytes: 2048}
	assert.Equal(t, "users (3 rows, 2.0 KiB)", complete.Label())

	incomplete := &TableReport{Name: "orders", Rows: 1, Incomplete: true}
	assert.Contains(t, incomplete.Label(), "INCOMPLETE")
}

func TestReportWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	report := &Report{
		Tables:    []*TableReport{{Name: "users", Columns: []string{"id"}, Rows: 1}},
		LinesRead: 10,
	}
	require.NoError(t, report.WriteFile(path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(contents, &decoded))
	require.Len(t, decoded.Tables, 1)
	assert.Equal(t, "users", decoded.Tables[0].Name)
	assert.Equal(t, 10, decoded.LinesRead)
}
