package dump

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverListsTables(t *testing.T) {
	infos, err := Discover(strings.NewReader(twoTableDump))
	require.NoError(t, err)

	require.Len(t, infos, 2)
	assert.Equal(t, TableInfo{Name: "users", Columns: 2, Inserts: 2}, infos[0])
	assert.Equal(t, TableInfo{Name: "orders", Columns: 3, Inserts: 1}, infos[1])
}

func TestDiscoverEmptyDump(t *testing.T) {
	infos, err := Discover(strings.NewReader("-- no tables here\n"))
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestTableInfoLabelRoundTrip(t *testing.T) {
	label := TableInfo{Name: "users", Columns: 2, Inserts: 7}.Label()
	assert.Equal(t, "users (2 columns, 7 INSERT statements)", label)
}
