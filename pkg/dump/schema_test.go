package dump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaTrackerCollectsColumnsInOrder(t *testing.T) {
	var tracker schemaTracker
	tracker.begin("users")

	body := []string{
		"  `id` int(11) NOT NULL AUTO_INCREMENT,\n",
		"  `name` varchar(255) DEFAULT NULL,\n",
		"  `created_at` datetime DEFAULT CURRENT_TIMESTAMP,\n",
		"  PRIMARY KEY (`id`),\n",
		"  KEY `idx_name` (`name`)\n",
		") ENGINE=InnoDB AUTO_INCREMENT=42 DEFAULT CHARSET=utf8mb4;\n",
	}

	var done bool
	for _, line := range body {
		done = tracker.feed(line)
	}

	assert.True(t, done)
	assert.Equal(t, []string{"id", "name", "created_at"}, tracker.columns)
	assert.Empty(t, tracker.duplicates)
}

func TestSchemaTrackerKeepsDuplicateColumns(t *testing.T) {
	var tracker schemaTracker
	tracker.begin("odd")

	tracker.feed("  `a` int,\n")
	tracker.feed("  `a` text,\n")
	done := tracker.feed(") ENGINE=InnoDB;\n")

	require.True(t, done)
	assert.Equal(t, []string{"a", "a"}, tracker.columns)
	assert.Equal(t, []string{"a"}, tracker.duplicates)
}

func TestSchemaTrackerIgnoresLinesAfterClose(t *testing.T) {
	var tracker schemaTracker
	tracker.begin("t")
	tracker.feed("  `a` int\n")
	require.True(t, tracker.feed(");\n"))

	assert.False(t, tracker.feed("  `b` int\n"))
	assert.Equal(t, []string{"a"}, tracker.columns)
}

func TestCreateTableHeaderPattern(t *testing.T) {
	m := createTableRe.FindStringSubmatch("CREATE TABLE `bmr_master` (\n")
	require.NotNil(t, m)
	assert.Equal(t, "bmr_master", m[1])

	assert.Nil(t, createTableRe.FindStringSubmatch("-- CREATE TABLE `commented_out`"))
}
