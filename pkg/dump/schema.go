package dump

import (
	"regexp"
	"strings"
)

var (
	createTableRe = regexp.MustCompile("^CREATE TABLE `(\\w+)`")
	insertIntoRe  = regexp.MustCompile("^INSERT INTO `(\\w+)`")
	columnRe      = regexp.MustCompile("^`(\\w+)`")
)

type trackerState int

const (
	trackerIdle trackerState = iota
	trackerAwaitingColumns
	trackerClosed
)

// schemaTracker accumulates the ordered column-name list of the CREATE TABLE
// statement currently being declared. Column types, lengths and constraints
// are discarded; the extractor's output model carries untyped text fields.
type schemaTracker struct {
	state      trackerState
	table      string
	columns    []string
	duplicates []string
}

func (t *schemaTracker) begin(table string) {
	t.state = trackerAwaitingColumns
	t.table = table
	t.columns = nil
	t.duplicates = nil
}

// feed consumes one line of the CREATE TABLE body and reports whether the
// closing construct was reached.
func (t *schemaTracker) feed(line string) (done bool) {
	if t.state != trackerAwaitingColumns {
		return false
	}

	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, ")") {
		t.state = trackerClosed
		return true
	}

	// constraint lines carry no column declaration
	if strings.HasPrefix(trimmed, "PRIMARY") || strings.HasPrefix(trimmed, "KEY") {
		return false
	}

	if m := columnRe.FindStringSubmatch(trimmed); m != nil {
		name := m[1]
		for _, existing := range t.columns {
			if existing == name {
				t.duplicates = append(t.duplicates, name)
				break
			}
		}
		// duplicates are kept: the dump said so, the caller gets a warning
		t.columns = append(t.columns, name)
	}

	return false
}
