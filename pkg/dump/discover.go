package dump

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TableInfo is the result of a discovery pass: one entry per CREATE TABLE
// header, with the column and INSERT statement counts that follow it.
type TableInfo struct {
	Name    string
	Columns int
	Inserts int
}

func (ti TableInfo) Label() string {
	return fmt.Sprintf("%s (%d columns, %d INSERT statements)", ti.Name, ti.Columns, ti.Inserts)
}

// Discover scans a dump forward once and lists its tables without tokenizing
// any values. It backs the `tables` command and the interactive table picker.
func Discover(r io.Reader) ([]TableInfo, error) {
	var (
		infos   []TableInfo
		tracker schemaTracker
		inBody  bool
	)

	br := bufio.NewReaderSize(r, 1<<20)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if m := createTableRe.FindStringSubmatch(line); m != nil {
				infos = append(infos, TableInfo{Name: m[1]})
				tracker.begin(m[1])
				inBody = true
			} else if inBody {
				if tracker.feed(line) {
					infos[len(infos)-1].Columns = len(tracker.columns)
					inBody = false
				}
			} else if len(infos) > 0 && strings.HasPrefix(line, "INSERT INTO") {
				infos[len(infos)-1].Inserts++
			}
		}
		if err == io.EOF {
			return infos, nil
		}
		if err != nil {
			return infos, fmt.Errorf("read dump: %w", err)
		}
	}
}
