package dump

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/naruebet-orgl/sqlsift/pkg/common/dto"
	"github.com/naruebet-orgl/sqlsift/pkg/sink"
	"github.com/pterm/pterm"
)

// RowTransform is an optional hook applied to every row between tokenizing
// and the sink write. keep=false drops the row without a warning.
type RowTransform interface {
	Apply(table string, columns []string, row sink.Row) (out sink.Row, keep bool, err error)
}

type Options struct {
	// Tables restricts extraction to the named tables. Empty means all.
	Tables []string
	// Transform is applied per row when non-nil.
	Transform RowTransform
}

// Extractor drives a single forward pass over a dump, switching table context
// on CREATE TABLE boundaries and routing tokenized INSERT rows to one sink
// per table. It never seeks backward and never buffers more than the current
// line.
type Extractor struct {
	sinks sink.Factory
	opts  Options
}

func NewExtractor(sinks sink.Factory, opts Options) *Extractor {
	return &Extractor{sinks: sinks, opts: opts}
}

type driverState int

const (
	stateNoTable driverState = iota
	stateInSchema
	stateReady
)

// tableContext is the per-table slice of the parser state. It is reset
// whenever a new CREATE TABLE header is encountered.
type tableContext struct {
	name    string
	columns []string
	skip    bool
	failed  bool
	sink    sink.TableSink
	report  *dto.TableReport
}

// Run streams the dump once and returns a summary. The summary is always
// non-nil, even when the run was cancelled or a sink failed. Cancellation is
// cooperative: the context is checked between lines and any open sink is left
// flushed.
func (e *Extractor) Run(ctx context.Context, r io.Reader) (*dto.Report, error) {
	report := &dto.Report{}

	run := &extractRun{
		extractor: e,
		report:    report,
		tracker:   &schemaTracker{},
		state:     stateNoTable,
	}

	br := bufio.NewReaderSize(r, 1<<20)
	for {
		if err := ctx.Err(); err != nil {
			run.finishTable()
			return report, err
		}

		line, err := br.ReadString('\n')
		if len(line) > 0 {
			report.LinesRead++
			run.processLine(line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			run.finishTable()
			return report, fmt.Errorf("read dump: %w", err)
		}
	}

	run.finishTable()
	return report, nil
}

type extractRun struct {
	extractor *Extractor
	report    *dto.Report
	tracker   *schemaTracker
	state     driverState
	cur       *tableContext
}

func (r *extractRun) processLine(line string) {
	if m := createTableRe.FindStringSubmatch(line); m != nil {
		r.finishTable()
		r.beginTable(m[1])
		return
	}

	switch {
	case r.state == stateInSchema:
		r.feedSchema(line)
	case strings.HasPrefix(line, "INSERT INTO"):
		r.processInsert(line)
	}
}

func (r *extractRun) beginTable(name string) {
	r.cur = &tableContext{name: name}
	r.cur.skip = !r.extractor.wantsTable(name)
	r.tracker.begin(name)
	r.state = stateInSchema
	pterm.Debug.Printfln("Found table: %s", name)
}

func (r *extractRun) feedSchema(line string) {
	if !r.tracker.feed(line) {
		return
	}

	// statement terminator reached, the schema is now immutable
	r.cur.columns = r.tracker.columns
	r.state = stateReady
	for _, d := range r.tracker.duplicates {
		r.warn(dto.WARN_DUPLICATE_COLUMN, fmt.Sprintf("table %s declares column %s more than once", r.cur.name, d))
	}
	if !r.cur.skip {
		r.cur.report = &dto.TableReport{Name: r.cur.name, Columns: r.cur.columns}
		r.report.Tables = append(r.report.Tables, r.cur.report)
	}
}

func (r *extractRun) processInsert(line string) {
	if r.state != stateReady || r.cur == nil {
		r.warn(dto.WARN_INSERT_BEFORE_SCHEMA, "INSERT statement before any CREATE TABLE, skipped")
		return
	}
	if r.cur.skip || r.cur.failed {
		return
	}

	if m := insertIntoRe.FindStringSubmatch(line); m != nil && m[1] != r.cur.name {
		// a well-formed dump keeps all INSERTs of a table contiguous; we
		// attribute the rows to the active table but flag the oddity
		r.warn(dto.WARN_MISATTRIBUTED_INSERT,
			fmt.Sprintf("INSERT names table %s while %s is active", m[1], r.cur.name))
	}

	idx := strings.Index(line, "VALUES")
	if idx < 0 {
		return
	}
	values := strings.TrimSpace(line[idx+len("VALUES"):])
	values = strings.TrimSuffix(values, ";")

	if r.cur.sink == nil && !r.openSink() {
		return
	}

	ts := newTupleScanner(values)
	for {
		fields, ok, err := ts.next()
		if !ok {
			break
		}
		if err != nil {
			r.cur.report.SkippedRows++
			r.warnTable(dto.WARN_MALFORMED_LITERAL, r.cur.name, err.Error())
			continue
		}
		if len(fields) != len(r.cur.columns) {
			r.cur.report.SkippedRows++
			r.warnTable(dto.WARN_ARITY_MISMATCH, r.cur.name,
				fmt.Sprintf("row has %d fields, expected %d", len(fields), len(r.cur.columns)))
			continue
		}

		row := sink.Row(fields)
		if t := r.extractor.opts.Transform; t != nil {
			out, keep, err := t.Apply(r.cur.name, r.cur.columns, row)
			if err != nil {
				r.cur.report.SkippedRows++
				r.warnTable(dto.WARN_TRANSFORM_FAILURE, r.cur.name, err.Error())
				continue
			}
			if !keep {
				r.cur.report.DroppedRows++
				continue
			}
			row = out
		}

		if err := r.cur.sink.WriteRow(row); err != nil {
			r.failTable(fmt.Errorf("write row: %w", err))
			return
		}
		r.cur.report.Rows++
	}
}

// openSink lazily opens the active table's sink and writes the header exactly
// once. A failure here is fatal for this table only.
func (r *extractRun) openSink() bool {
	s, err := r.extractor.sinks(r.cur.name, r.cur.columns)
	if err != nil {
		r.failTable(fmt.Errorf("open sink: %w", err))
		return false
	}
	r.cur.sink = s
	if err := s.WriteHeader(r.cur.columns); err != nil {
		r.failTable(fmt.Errorf("write header: %w", err))
		return false
	}
	return true
}

// failTable marks the active table incomplete and closes its sink; the run
// proceeds with the next table.
func (r *extractRun) failTable(err error) {
	r.warnTable(dto.WARN_SINK_FAILURE, r.cur.name, err.Error())
	r.cur.failed = true
	if r.cur.report != nil {
		r.cur.report.Incomplete = true
	}
	if r.cur.sink != nil {
		if cerr := r.cur.sink.Close(); cerr != nil {
			pterm.Debug.Printfln("Error closing sink for %s: %s", r.cur.name, cerr)
		}
		r.cur.sink = nil
	}
}

func (r *extractRun) finishTable() {
	if r.cur == nil {
		return
	}
	if r.cur.sink != nil {
		s := r.cur.sink
		r.cur.sink = nil
		if err := s.Close(); err != nil {
			r.warnTable(dto.WARN_SINK_FAILURE, r.cur.name, fmt.Sprintf("close sink: %s", err))
			if r.cur.report != nil {
				r.cur.report.Incomplete = true
			}
		}
		if r.cur.report != nil {
			// size is read after Close so that flushed bytes are counted
			if sized, ok := s.(sink.Sized); ok {
				r.cur.report.SizeBytes = sized.Size()
			}
			pterm.Debug.Printfln("Saved %d rows of table %s", r.cur.report.Rows, r.cur.name)
		}
	}
	r.cur = nil
	r.state = stateNoTable
}

func (e *Extractor) wantsTable(name string) bool {
	if len(e.opts.Tables) == 0 {
		return true
	}
	for _, t := range e.opts.Tables {
		if t == name {
			return true
		}
	}
	return false
}

func (r *extractRun) warn(kind dto.WarningKind, detail string) {
	r.warnTable(kind, "", detail)
}

func (r *extractRun) warnTable(kind dto.WarningKind, table string, detail string) {
	r.report.Warnings = append(r.report.Warnings, dto.Warning{
		Kind:   kind,
		Table:  table,
		Line:   r.report.LinesRead,
		Detail: detail,
	})
	pterm.Debug.Printfln("Warning (%s): %s", kind, detail)
}
