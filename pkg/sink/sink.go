package sink

// Row is one record routed to a table sink. A nil entry is SQL NULL; how that
// is rendered (empty CSV cell, database NULL) is up to the sink.
type Row = []*string

// TableSink receives a header exactly once, followed by same-width rows.
type TableSink interface {
	WriteHeader(columns []string) error
	WriteRow(row Row) error
	Close() error
}

// Factory opens the sink for one table, truncating any previous output for
// that table. The extractor calls it lazily, on the first INSERT it sees.
type Factory func(table string, columns []string) (TableSink, error)

// Sized is implemented by sinks which can report how many bytes they wrote.
type Sized interface {
	Size() uint64
}
