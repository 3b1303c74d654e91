package sink

// MemoryTable holds one extracted table in memory.
type MemoryTable struct {
	Name    string
	Columns []string
	Rows    []Row
}

// MemoryStore collects extracted tables into an explicit name -> table
// mapping which is handed back to the caller.
type MemoryStore struct {
	Tables map[string]*MemoryTable
	// Order lists table names in the order they were discovered.
	Order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Tables: make(map[string]*MemoryTable)}
}

func (s *MemoryStore) Factory() Factory {
	return func(table string, columns []string) (TableSink, error) {
		mt := &MemoryTable{Name: table}
		if _, exists := s.Tables[table]; !exists {
			s.Order = append(s.Order, table)
		}
		s.Tables[table] = mt
		return &memorySink{table: mt}, nil
	}
}

type memorySink struct {
	table *MemoryTable
}

func (m *memorySink) WriteHeader(columns []string) error {
	m.table.Columns = columns
	return nil
}

func (m *memorySink) WriteRow(row Row) error {
	copied := make(Row, len(row))
	copy(copied, row)
	m.table.Rows = append(m.table.Rows, copied)
	return nil
}

func (m *memorySink) Close() error {
	return nil
}
