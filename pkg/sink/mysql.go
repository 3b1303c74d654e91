package sink

import (
	"database/sql"
	"fmt"
	"strings"
)

// MysqlSink streams rows of one table into a live MySQL database. All columns
// are created as TEXT; the extractor's data model carries untyped text fields
// only.
type MysqlSink struct {
	db    *sql.DB
	table string
	stmt  *sql.Stmt
}

// MysqlFactory returns a Factory which drops and re-creates each table on the
// given connection before inserting its rows.
func MysqlFactory(db *sql.DB) Factory {
	return func(table string, columns []string) (TableSink, error) {
		return &MysqlSink{db: db, table: table}, nil
	}
}

func (s *MysqlSink) WriteHeader(columns []string) error {
	if _, err := s.db.Exec(DropTableStatement(s.table)); err != nil {
		return fmt.Errorf("drop table %s: %w", s.table, err)
	}
	if _, err := s.db.Exec(CreateTableStatement(s.table, columns)); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}

	stmt, err := s.db.Prepare(InsertStatement(s.table, len(columns)))
	if err != nil {
		return fmt.Errorf("prepare insert for %s: %w", s.table, err)
	}
	s.stmt = stmt
	return nil
}

func (s *MysqlSink) WriteRow(row Row) error {
	args := make([]interface{}, len(row))
	for i, v := range row {
		if v != nil {
			args[i] = *v
		}
	}
	if _, err := s.stmt.Exec(args...); err != nil {
		return fmt.Errorf("insert into %s: %w", s.table, err)
	}
	return nil
}

func (s *MysqlSink) Close() error {
	if s.stmt == nil {
		return nil
	}
	return s.stmt.Close()
}

func DropTableStatement(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS `%s`", table)
}

func CreateTableStatement(table string, columns []string) string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = fmt.Sprintf("`%s` TEXT", c)
	}
	return fmt.Sprintf("CREATE TABLE `%s` (%s)", table, strings.Join(cols, ", "))
}

func InsertStatement(table string, columns int) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", columns), ", ")
	return fmt.Sprintf("INSERT INTO `%s` VALUES (%s)", table, placeholders)
}
