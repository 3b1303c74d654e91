package sink

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMysqlSinkRecreatesTableAndInsertsRows(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DROP TABLE IF EXISTS `users`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE `users` (`id` TEXT, `name` TEXT)").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare("INSERT INTO `users` VALUES (?, ?)")
	mock.ExpectExec("INSERT INTO `users` VALUES (?, ?)").
		WithArgs("1", "alice").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `users` VALUES (?, ?)").
		WithArgs("2", nil).
		WillReturnResult(sqlmock.NewResult(2, 1))

	s, err := MysqlFactory(db)("users", []string{"id", "name"})
	require.NoError(t, err)

	require.NoError(t, s.WriteHeader([]string{"id", "name"}))
	require.NoError(t, s.WriteRow(Row{strPtr("1"), strPtr("alice")}))
	require.NoError(t, s.WriteRow(Row{strPtr("2"), nil}))
	require.NoError(t, s.Close())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMysqlSinkPropagatesInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DROP TABLE IF EXISTS `t`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE `t` (`a` TEXT)").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare("INSERT INTO `t` VALUES (?)")
	mock.ExpectExec("INSERT INTO `t` VALUES (?)").
		WithArgs("x").
		WillReturnError(assert.AnError)

	s, err := MysqlFactory(db)("t", []string{"a"})
	require.NoError(t, err)
	require.NoError(t, s.WriteHeader([]string{"a"}))

	err = s.WriteRow(Row{strPtr("x")})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStatementBuilders(t *testing.T) {
	assert.Equal(t, "DROP TABLE IF EXISTS `users`", DropTableStatement("users"))
	assert.Equal(t, "CREATE TABLE `users` (`id` TEXT, `name` TEXT)", CreateTableStatement("users", []string{"id", "name"}))
	assert.Equal(t, "INSERT INTO `users` VALUES (?, ?)", InsertStatement("users", 2))
}
