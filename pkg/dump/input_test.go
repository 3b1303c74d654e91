package dump

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.sql")
	require.NoError(t, os.WriteFile(path, []byte(twoTableDump), 0644))

	in, err := Open(path, "", nil)
	require.NoError(t, err)
	defer in.Close()

	contents, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, twoTableDump, string(contents))
	assert.Equal(t, int64(len(twoTableDump)), Size(path))
}

func TestOpenEncryptedDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.sql.enc")

	recipient, err := age.NewScryptRecipient("secret")
	require.NoError(t, err)
	f, err := os.Create(path)
	require.NoError(t, err)
	wc, err := age.Encrypt(f, recipient)
	require.NoError(t, err)
	_, err = wc.Write([]byte(twoTableDump))
	require.NoError(t, err)
	require.NoError(t, wc.Close())
	require.NoError(t, f.Close())

	assert.True(t, IsEncrypted(path))

	in, err := Open(path, "secret", nil)
	require.NoError(t, err)
	defer in.Close()

	contents, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, twoTableDump, string(contents))
}

func TestOpenEncryptedDumpWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.sql.enc")

	recipient, err := age.NewScryptRecipient("secret")
	require.NoError(t, err)
	f, err := os.Create(path)
	require.NoError(t, err)
	wc, err := age.Encrypt(f, recipient)
	require.NoError(t, err)
	_, err = wc.Write([]byte("CREATE TABLE `t` ();\n"))
	require.NoError(t, err)
	require.NoError(t, wc.Close())
	require.NoError(t, f.Close())

	_, err = Open(path, "wrong", nil)
	assert.Error(t, err)
}

func TestSizeOfStdin(t *testing.T) {
	assert.Equal(t, int64(0), Size("-"))
}
