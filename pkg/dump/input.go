package dump

import (
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
	"github.com/pterm/pterm"
)

const encryptedSuffix = ".enc"

// IsEncrypted reports whether path points at an age-encrypted dump.
func IsEncrypted(path string) bool {
	return strings.HasSuffix(path, encryptedSuffix)
}

// Size returns the on-disk size of the dump, or 0 when it cannot be
// determined (stdin). Used to dimension progress bars; progress is counted in
// ciphertext bytes for encrypted dumps.
func Size(path string) int64 {
	if path == "-" {
		return 0
	}
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

// Open returns a reader for the dump at path. "-" means stdin. Dumps ending
// in .enc are decrypted on the fly with an age scrypt identity derived from
// password. When pb is non-nil, every byte read from the underlying file is
// added to it.
func Open(path string, password string, pb *pterm.ProgressbarPrinter) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open dump file: %w", err)
	}

	var r io.Reader = f
	if pb != nil {
		r = &progressReader{r: r, pb: pb}
	}

	if IsEncrypted(path) {
		identity, err := age.NewScryptIdentity(password)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		decrypted, err := age.Decrypt(r, identity)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("error decrypting dump - most likely, the password was wrong: %w", err)
		}
		r = decrypted
	}

	return &dumpReader{r: r, c: f}, nil
}

type dumpReader struct {
	r io.Reader
	c io.Closer
}

func (d *dumpReader) Read(p []byte) (int, error) { return d.r.Read(p) }
func (d *dumpReader) Close() error               { return d.c.Close() }

// progressReader counts the number of bytes read through it and adds those to
// a progressbar.
type progressReader struct {
	r     io.Reader
	pb    *pterm.ProgressbarPrinter
	Total uint64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.Total += uint64(n)
	p.pb.Add(n)
	return n, err
}
