package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
)

// File is an output file that only appears at its final path after
// Commit. Paths ending in ".gz" are gzip-compressed.
type File struct {
	tmp    *os.File
	gz     *pgzip.Writer
	path   string
	closed bool
}

// Create opens a temporary file next to path.
func Create(path string) (*File, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	f := &File{tmp: tmp, path: path}
	if strings.HasSuffix(path, ".gz") {
		f.gz = pgzip.NewWriter(tmp)
	}
	return f, nil
}

// Write implements io.Writer.
func (f *File) Write(p []byte) (int, error) {
	if f.gz != nil {
		return f.gz.Write(p)
	}
	return f.tmp.Write(p)
}

// Commit closes the file and renames it to its final path.
func (f *File) Commit() error {
	if f.closed {
		return fmt.Errorf("output file %s already closed", f.path)
	}
	f.closed = true
	if f.gz != nil {
		if err := f.gz.Close(); err != nil {
			f.tmp.Close()
			os.Remove(f.tmp.Name())
			return fmt.Errorf("close gzip writer: %w", err)
		}
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(f.tmp.Name())
		return fmt.Errorf("close output file: %w", err)
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		os.Remove(f.tmp.Name())
		return fmt.Errorf("rename output file: %w", err)
	}
	return nil
}

// Abort discards the temporary file. It is a no-op after Commit.
func (f *File) Abort() {
	if f.closed {
		return
	}
	f.closed = true
	if f.gz != nil {
		f.gz.Close()
	}
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}

// Path returns the final path.
func (f *File) Path() string {
	return f.path
}

var _ io.Writer = (*File)(nil)
