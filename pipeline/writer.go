package pipeline

import (
	"bufio"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

const procSuffix = ".proc"

// procWriter buffers writes into a sibling temp file and renames it over
// the final path on Commit, so a crash mid-write never leaves a truncated
// file at the destination.
type procWriter struct {
	path string
	tmp  *os.File
	buf  *bufio.Writer
}

func newProcWriter(path string) (*procWriter, error) {
	tmp, err := os.Create(path + procSuffix)
	if err != nil {
		return nil, errors.Wrapf(err, "creating temp file for %s", path)
	}
	return &procWriter{path: path, tmp: tmp, buf: bufio.NewWriter(tmp)}, nil
}

func (w *procWriter) WriteString(s string) error {
	_, err := w.buf.WriteString(s)
	return errors.Wrapf(err, "writing %s", w.path)
}

func (w *procWriter) ReadFrom(r io.Reader) error {
	_, err := io.Copy(w.buf, r)
	return errors.Wrapf(err, "writing %s", w.path)
}

// Commit flushes, closes and moves the temp file into place.
func (w *procWriter) Commit() error {
	if err := w.buf.Flush(); err != nil {
		return errors.Wrapf(err, "flushing %s", w.path)
	}
	if err := w.tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", w.path)
	}
	return errors.Wrapf(os.Rename(w.tmp.Name(), w.path), "moving %s into place", w.path)
}

// Discard abandons the temp file. Safe to call after Commit.
func (w *procWriter) Discard() {
	_ = w.tmp.Close()
	_ = os.Remove(w.tmp.Name())
}
