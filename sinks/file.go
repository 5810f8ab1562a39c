package sinks

import (
	"bufio"
	"fmt"
	"os"

	"github.com/tessonics/spdlog"
)

// FileSink appends formatted records to a single file on disk, with no
// rotation. Generalizes gavriva-rlog's FileWriter with the rotation logic
// split out into RotatingFileSink.
type FileSink struct {
	base
	filename string
	fp       *os.File
	w        *bufio.Writer
}

// NewFileSink opens (creating if necessary) filename for append.
func NewFileSink(filename string, minLevel spdlog.Level) (*FileSink, error) {
	fp, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0664)
	if err != nil {
		return nil, fmt.Errorf("spdlog: open %q: %w", filename, err)
	}
	return &FileSink{
		base:     newBase(minLevel),
		filename: filename,
		fp:       fp,
		w:        bufio.NewWriterSize(fp, 128*1024),
	}, nil
}

func (f *FileSink) Log(r spdlog.LogRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	buf := f.format(r)
	defer putFormatBuf(buf)

	if _, err := f.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("spdlog: write %q: %w", f.filename, err)
	}
	return nil
}

func (f *FileSink) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.w.Flush(); err != nil {
		return fmt.Errorf("spdlog: flush %q: %w", f.filename, err)
	}
	return nil
}

// Close flushes and closes the underlying file. Not part of the Sink
// capability (spec.md's Sink contract has no Close); callers that own a
// FileSink outright should call this during their own shutdown.
func (f *FileSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = f.w.Flush()
	return f.fp.Close()
}
