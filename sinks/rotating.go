package sinks

import (
	"bufio"
	"fmt"
	"os"

	"github.com/tessonics/spdlog"
)

// RotatingFileSink appends to a base filename, rotating to numbered
// backups (base.1.log, base.2.log, ...) once the active file would exceed
// maxFileSize bytes. Ported from gavriva-rlog/filewriter.go's rotation
// logic, generalized from a baked-in "3 backups" constant to a
// configurable maxBackups, matching
// original_source/include/spdlog/sinks/rotating_file_sink.h.
type RotatingFileSink struct {
	base
	baseName    string
	maxFileSize int64
	maxBackups  int

	fp       *os.File
	w        *bufio.Writer
	fileSize int64
}

// NewRotatingFileSink opens baseName+".log" for append, rotating once it
// exceeds maxFileSize bytes and keeping at most maxBackups prior files.
func NewRotatingFileSink(baseName string, maxFileSize int64, maxBackups int, minLevel spdlog.Level) (*RotatingFileSink, error) {
	if maxFileSize <= 0 {
		maxFileSize = 1e9
	}
	if maxBackups <= 0 {
		maxBackups = 3
	}

	s := &RotatingFileSink{
		base:        newBase(minLevel),
		baseName:    baseName,
		maxFileSize: maxFileSize,
		maxBackups:  maxBackups,
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RotatingFileSink) logFileName(num int) string {
	if num <= 0 {
		return fmt.Sprintf("%s.log", s.baseName)
	}
	return fmt.Sprintf("%s.%d.log", s.baseName, num)
}

func (s *RotatingFileSink) open() error {
	fp, err := os.OpenFile(s.logFileName(0), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0664)
	if err != nil {
		return fmt.Errorf("spdlog: open %q: %w", s.logFileName(0), err)
	}
	s.fp = fp
	s.w = bufio.NewWriterSize(fp, 128*1024)

	if fi, err := fp.Stat(); err == nil {
		s.fileSize = fi.Size()
	}
	return nil
}

func (s *RotatingFileSink) Log(r spdlog.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := s.format(r)
	defer putFormatBuf(buf)

	if s.fileSize+int64(buf.Len()) > s.maxFileSize {
		if err := s.rotate(); err != nil {
			return err
		}
	}

	n, err := s.w.Write(buf.Bytes())
	s.fileSize += int64(n)
	if err != nil {
		return fmt.Errorf("spdlog: write %q: %w", s.baseName, err)
	}
	return nil
}

// rotate closes the active file, shifts numbered backups up by one, and
// opens a fresh base file. Caller holds s.mu.
func (s *RotatingFileSink) rotate() error {
	_ = s.w.Flush()
	_ = s.fp.Close()

	for i := s.maxBackups; i > 0; i-- {
		_ = os.Rename(s.logFileName(i-1), s.logFileName(i))
	}

	s.fileSize = 0
	fp, err := os.OpenFile(s.logFileName(0), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0664)
	if err != nil {
		return fmt.Errorf("spdlog: rotate %q: %w", s.baseName, err)
	}
	s.fp = fp
	s.w.Reset(fp)
	return nil
}

func (s *RotatingFileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("spdlog: flush %q: %w", s.baseName, err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (s *RotatingFileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.w.Flush()
	return s.fp.Close()
}
