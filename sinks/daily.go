package sinks

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/tessonics/spdlog"
)

// DailyFileSink writes to a filename stamped with the current calendar
// day, rotating to a new file the first time a record is logged on a
// later day than the currently open file. Supplements the PURPOSE
// section's "daily" destination, which spec.md's distilled scope doesn't
// otherwise name; grounded on the same rotate-the-active-file idea as
// RotatingFileSink, keyed on date instead of size.
type DailyFileSink struct {
	base
	baseName   string
	currentDay string

	fp *os.File
	w  *bufio.Writer
}

// NewDailyFileSink opens (or creates) today's file, named
// "<baseName>-YYYY-MM-DD.log".
func NewDailyFileSink(baseName string, minLevel spdlog.Level) (*DailyFileSink, error) {
	s := &DailyFileSink{
		base:     newBase(minLevel),
		baseName: baseName,
	}
	if err := s.rollTo(time.Now()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DailyFileSink) dayFileName(day string) string {
	return fmt.Sprintf("%s-%s.log", s.baseName, day)
}

// rollTo opens the file for when's calendar day. Caller holds s.mu except
// during construction.
func (s *DailyFileSink) rollTo(when time.Time) error {
	day := when.Format("2006-01-02")

	if s.fp != nil {
		_ = s.w.Flush()
		_ = s.fp.Close()
	}

	fp, err := os.OpenFile(s.dayFileName(day), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0664)
	if err != nil {
		return fmt.Errorf("spdlog: open %q: %w", s.dayFileName(day), err)
	}
	s.fp = fp
	s.w = bufio.NewWriterSize(fp, 128*1024)
	s.currentDay = day
	return nil
}

func (s *DailyFileSink) Log(r spdlog.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if day := r.Time.Format("2006-01-02"); day > s.currentDay {
		if err := s.rollTo(r.Time); err != nil {
			return err
		}
	}

	buf := s.format(r)
	defer putFormatBuf(buf)

	if _, err := s.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("spdlog: write %q: %w", s.baseName, err)
	}
	return nil
}

func (s *DailyFileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("spdlog: flush %q: %w", s.baseName, err)
	}
	return nil
}

// Close flushes and closes the currently open file.
func (s *DailyFileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.w.Flush()
	return s.fp.Close()
}
