package sinks

import (
	"errors"

	"github.com/tessonics/spdlog"
	"github.com/tessonics/spdlog/pattern"
)

// MultiSink fans a record out to N downstream sinks, generalizing
// gavriva-rlog/multiwriter.go from a fixed first/second pair to an
// arbitrary slice. Each downstream failure is collected rather than
// aborting the fan-out early, so one failing downstream never prevents
// the others from receiving the record.
type MultiSink struct {
	downstream []spdlog.Sink
}

// NewMultiSink wraps the given sinks as a single composite Sink.
func NewMultiSink(downstream ...spdlog.Sink) *MultiSink {
	return &MultiSink{downstream: downstream}
}

func (m *MultiSink) Accepts(level spdlog.Level) bool {
	for _, s := range m.downstream {
		if s.Accepts(level) {
			return true
		}
	}
	return false
}

func (m *MultiSink) Log(r spdlog.LogRecord) error {
	var errs []error
	for _, s := range m.downstream {
		if !s.Accepts(r.Level) {
			continue
		}
		if err := s.Log(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) Flush() error {
	var errs []error
	for _, s := range m.downstream {
		if err := s.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) SetPattern(pat string) error {
	f := pattern.New(pat, pattern.LocalTime)
	m.SetFormatter(f)
	return nil
}

// SetFormatter clones f onto every downstream sink but the last, mirroring
// spdlog.Logger.SetFormatter's convention at the sink-fan-out level.
func (m *MultiSink) SetFormatter(f pattern.Formatter) {
	for i, s := range m.downstream {
		if i == len(m.downstream)-1 {
			s.SetFormatter(f)
			break
		}
		s.SetFormatter(f.Clone())
	}
}

// SetLevel sets the same level threshold on every downstream sink.
func (m *MultiSink) SetLevel(level spdlog.Level) {
	for _, s := range m.downstream {
		s.SetLevel(level)
	}
}
