package spdlog

import (
	"time"

	"github.com/tessonics/spdlog/attrs"
)

// SourceLoc is the optional call-site location attached to a LogRecord.
// A zero value means "no location available"; the error relay omits it
// from its report, while pattern directives render it as an empty file name
// and line 0.
type SourceLoc struct {
	File     string
	Line     int
	Function string
}

// Empty reports whether the location carries no information.
func (s SourceLoc) Empty() bool {
	return s.File == "" && s.Line == 0
}

// LogRecord describes one log event. The zero-allocation path constructs a
// record whose LoggerName/Payload reference memory owned by the caller's
// stack frame (the "borrowed" variant in spec terms); Clone produces a copy
// with its own backing storage so the record can cross the async queue
// boundary safely.
type LogRecord struct {
	Level      Level
	Time       time.Time
	ThreadID   uint64
	Source     SourceLoc
	LoggerName string
	Payload    []byte
	Attrs      attrs.Map
}

// Clone returns a LogRecord whose LoggerName and Payload have their own
// backing storage, independent of whatever buffer the caller used to build
// the original record. Used at the AsyncSink enqueue boundary.
func (r LogRecord) Clone() LogRecord {
	out := r
	out.LoggerName = string(append([]byte(nil), r.LoggerName...))
	if r.Payload != nil {
		out.Payload = append([]byte(nil), r.Payload...)
	}
	return out
}
