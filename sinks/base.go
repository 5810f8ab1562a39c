// Package sinks provides concrete implementations of the spdlog.Sink
// capability: console, file, rotating file, daily file, UDP, null, a
// fan-out multi-sink, a test harness sink, and the asynchronous
// decoupling sink. Every concrete sink that embeds base guards its
// formatter and state with base's mutex (the teacher package's pattern of a
// LogFormatter-level mutex, pushed down to per-sink so sinks remain
// individually safe to share across Loggers, per spdlog.Logger.Clone's
// documented shared-sink contract). MultiSink has no lock of its own and
// relies on its downstream sinks; AsyncSink relies on its queue.
package sinks

import (
	"bytes"
	"sync"

	"github.com/tessonics/spdlog"
	"github.com/tessonics/spdlog/pattern"
)

// base holds the formatter and level state common to every concrete sink
// and implements the formatter-facing half of spdlog.Sink. Concrete sinks
// embed base and implement Log/Flush themselves.
type base struct {
	mu        sync.Mutex
	level     spdlog.Level
	formatter pattern.Formatter
}

func newBase(level spdlog.Level) base {
	return base{
		level:     level,
		formatter: pattern.New("", pattern.LocalTime),
	}
}

func (b *base) Accepts(level spdlog.Level) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return level >= b.level
}

func (b *base) SetLevel(level spdlog.Level) {
	b.mu.Lock()
	b.level = level
	b.mu.Unlock()
}

func (b *base) SetFormatter(f pattern.Formatter) {
	b.mu.Lock()
	b.formatter = f
	b.mu.Unlock()
}

func (b *base) SetPattern(pat string) error {
	b.SetFormatter(pattern.New(pat, pattern.LocalTime))
	return nil
}

// format renders r through the sink's formatter into a pooled buffer. The
// caller must already hold b.mu (format reads b.formatter under that
// lock) and must return the buffer via putFormatBuf when done.
func (b *base) format(r spdlog.LogRecord) *bytes.Buffer {
	buf := formatBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	b.formatter.Format(toPatternRecord(r), buf)
	return buf
}

var formatBufPool = sync.Pool{
	New: func() interface{} { return &bytes.Buffer{} },
}

func putFormatBuf(buf *bytes.Buffer) {
	formatBufPool.Put(buf)
}

func toPatternRecord(r spdlog.LogRecord) pattern.Record {
	return pattern.Record{
		Level:      r.Level.String(),
		LevelShort: r.Level.ShortString(),
		Time:       r.Time,
		ThreadID:   r.ThreadID,
		File:       r.Source.File,
		Line:       r.Source.Line,
		Function:   r.Source.Function,
		LoggerName: r.LoggerName,
		Payload:    r.Payload,
	}
}
