package spdlog

import "github.com/tessonics/spdlog/pattern"

// Sink is the abstract output capability every log destination implements:
// accept a record, optionally flush, and own a formatter and a per-sink
// level threshold. Implementations are responsible for their own thread
// safety; concrete sinks live in the sinks subpackage.
type Sink interface {
	// Log delivers one record. Called from arbitrary goroutines; sinks
	// that need serialization must provide their own locking.
	Log(r LogRecord) error
	Flush() error
	SetPattern(pat string) error
	SetFormatter(f pattern.Formatter)
	// Accepts reports whether this sink's own level threshold admits
	// level. The Logger consults this before calling Log.
	Accepts(level Level) bool
	SetLevel(level Level)
}
