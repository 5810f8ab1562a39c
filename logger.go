package spdlog

import (
	"bytes"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tessonics/spdlog/internal/errhelper"
	"github.com/tessonics/spdlog/internal/osutil"
	"github.com/tessonics/spdlog/pattern"
)

var bufPool = sync.Pool{
	New: func() interface{} {
		return &bytes.Buffer{}
	},
}

// Option configures a Logger at construction time.
type Option func(*Logger)

// WithCaller enables capturing the call-site file/line/function on every
// log call, the generalized form of the teacher's showFileLine bool.
func WithCaller(enabled bool) Option {
	return func(l *Logger) { l.addCaller = enabled }
}

// WithErrorHandler installs a custom error handler at construction time,
// equivalent to calling SetErrorHandler immediately after New.
func WithErrorHandler(h errhelper.Handler) Option {
	return func(l *Logger) { l.relay.SetHandler(h) }
}

// Logger is the per-logger front end: level filtering, formatting,
// per-sink fan-out, error isolation, and conditional flush. All exported
// methods are safe for concurrent use except SetFormatter/SetPattern,
// which must not race with concurrent Log calls (documented, not
// enforced, matching spec.md's non-thread-safe sinks-mutation contract).
type Logger struct {
	name string

	mu        sync.RWMutex // guards sinks slice replacement (clone, set*)
	sinks     []Sink
	addCaller bool

	level      atomic.Int32
	flushLevel atomic.Int32

	relay errhelper.Relay
}

// New constructs a Logger with the given name and downstream sinks. The
// default level is Trace (everything passes) and the default flush level
// is Off (never auto-flush), matching spdlog's logger defaults.
func New(name string, sinks []Sink, opts ...Option) *Logger {
	l := &Logger{
		name:  name,
		sinks: append([]Sink(nil), sinks...),
	}
	l.level.Store(int32(Trace))
	l.flushLevel.Store(int32(Off))
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the logger's immutable name.
func (l *Logger) Name() string { return l.name }

// Level returns the current minimum level (relaxed load; the authoritative
// admission check is each sink's own Accepts).
func (l *Logger) Level() Level { return Level(l.level.Load()) }

// SetLevel atomically changes the minimum level.
func (l *Logger) SetLevel(level Level) { l.level.Store(int32(level)) }

// FlushLevel returns the level at or above which Log triggers an automatic
// Flush. Off means "never flush automatically".
func (l *Logger) FlushLevel() Level { return Level(l.flushLevel.Load()) }

// SetFlushLevel atomically changes the flush threshold.
func (l *Logger) SetFlushLevel(level Level) { l.flushLevel.Store(int32(level)) }

// SetErrorHandler installs a handler invoked whenever a sink or formatter
// fails. Passing nil restores the default rate-limited stderr report.
func (l *Logger) SetErrorHandler(h errhelper.Handler) {
	l.relay.SetHandler(h)
}

// SetFormatter clones f onto every sink but the last, which receives f
// itself, mirroring spdlog's logger::set_formatter. Must not be called
// concurrently with Log on the same Logger.
func (l *Logger) SetFormatter(f pattern.Formatter) {
	l.mu.RLock()
	sinks := l.sinks
	l.mu.RUnlock()

	for i, s := range sinks {
		if i == len(sinks)-1 {
			s.SetFormatter(f)
			break
		}
		s.SetFormatter(f.Clone())
	}
}

// SetPattern is equivalent to SetFormatter(pattern.New(pat, timeType)).
func (l *Logger) SetPattern(pat string, timeType pattern.TimeType) {
	l.SetFormatter(pattern.New(pat, timeType))
}

// Clone produces a Logger with the same sinks, levels, and error handler
// but a new name. Sinks are shared, not copied: each sink is responsible
// for its own thread safety, so the same sink may legitimately be
// dispatched to from more than one Logger.
func (l *Logger) Clone(newName string) *Logger {
	l.mu.RLock()
	sinks := append([]Sink(nil), l.sinks...)
	l.mu.RUnlock()

	clone := &Logger{
		name:      newName,
		sinks:     sinks,
		addCaller: l.addCaller,
	}
	clone.level.Store(l.level.Load())
	clone.flushLevel.Store(l.flushLevel.Load())
	clone.relay = l.relay
	return clone
}

// Logf formats according to format/args and logs at level, capturing the
// current time and (if enabled) the caller's location. There is no
// separate FormatError path to route through the error relay: the one
// place spdlog's C++ formatting can fail (an argument/verb mismatch) is a
// non-event in Go's fmt package, which renders a "%!d(string=x)" or
// "%!v(MISSING)"-style marker instead of panicking.
func (l *Logger) Logf(level Level, format string, args ...interface{}) {
	if level < l.Level() {
		return
	}
	now := time.Now()

	buf := bufPool.Get().(*bytes.Buffer)
	fmt.Fprintf(buf, format, args...)
	l.dispatch(now, level, buf.Bytes(), l.callerLoc(2))
	buf.Reset()
	bufPool.Put(buf)
}

// Log logs text verbatim at level, with no formatting step.
func (l *Logger) Log(level Level, text string) {
	if level < l.Level() {
		return
	}
	l.dispatch(time.Now(), level, []byte(text), l.callerLoc(2))
}

// LogAt is Log with a caller-supplied timestamp, used by callers replaying
// or forwarding records that happened at a different time than now.
func (l *Logger) LogAt(when time.Time, level Level, text string) {
	if level < l.Level() {
		return
	}
	l.dispatch(when, level, []byte(text), l.callerLoc(2))
}

func (l *Logger) callerLoc(skip int) SourceLoc {
	if !l.addCaller {
		return SourceLoc{}
	}
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return SourceLoc{}
	}
	fn := runtime.FuncForPC(pc)
	funcName := ""
	if fn != nil {
		funcName = fn.Name()
	}
	return SourceLoc{File: filepath.Base(file), Line: line, Function: funcName}
}

// dispatch fans a borrowed record out to every sink in order, isolating
// each sink's failures via the error relay, then conditionally flushes.
func (l *Logger) dispatch(when time.Time, level Level, payload []byte, loc SourceLoc) {
	rec := LogRecord{
		Level:      level,
		Time:       when,
		ThreadID:   osutil.ThreadID(),
		Source:     loc,
		LoggerName: l.name,
		Payload:    payload,
	}

	l.mu.RLock()
	sinks := l.sinks
	l.mu.RUnlock()

	for _, s := range sinks {
		if !s.Accepts(level) {
			continue
		}
		if err := s.Log(rec); err != nil {
			l.relay.Handle(l.name, errhelper.SourceLoc{File: loc.File, Line: loc.Line}, err)
		}
	}

	if level != Off && level >= l.FlushLevel() {
		l.flush(sinks)
	}
}

// Flush invokes Flush on every sink, each call isolated by the error
// relay.
func (l *Logger) Flush() {
	l.mu.RLock()
	sinks := l.sinks
	l.mu.RUnlock()
	l.flush(sinks)
}

func (l *Logger) flush(sinks []Sink) {
	for _, s := range sinks {
		if err := s.Flush(); err != nil {
			l.relay.Handle(l.name, errhelper.SourceLoc{}, err)
		}
	}
}
