// Package pattern implements the Formatter capability spec.md treats as an
// external collaborator: something that turns a log record into bytes
// appended to a caller-supplied buffer. It is conventional plumbing
// compared to the async sink and logger core, but every sink needs one, so
// a default implementation lives here rather than being left abstract.
package pattern

import (
	"bytes"
	"fmt"
	"time"

	"github.com/tessonics/spdlog/internal/osutil"
)

// Record is the minimal view of a log record a Formatter needs. It mirrors
// the root package's LogRecord without importing it, so this package stays
// a leaf dependency usable by every sink.
type Record struct {
	Level      string
	LevelShort string
	Time       time.Time
	ThreadID   uint64
	File       string
	Line       int
	Function   string
	LoggerName string
	Payload    []byte
}

// Formatter converts a Record into bytes appended to out. Clone must
// produce an independent copy so a Logger can hand a distinct formatter
// instance to every downstream sink but the last (see Logger.SetFormatter).
type Formatter interface {
	Format(r Record, out *bytes.Buffer)
	Clone() Formatter
}

// TimeType selects how the pattern formatter renders its time directives
// (%Y %m %d %H %M %S %e): local wall-clock time or UTC.
type TimeType int

const (
	LocalTime TimeType = iota
	UTCTime
)

// PatternFormatter renders a record according to a printf-style pattern.
// Supported directives, modeled on spdlog's pattern_formatter:
//
//	%Y %m %d   year, month, day (zero padded)
//	%H %M %S %e  hour, minute, second, millisecond
//	%n   logger name
//	%l   full level name
//	%L   single-letter level
//	%t   thread id
//	%s %# %!  source file, line, function
//	%v   the payload (the actual log message)
//	%%   literal percent
//
// Anything else in the pattern is copied through verbatim.
type PatternFormatter struct {
	pattern  string
	timeType TimeType
}

// New constructs a PatternFormatter. An empty pattern defaults to
// spdlog's own default: "[%Y-%m-%d %H:%M:%S.%e] [%n] [%l] %v".
func New(pat string, timeType TimeType) *PatternFormatter {
	if pat == "" {
		pat = "[%Y-%m-%d %H:%M:%S.%e] [%n] [%l] %v"
	}
	return &PatternFormatter{pattern: pat, timeType: timeType}
}

func (f *PatternFormatter) Clone() Formatter {
	clone := *f
	return &clone
}

func (f *PatternFormatter) Format(r Record, out *bytes.Buffer) {
	t := r.Time
	if f.timeType == UTCTime {
		t = t.UTC()
	}

	pat := f.pattern
	for i := 0; i < len(pat); i++ {
		c := pat[i]
		if c != '%' || i+1 >= len(pat) {
			out.WriteByte(c)
			continue
		}
		i++
		switch pat[i] {
		case 'Y':
			fmt.Fprintf(out, "%04d", t.Year())
		case 'm':
			fmt.Fprintf(out, "%02d", int(t.Month()))
		case 'd':
			fmt.Fprintf(out, "%02d", t.Day())
		case 'H':
			fmt.Fprintf(out, "%02d", t.Hour())
		case 'M':
			fmt.Fprintf(out, "%02d", t.Minute())
		case 'S':
			fmt.Fprintf(out, "%02d", t.Second())
		case 'e':
			fmt.Fprintf(out, "%03d", t.Nanosecond()/1e6)
		case 'n':
			out.WriteString(r.LoggerName)
		case 'l':
			out.WriteString(r.Level)
		case 'L':
			out.WriteString(r.LevelShort)
		case 't':
			fmt.Fprintf(out, "%d", r.ThreadID)
		case 's':
			out.WriteString(r.File)
		case '#':
			fmt.Fprintf(out, "%d", r.Line)
		case '!':
			out.WriteString(r.Function)
		case 'v':
			out.Write(r.Payload)
		case '%':
			out.WriteByte('%')
		default:
			out.WriteByte('%')
			out.WriteByte(pat[i])
		}
	}
	out.WriteString(osutil.EOL)
}
