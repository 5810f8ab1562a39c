package sinks

import (
	"errors"
	"time"

	"github.com/tessonics/spdlog"
)

const testSinkLinesToSave = 100

// TestSink is an in-memory Sink for exercising the logger and async-sink
// invariants in spec.md §8 (error isolation, overrun/discard accounting,
// wait_all timing). Ported from
// original_source/tests/test_sink.h: counts messages and flushes, saves
// the first formatted lines, and can be configured to inject a
// fixed per-log delay or fail every call.
type TestSink struct {
	base

	msgCounter   int
	flushCounter int
	delay        time.Duration
	lines        []string
	failing      bool
	failErr      error
}

// NewTestSink creates a sink that accepts everything by default.
func NewTestSink() *TestSink {
	return &TestSink{base: newBase(spdlog.Trace)}
}

// MsgCount returns the number of records delivered via Log so far.
func (t *TestSink) MsgCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.msgCounter
}

// FlushCount returns the number of times Flush was called.
func (t *TestSink) FlushCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushCounter
}

// SetDelay makes every subsequent Log call sleep for d before returning,
// used to exercise wait_all timing and queue-overrun scenarios.
func (t *TestSink) SetDelay(d time.Duration) {
	t.mu.Lock()
	t.delay = d
	t.mu.Unlock()
}

// SetFailing makes every subsequent Log/Flush call return err (or a
// generic failure if err is nil) instead of succeeding.
func (t *TestSink) SetFailing(err error) {
	t.mu.Lock()
	if err == nil {
		err = errors.New("test backend exception")
	}
	t.failing = true
	t.failErr = err
	t.mu.Unlock()
}

// ClearFailing restores normal (non-failing) behavior.
func (t *TestSink) ClearFailing() {
	t.mu.Lock()
	t.failing = false
	t.failErr = nil
	t.mu.Unlock()
}

// Lines returns (a copy of) the saved formatted lines, without their
// trailing EOL: the first 100 logged; later lines are counted but not saved.
func (t *TestSink) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

func (t *TestSink) Log(r spdlog.LogRecord) error {
	t.mu.Lock()
	if t.failing {
		err := t.failErr
		t.mu.Unlock()
		return err
	}

	buf := t.format(r)
	line := buf.String()
	putFormatBuf(buf)

	if len(t.lines) < testSinkLinesToSave {
		t.lines = append(t.lines, trimEOL(line))
	}
	t.msgCounter++
	delay := t.delay
	t.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return nil
}

func (t *TestSink) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failing {
		return t.failErr
	}
	t.flushCounter++
	return nil
}

func trimEOL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
