// Package errhelper centralizes what happens when a sink or formatter
// fails. It prevents one misbehaving sink from corrupting the logger or
// silencing the others, and rate-limits the default stderr report so a
// pathological error loop cannot flood the terminal.
package errhelper

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// SourceLoc mirrors the subset of a call-site location the relay needs to
// render; it is duplicated here (rather than imported from the root
// package) to keep this package free of a dependency on the logger types it
// serves.
type SourceLoc struct {
	File string
	Line int
}

// Empty reports whether the location carries no information.
func (s SourceLoc) Empty() bool {
	return s.File == "" && s.Line == 0
}

// Handler is a user-supplied error callback. It may panic; a panic is
// recovered, reported as a terse stderr line, and swallowed.
type Handler func(message string)

const reportInterval = time.Second

// Relay is the shared, mutex-guarded, rate-limited channel by which sink
// and formatter errors become either a user-handler invocation or a stderr
// line. The zero value is ready to use.
type Relay struct {
	mu             sync.Mutex
	handler        Handler
	lastReportTime time.Time
}

// Handle reports err, attributing it to origin (typically a logger or
// async-sink name) and, when non-empty, a source location.
func (r *Relay) Handle(origin string, loc SourceLoc, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handler != nil {
		r.invokeHandler(origin, err.Error())
		return
	}

	now := time.Now()
	if !r.lastReportTime.IsZero() && now.Sub(r.lastReportTime) < reportInterval {
		return
	}
	r.lastReportTime = now

	ts := now.Format("2006-01-02 15:04:05")
	if loc.Empty() {
		fmt.Fprintf(os.Stderr, "[*** LOG ERROR ***] [%s] [%s] %s\n", ts, origin, err.Error())
	} else {
		fmt.Fprintf(os.Stderr, "[*** LOG ERROR ***] [%s(%d)] [%s] [%s] %s\n", loc.File, loc.Line, ts, origin, err.Error())
	}
}

// HandleUnknown is equivalent to Handle with a generic "unknown exception"
// message, used when the failure carries no typed error value.
func (r *Relay) HandleUnknown(origin string, loc SourceLoc) {
	r.Handle(origin, loc, errUnknown{})
}

type errUnknown struct{}

func (errUnknown) Error() string { return "unknown exception" }

// SetHandler atomically replaces the installed handler. Pass nil to
// restore the default rate-limited stderr behavior.
func (r *Relay) SetHandler(h Handler) {
	r.mu.Lock()
	r.handler = h
	r.mu.Unlock()
}

// invokeHandler calls the installed handler, recovering and reporting any
// panic so a broken custom handler can never propagate into the logging
// call site.
func (r *Relay) invokeHandler(origin, message string) {
	defer func() {
		if rec := recover(); rec != nil {
			fmt.Fprintf(os.Stderr, "[*** LOG ERROR ***] [%s] error handler panicked: %v\n", origin, rec)
		}
	}()
	r.handler(message)
}
