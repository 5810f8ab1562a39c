package sinks

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tessonics/spdlog"
	"github.com/tessonics/spdlog/internal/errhelper"
	"github.com/tessonics/spdlog/internal/queue"
	"github.com/tessonics/spdlog/pattern"
)

// OverflowPolicy selects what Log and Flush do when the AsyncSink's
// queue is full, mirroring spdlog's sinks::async_sink::overflow_policy.
type OverflowPolicy int

const (
	// Block waits until a slot is free. Never discards. The default.
	Block OverflowPolicy = iota
	// OverrunOldest drops the queue's current oldest record to make room.
	OverrunOldest
	// DiscardNew drops the incoming record if the queue is full.
	DiscardNew
)

// DefaultQueueSize is used when AsyncConfig.QueueSize is left at zero.
const DefaultQueueSize = 8192

// MaxQueueSize bounds AsyncConfig.QueueSize. See internal/queue.MaxCapacity
// for the Open-Questions discussion of which of spdlog's two conflicting
// constants this implementation picked.
const MaxQueueSize = queue.MaxCapacity

// ErrInvalidConfig is returned by NewAsyncSink when QueueSize is out of
// range.
var ErrInvalidConfig = errors.New("spdlog: invalid async sink config")

// AsyncConfig configures an AsyncSink. The zero value is valid except that
// Sinks should normally be non-empty and QueueSize will be treated as
// DefaultQueueSize.
type AsyncConfig struct {
	QueueSize        int
	Policy           OverflowPolicy
	Sinks            []spdlog.Sink
	OnThreadStart    func()
	OnThreadStop     func()
	CustomErrHandler errhelper.Handler
}

type controlKind int

const (
	ctrlLog controlKind = iota
	ctrlFlush
	ctrlTerminate
)

type controlRecord struct {
	kind controlKind
	rec  spdlog.LogRecord
}

// AsyncSink is a Sink that enqueues records onto a bounded queue and runs a
// single worker goroutine that drains them into the configured downstream
// sinks. Constructed already running; Close drains and stops it. This is
// the Go rendering of spdlog::sinks::async_sink (§4.4 of spec.md).
type AsyncSink struct {
	cfg   AsyncConfig
	q     *queue.Bounded
	relay errhelper.Relay

	terminate atomic.Bool
	wg        sync.WaitGroup

	formatterMu sync.Mutex
}

// NewAsyncSink validates cfg, starts the worker goroutine, and returns the
// running sink. An invalid QueueSize fails construction with
// ErrInvalidConfig and never starts a worker, so neither OnThreadStart nor
// OnThreadStop runs (spec.md §8 boundary behavior).
func NewAsyncSink(cfg AsyncConfig) (*AsyncSink, error) {
	size := cfg.QueueSize
	if size == 0 {
		size = DefaultQueueSize
	}
	if size <= 0 || size > MaxQueueSize {
		return nil, fmt.Errorf("%w: queue_size=%d (must be in (0, %d])", ErrInvalidConfig, cfg.QueueSize, MaxQueueSize)
	}
	cfg.QueueSize = size

	a := &AsyncSink{
		cfg: cfg,
		q:   queue.New(size),
	}
	if cfg.CustomErrHandler != nil {
		a.relay.SetHandler(cfg.CustomErrHandler)
	}

	a.wg.Add(1)
	go a.workerLoop()

	return a, nil
}

// With builds an AsyncSink whose sole downstream sink is the one returned
// by makeSink, using an otherwise-default config. Mirrors spdlog's
// async_sink::with<Sink>(args...) factory helper.
func With(makeSink func() (spdlog.Sink, error)) (*AsyncSink, error) {
	s, err := makeSink()
	if err != nil {
		return nil, err
	}
	return NewAsyncSink(AsyncConfig{Sinks: []spdlog.Sink{s}})
}

// GetConfig returns the stored configuration.
func (a *AsyncSink) GetConfig() AsyncConfig {
	return a.cfg
}

// Accepts always reports true: an AsyncSink's own level gating happens at
// the downstream sinks, each of which is consulted by the worker.
func (a *AsyncSink) Accepts(spdlog.Level) bool {
	return true
}

// SetLevel is a no-op at the AsyncSink layer itself (it has no level of
// its own); present to satisfy spdlog.Sink. Use each downstream sink's
// SetLevel instead.
func (a *AsyncSink) SetLevel(spdlog.Level) {}

// Log enqueues an owned copy of r per the configured overflow policy.
func (a *AsyncSink) Log(r spdlog.LogRecord) error {
	a.enqueue(controlRecord{kind: ctrlLog, rec: r.Clone()})
	return nil
}

// Flush enqueues a flush control record and returns immediately; it does
// not wait for the worker to process it. Use WaitAll for a barrier.
func (a *AsyncSink) Flush() error {
	a.enqueue(controlRecord{kind: ctrlFlush})
	return nil
}

func (a *AsyncSink) enqueue(c controlRecord) {
	switch a.cfg.Policy {
	case OverrunOldest:
		a.q.EnqueueOverrun(c)
	case DiscardNew:
		a.q.EnqueueIfRoom(c)
	default:
		a.q.EnqueueBlock(c)
	}
}

// SetFormatter clones f onto every downstream sink but the last, matching
// spdlog.Logger.SetFormatter's contract at this layer.
func (a *AsyncSink) SetFormatter(f pattern.Formatter) {
	a.formatterMu.Lock()
	defer a.formatterMu.Unlock()

	for i, s := range a.cfg.Sinks {
		if i == len(a.cfg.Sinks)-1 {
			s.SetFormatter(f)
			break
		}
		s.SetFormatter(f.Clone())
	}
}

// SetPattern constructs a pattern.Formatter and delegates to SetFormatter.
func (a *AsyncSink) SetPattern(pat string) error {
	a.SetFormatter(pattern.New(pat, pattern.LocalTime))
	return nil
}

// OverrunCounter returns the number of records dropped under
// OverrunOldest since the last reset.
func (a *AsyncSink) OverrunCounter() uint64 { return a.q.OverrunCounter() }

// ResetOverrunCounter zeroes the overrun counter.
func (a *AsyncSink) ResetOverrunCounter() { a.q.ResetOverrunCounter() }

// DiscardCounter returns the number of records dropped under DiscardNew
// since the last reset.
func (a *AsyncSink) DiscardCounter() uint64 { return a.q.DiscardCounter() }

// ResetDiscardCounter zeroes the discard counter.
func (a *AsyncSink) ResetDiscardCounter() { a.q.ResetDiscardCounter() }

// WaitAll blocks until the queue drains to empty or timeout elapses. A
// non-positive timeout returns immediately with the current emptiness
// state. Returns true iff the queue was observed empty.
func (a *AsyncSink) WaitAll(timeout time.Duration) bool {
	return a.q.WaitUntilEmpty(timeout)
}

// WaitAllBlocking waits with no timeout until the queue drains to empty.
func (a *AsyncSink) WaitAllBlocking() {
	a.q.WaitUntilEmptyBlocking()
}

// Close signals the worker to terminate, blocks until it has drained the
// queue and exited, and joins it. Any enqueued Log record that was
// accepted (not overrun/discarded) by the queue before Close is called is
// guaranteed to have reached each downstream sink whose level admits it by
// the time Close returns.
func (a *AsyncSink) Close() {
	a.terminate.Store(true)
	// Shutdown must never be lost, so the terminate marker always uses the
	// blocking enqueue regardless of the configured policy.
	a.q.EnqueueBlock(controlRecord{kind: ctrlTerminate})
	a.wg.Wait()
}

func (a *AsyncSink) workerLoop() {
	defer a.wg.Done()

	if a.cfg.OnThreadStart != nil {
		a.cfg.OnThreadStart()
	}

	for {
		item, ok := a.q.Dequeue(0)
		if !ok {
			continue
		}
		c := item.(controlRecord)

		switch c.kind {
		case ctrlLog:
			a.deliverLog(c.rec)
		case ctrlFlush:
			a.deliverFlush()
		case ctrlTerminate:
			if a.cfg.OnThreadStop != nil {
				a.cfg.OnThreadStop()
			}
			return
		}
	}
}

func (a *AsyncSink) deliverLog(r spdlog.LogRecord) {
	for _, s := range a.cfg.Sinks {
		if !s.Accepts(r.Level) {
			continue
		}
		if err := s.Log(r); err != nil {
			a.relay.Handle("async log", errhelper.SourceLoc{File: r.Source.File, Line: r.Source.Line}, err)
		}
	}
}

func (a *AsyncSink) deliverFlush() {
	for _, s := range a.cfg.Sinks {
		if err := s.Flush(); err != nil {
			a.relay.Handle("async flush", errhelper.SourceLoc{}, err)
		}
	}
}

// IsClosed reports whether Close has been called. The worker may still be
// draining its queue when this first becomes true.
func (a *AsyncSink) IsClosed() bool {
	return a.terminate.Load()
}
