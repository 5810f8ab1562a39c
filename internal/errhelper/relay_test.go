package errhelper

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelay_HandlerReceivesMessage(t *testing.T) {
	var r Relay
	var got string
	r.SetHandler(func(msg string) { got = msg })

	r.Handle("origin", SourceLoc{}, errors.New("boom"))
	assert.Equal(t, "boom", got)
}

func TestRelay_HandlerPanicIsRecovered(t *testing.T) {
	var r Relay
	r.SetHandler(func(msg string) { panic("handler exploded") })

	require.NotPanics(t, func() {
		r.Handle("origin", SourceLoc{}, errors.New("boom"))
	})
}

func TestRelay_HandleUnknown(t *testing.T) {
	var r Relay
	var got string
	r.SetHandler(func(msg string) { got = msg })

	r.HandleUnknown("origin", SourceLoc{})
	assert.Equal(t, "unknown exception", got)
}

func TestRelay_DefaultPathRateLimitsWithoutHandler(t *testing.T) {
	// No handler installed: Handle falls back to the rate-limited stderr
	// path. We can't easily capture stderr portably here, but we can
	// verify the call completes without panicking and respects the
	// documented >=1s gap by checking lastReportTime advances only once
	// across rapid calls.
	var r Relay

	require.NotPanics(t, func() {
		r.Handle("origin", SourceLoc{}, errors.New("first"))
		r.Handle("origin", SourceLoc{}, errors.New("second, within window"))
	})

	r.mu.Lock()
	first := r.lastReportTime
	r.mu.Unlock()

	time.Sleep(2 * time.Millisecond)
	r.Handle("origin", SourceLoc{}, errors.New("third, still within window"))

	r.mu.Lock()
	second := r.lastReportTime
	r.mu.Unlock()

	assert.Equal(t, first, second, "a report within the 1s window must not advance lastReportTime")
}

func TestRelay_ConcurrentHandleIsSafe(t *testing.T) {
	var r Relay
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Handle("origin", SourceLoc{}, errors.New("concurrent"))
		}()
	}
	wg.Wait()
}

func TestSourceLoc_Empty(t *testing.T) {
	assert.True(t, SourceLoc{}.Empty())
	assert.False(t, SourceLoc{File: "a.go", Line: 1}.Empty())
}
