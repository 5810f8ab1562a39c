package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounded_EnqueueBlockDequeueFIFO(t *testing.T) {
	q := New(4)
	for i := 0; i < 4; i++ {
		q.EnqueueBlock(i)
	}
	assert.Equal(t, 4, q.Size())

	for i := 0; i < 4; i++ {
		item, ok := q.Dequeue(0)
		require.True(t, ok)
		assert.Equal(t, i, item)
	}
	assert.Equal(t, 0, q.Size())
}

func TestBounded_EnqueueBlockWaitsForRoom(t *testing.T) {
	q := New(1)
	q.EnqueueBlock("first")

	done := make(chan struct{})
	go func() {
		q.EnqueueBlock("second")
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("EnqueueBlock returned before a slot freed")
	case <-time.After(30 * time.Millisecond):
	}

	item, ok := q.Dequeue(0)
	require.True(t, ok)
	assert.Equal(t, "first", item)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("EnqueueBlock never unblocked after a slot freed")
	}

	item, ok = q.Dequeue(0)
	require.True(t, ok)
	assert.Equal(t, "second", item)
}

func TestBounded_EnqueueOverrunAccounting(t *testing.T) {
	q := New(2)
	q.EnqueueOverrun("a")
	q.EnqueueOverrun("b")
	assert.Equal(t, uint64(0), q.OverrunCounter())

	overran := q.EnqueueOverrun("c") // drops "a"
	assert.True(t, overran)
	assert.Equal(t, uint64(1), q.OverrunCounter())
	assert.Equal(t, 2, q.Size())

	first, ok := q.Dequeue(0)
	require.True(t, ok)
	assert.Equal(t, "b", first)

	second, ok := q.Dequeue(0)
	require.True(t, ok)
	assert.Equal(t, "c", second)
}

func TestBounded_EnqueueIfRoomDiscardAccounting(t *testing.T) {
	q := New(1)
	ok := q.EnqueueIfRoom("a")
	assert.True(t, ok)
	assert.Equal(t, uint64(0), q.DiscardCounter())

	ok = q.EnqueueIfRoom("b")
	assert.False(t, ok)
	assert.Equal(t, uint64(1), q.DiscardCounter())
	assert.Equal(t, 1, q.Size())
}

func TestBounded_ResetCounters(t *testing.T) {
	q := New(1)
	q.EnqueueOverrun("a")
	q.EnqueueOverrun("b")
	assert.Equal(t, uint64(1), q.OverrunCounter())
	q.ResetOverrunCounter()
	assert.Equal(t, uint64(0), q.OverrunCounter())

	q.EnqueueIfRoom("c")
	require.Equal(t, uint64(1), q.DiscardCounter())
	q.ResetDiscardCounter()
	assert.Equal(t, uint64(0), q.DiscardCounter())
}

func TestBounded_DequeueTimeout(t *testing.T) {
	q := New(1)
	start := time.Now()
	_, ok := q.Dequeue(20 * time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	assert.Less(t, elapsed, 200*time.Millisecond)
}

func TestBounded_WaitUntilEmpty(t *testing.T) {
	q := New(4)
	q.EnqueueBlock("a")

	assert.False(t, q.WaitUntilEmpty(0))

	go func() {
		time.Sleep(10 * time.Millisecond)
		q.Dequeue(0)
	}()

	assert.True(t, q.WaitUntilEmpty(time.Second))
}

func TestBounded_WaitUntilEmptyTimesOut(t *testing.T) {
	q := New(4)
	q.EnqueueBlock("a")

	start := time.Now()
	ok := q.WaitUntilEmpty(20 * time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestBounded_ConcurrentProducersConsumersPreserveCount(t *testing.T) {
	q := New(16)
	const producers = 8
	const perProducer = 200

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.EnqueueBlock(i)
			}
		}()
	}

	received := 0
	var mu sync.Mutex
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
			}
			if _, ok := q.Dequeue(10 * time.Millisecond); ok {
				mu.Lock()
				received++
				mu.Unlock()
			}
		}
	}()

	wg.Wait()
	// Drain whatever remains.
	for q.Size() > 0 {
		if _, ok := q.Dequeue(50 * time.Millisecond); ok {
			mu.Lock()
			received++
			mu.Unlock()
		}
	}
	close(done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, producers*perProducer, received)
}

func TestNew_PanicsOnNonPositiveCapacity(t *testing.T) {
	assert.Panics(t, func() { New(0) })
	assert.Panics(t, func() { New(-1) })
}
