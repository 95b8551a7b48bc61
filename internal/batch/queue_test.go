package batch

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSevenTasksDrainInGroupsOfThree(t *testing.T) {
	q := New(3, 10*time.Millisecond, zerolog.Nop())

	var mu sync.Mutex
	var concurrent, peak int32

	task := func() (any, error) {
		n := atomic.AddInt32(&concurrent, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&concurrent, -1)
		return "done", nil
	}

	var futures []<-chan Result
	for i := 0; i < 7; i++ {
		futures = append(futures, q.Enqueue(task))
	}

	for _, f := range futures {
		res := <-f
		require.NoError(t, res.Err)
		assert.Equal(t, "done", res.Value)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, int32(3), "no more than one group runs at a time")
}

func TestFailureDoesNotCancelSiblings(t *testing.T) {
	q := New(3, time.Millisecond, zerolog.Nop())

	boom := errors.New("boom")
	ok := func() (any, error) { return 42, nil }
	bad := func() (any, error) { return nil, boom }

	f1 := q.Enqueue(ok)
	f2 := q.Enqueue(bad)
	f3 := q.Enqueue(ok)

	r1, r2, r3 := <-f1, <-f2, <-f3
	assert.NoError(t, r1.Err)
	assert.Equal(t, 42, r1.Value)
	assert.ErrorIs(t, r2.Err, boom)
	assert.NoError(t, r3.Err)
}

func TestPanicSettlesAsError(t *testing.T) {
	q := New(2, time.Millisecond, zerolog.Nop())

	f1 := q.Enqueue(func() (any, error) { panic("unexpected") })
	f2 := q.Enqueue(func() (any, error) { return "fine", nil })

	r1 := <-f1
	require.Error(t, r1.Err)
	assert.Contains(t, r1.Err.Error(), "panicked")

	r2 := <-f2
	assert.NoError(t, r2.Err)
}

func TestGroupsPauseBetweenDrains(t *testing.T) {
	const delay = 40 * time.Millisecond
	q := New(1, delay, zerolog.Nop())

	var times []time.Time
	var mu sync.Mutex
	task := func() (any, error) {
		mu.Lock()
		times = append(times, time.Now())
		mu.Unlock()
		return nil, nil
	}

	f1 := q.Enqueue(task)
	f2 := q.Enqueue(task)
	<-f1
	<-f2

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, times, 2)
	assert.GreaterOrEqual(t, times[1].Sub(times[0]), delay-5*time.Millisecond)
}

func TestLateEnqueueStillGetsPause(t *testing.T) {
	const delay = 60 * time.Millisecond
	q := New(1, delay, zerolog.Nop())

	var times []time.Time
	var mu sync.Mutex
	second := func() (any, error) {
		mu.Lock()
		times = append(times, time.Now())
		mu.Unlock()
		return nil, nil
	}

	var f2 <-chan Result
	f1 := q.Enqueue(func() (any, error) {
		// Arrives while the first group is still executing, so the
		// queue was empty when that group was extracted.
		f2 = q.Enqueue(second)
		mu.Lock()
		times = append(times, time.Now())
		mu.Unlock()
		return nil, nil
	})
	<-f1
	<-f2

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, times, 2)
	assert.GreaterOrEqual(t, times[1].Sub(times[0]), delay-5*time.Millisecond)
}

func TestQueueRestartsAfterIdle(t *testing.T) {
	q := New(3, time.Millisecond, zerolog.Nop())

	r := <-q.Enqueue(func() (any, error) { return 1, nil })
	require.NoError(t, r.Err)

	// The drain goroutine has exited; a new enqueue must start it again.
	time.Sleep(10 * time.Millisecond)
	r = <-q.Enqueue(func() (any, error) { return 2, nil })
	require.NoError(t, r.Err)
	assert.Equal(t, 2, r.Value)
}
