package common

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxInt(t *testing.T) {
	assert.Equal(t, 10, MaxInt(4, 10))
	assert.Equal(t, 16, MaxInt(16, 10))
	assert.GreaterOrEqual(t, MaxWorkersDefault, 10)
}

func TestWorkerPoolDefaults(t *testing.T) {
	wp := NewWorkerPool(0, 0)
	defer wp.Close()
	assert.Equal(t, MaxWorkersDefault, wp.Workers())
	assert.Equal(t, 2*MaxWorkersDefault, cap(wp.tasks))
}

func TestWorkerPoolWait(t *testing.T) {
	wp := NewWorkerPool(3, 1)
	defer wp.Close()

	var done int32
	for i := 0; i < 50; i++ {
		require.Nil(t, wp.Submit(func() { atomic.AddInt32(&done, 1) }))
	}
	wp.Wait()
	assert.Equal(t, int32(50), atomic.LoadInt32(&done))
	assert.Equal(t, uint64(0), wp.Pending())
}

func TestWorkerPoolPanicAndClose(t *testing.T) {
	wp := NewWorkerPool(2, 2)

	var done int32
	require.Nil(t, wp.Submit(func() { panic("step blew up") }))
	require.Nil(t, wp.Submit(func() { atomic.AddInt32(&done, 1) }))
	wp.Close()
	assert.Equal(t, int32(1), atomic.LoadInt32(&done))

	assert.Equal(t, ErrPoolStopped, wp.Submit(func() {}))
	wp.Close()
}
