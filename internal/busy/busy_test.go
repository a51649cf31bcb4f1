package busy

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_PerKey(t *testing.T) {
	s := NewSet[int64]()

	assert.True(t, s.TryAcquire(7))
	assert.False(t, s.TryAcquire(7))
	assert.True(t, s.TryAcquire(8))
	assert.True(t, s.Is(7))
	assert.Equal(t, 2, s.Len())

	s.Release(7)
	assert.False(t, s.Is(7))
	assert.True(t, s.TryAcquire(7))
}

func TestSet_ConcurrentAcquireHasOneWinner(t *testing.T) {
	s := NewSet[string]()
	var winners atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryAcquire("line") {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestFlag(t *testing.T) {
	var f Flag

	assert.False(t, f.Is())
	assert.True(t, f.TryAcquire())
	assert.False(t, f.TryAcquire())
	assert.True(t, f.Is())

	f.Release()
	assert.False(t, f.Is())
}
