package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock_StartsAtEpoch(t *testing.T) {
	clock := NewFakeClock()
	assert.Equal(t, Epoch, clock.Now())
}

func TestFakeClock_Advance(t *testing.T) {
	clock := NewFakeClock()
	start := clock.Now()

	clock.Advance(150 * time.Millisecond)
	assert.Equal(t, 150*time.Millisecond, clock.Now().Sub(start))

	clock.Advance(-time.Second)
	assert.Equal(t, 150*time.Millisecond, clock.Now().Sub(start), "clock never goes backwards")
}

func TestFakeClock_Reset(t *testing.T) {
	clock := NewFakeClock()
	clock.Advance(time.Hour)
	clock.Reset()
	assert.Equal(t, Epoch, clock.Now())
}

func TestFakeClock_ThreadSafe(t *testing.T) {
	clock := NewFakeClock()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				clock.Advance(time.Millisecond)
				_ = clock.Now()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, time.Second, clock.Now().Sub(Epoch))
}
