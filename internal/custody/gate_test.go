package custody

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReentrancyGate(t *testing.T) {
	var g reentrancyGate

	assert.True(t, g.enter())
	assert.False(t, g.enter())

	g.exit()
	assert.True(t, g.enter())
	g.exit()
}

func TestReentrancyGateConcurrent(t *testing.T) {
	var g reentrancyGate

	const attempts = 64
	var wg sync.WaitGroup
	var mu sync.Mutex
	entered := 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			if g.enter() {
				mu.Lock()
				entered++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Exactly one goroutine may hold the gate at a time; nobody exited, so
	// exactly one entry succeeded.
	assert.Equal(t, 1, entered)
}
