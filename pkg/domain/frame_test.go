package domain_test

import (
	"sync"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewFrame_Unique(t *testing.T) {
	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[uint64]bool)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				f := domain.NewFrame()
				mu.Lock()
				seen[f.ID()] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestFrame_Zero(t *testing.T) {
	var f domain.Frame
	assert.True(t, f.IsZero())
	assert.False(t, domain.NewFrame().IsZero())
	assert.Equal(t, domain.FrameOf(42), domain.FrameOf(42))
	assert.Equal(t, "frame#42", domain.FrameOf(42).String())
}
