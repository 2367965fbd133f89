package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFrameSourceContract runs a suite of tests to verify that a FrameSource implementation
// adheres to the defined interface contract.
func RunFrameSourceContract(t *testing.T, src FrameSource) {
	ctx := context.Background()

	t.Run("Frames are never zero", func(t *testing.T) {
		f, err := src.Next(ctx)
		require.NoError(t, err)
		assert.False(t, f.IsZero())
	})

	t.Run("Frames are unique", func(t *testing.T) {
		seen := make(map[uint64]bool)
		for i := 0; i < 100; i++ {
			f, err := src.Next(ctx)
			require.NoError(t, err)
			assert.False(t, seen[f.ID()], "frame %d allocated twice", f.ID())
			seen[f.ID()] = true
		}
	})
}

// RunDistributedLockerContract verifies mutual exclusion and release semantics of a DistributedLocker.
func RunDistributedLockerContract(t *testing.T, locker DistributedLocker) {
	ctx := context.Background()
	key := "contract-lock-" + time.Now().Format("20060102150405.000")

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NotNil(t, unlock)
		require.NoError(t, unlock(ctx))
	})

	t.Run("Held lock blocks until context is done", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)

		waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(waitCtx, key, 5*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		require.NoError(t, unlock(ctx))

		unlock2, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err, "lock must be reacquirable after release")
		require.NoError(t, unlock2(ctx))
	})
}
