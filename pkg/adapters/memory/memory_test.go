package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameSource_Contract(t *testing.T) {
	ports.RunFrameSourceContract(t, memory.NewFrameSource(0))
}

func TestFrameSource_StartsAfterOffset(t *testing.T) {
	src := memory.NewFrameSource(41)
	f, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), f.ID())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocker_Contract(t *testing.T) {
	ports.RunDistributedLockerContract(t, memory.NewLocker())
}

func TestLocker_ExpiredHoldIsTakenOver(t *testing.T) {
	locker := memory.NewLocker()
	ctx := context.Background()

	stale, err := locker.Lock(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	unlock, err := locker.Lock(waitCtx, "k", time.Minute)
	require.NoError(t, err, "hold should expire after its ttl")

	require.NoError(t, stale(ctx), "releasing an expired hold is harmless")

	blockedCtx, cancel2 := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel2()
	_, err = locker.Lock(blockedCtx, "k", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "the new holder keeps the lock")

	require.NoError(t, unlock(ctx))
}
