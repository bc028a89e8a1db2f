package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func newBareApp() *App {
	return &App{
		logger:     zap.NewNop(),
		shutdownCh: make(chan struct{}),
	}
}

func TestAppShutdownWaitsForTrackedOperations(t *testing.T) {
	a := newBareApp()
	assert.False(t, a.IsShuttingDown())

	done := a.TrackOperation()

	finished := make(chan error, 1)
	go func() {
		finished <- a.Shutdown(context.Background())
	}()

	require.Eventually(t, a.IsShuttingDown, time.Second, time.Millisecond)

	// 在途操作未结束前关闭不能返回
	select {
	case <-finished:
		t.Fatal("shutdown returned before tracked operation finished")
	case <-time.After(50 * time.Millisecond):
	}

	done()
	require.NoError(t, <-finished)

	select {
	case <-a.ShutdownCh():
	default:
		t.Fatal("shutdown channel must be closed after shutdown")
	}
}

func TestAppShutdownTimeoutOnStuckOperation(t *testing.T) {
	a := newBareApp()
	_ = a.TrackOperation() // 永不结束的操作

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := a.Shutdown(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestAppShutdownIdempotent(t *testing.T) {
	a := newBareApp()
	require.NoError(t, a.Shutdown(context.Background()))
	require.NoError(t, a.Shutdown(context.Background()))
	assert.True(t, a.IsShuttingDown())
}
