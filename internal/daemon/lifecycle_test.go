package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLifecycle_ShuttingDownIsMonotonic(t *testing.T) {
	l := NewLifecycle(time.Hour)

	l.RequestShutdown()
	l.RequestShutdown() // idempotent, must not panic or toggle back

	assert.True(t, l.ShuttingDown())
}

func TestLifecycle_RunIdleTimer_FiresAfterTTL(t *testing.T) {
	l := NewLifecycle(30 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		l.RunIdleTimer(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("idle timer did not fire within the TTL window")
	}

	assert.True(t, l.ShuttingDown())
}

func TestLifecycle_Touch_DelaysIdleShutdown(t *testing.T) {
	l := NewLifecycle(80 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				l.Touch()
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		l.RunIdleTimer(ctx)
		close(done)
	}()

	select {
	case <-done:
		close(stop)
		t.Fatal("idle timer fired despite continuous activity")
	case <-time.After(150 * time.Millisecond):
		close(stop)
	}

	assert.False(t, l.ShuttingDown())
}
