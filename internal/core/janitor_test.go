package core

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JonMunkholm/painel/internal/auth"
	"github.com/stretchr/testify/assert"
)

type countingPurger struct {
	auth.Revocations
	calls atomic.Int32
}

func (c *countingPurger) Purge() int {
	c.calls.Add(1)
	return 0
}

func TestStartRevocationJanitor(t *testing.T) {
	p := &countingPurger{Revocations: auth.NewMemoryRevocations()}
	svc := NewService(nil, p)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartRevocationJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return p.calls.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}

// redisLike has no Purge method.
type redisLike struct{ auth.Revocations }

func TestStartRevocationJanitor_NotNeeded(t *testing.T) {
	svc := NewService(nil, redisLike{})

	done := make(chan struct{})
	go func() {
		svc.StartRevocationJanitor(context.Background(), time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor should return at once for stores without Purge")
	}
}
