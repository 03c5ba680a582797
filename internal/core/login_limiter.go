package core

// login_limiter.go bounds how many password checks run at once.
//
// bcrypt is deliberately slow, so a burst of logins from many addresses can
// saturate every core even when each address stays under its rate limit.
// Logins beyond the limit queue for up to maxWait and then fail with
// ErrTooManyLogins. On shutdown, WaitForDrain lets in-flight logins finish.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyLogins is returned when no login slot frees up in time.
var ErrTooManyLogins = errors.New("too many concurrent logins")

// DefaultMaxConcurrentLogins is used when the configured limit is not positive.
const DefaultMaxConcurrentLogins = 8

// DefaultLoginWait is used when the configured wait is not positive.
const DefaultLoginWait = 5 * time.Second

// LoginLimiter is a counting semaphore over login attempts.
type LoginLimiter struct {
	sem     *semaphore.Weighted
	size    int64
	maxWait time.Duration
	active  atomic.Int64
}

// NewLoginLimiter allows at most maxConcurrent logins at once. A login that
// cannot get a slot within maxWait fails with ErrTooManyLogins.
func NewLoginLimiter(maxConcurrent int, maxWait time.Duration) *LoginLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentLogins
	}
	if maxWait <= 0 {
		maxWait = DefaultLoginWait
	}
	return &LoginLimiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		size:    int64(maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must Release it.
func (l *LoginLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyLogins
	}
	l.active.Add(1)
	return nil
}

// Release returns a slot taken by Acquire.
func (l *LoginLimiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// Active returns the number of logins holding a slot.
func (l *LoginLimiter) Active() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *LoginLimiter) MaxConcurrent() int {
	return int(l.size)
}

// WaitForDrain blocks until every slot is free or ctx is done. Logins
// arriving while it waits queue behind it.
func (l *LoginLimiter) WaitForDrain(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, l.size); err != nil {
		return err
	}
	l.sem.Release(l.size)
	return nil
}

// LoginLimiterStatus is a snapshot for health output.
type LoginLimiterStatus struct {
	Active        int `json:"active"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *LoginLimiter) Status() LoginLimiterStatus {
	return LoginLimiterStatus{
		Active:        l.Active(),
		MaxConcurrent: l.MaxConcurrent(),
	}
}
