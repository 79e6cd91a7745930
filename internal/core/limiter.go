package core

// limiter.go bounds how many workbooks are parsed or exported at once.
//
// Opening a workbook decompresses and decodes the whole file in memory, so
// parallel conversions are capped with a semaphore. When all slots are
// occupied, new requests wait up to maxWait before failing with
// ErrTooManyConversions.
//
// WaitForDrain supports graceful shutdown by blocking until every active
// conversion has released its slot.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyConversions is returned when no slot frees up within maxWait.
var ErrTooManyConversions = errors.New("too many conversions in progress, please try again later")

// DefaultMaxConcurrent is the default limit for parallel conversions.
const DefaultMaxConcurrent = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 15 * time.Second

// Limiter controls concurrent conversion work using a semaphore.
type Limiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewLimiter creates a limiter allowing at most maxConcurrent conversions.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &Limiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a slot. The caller must call Release when done.
func (l *Limiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyConversions
	}
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of conversions holding a slot.
func (l *Limiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until all active conversions finish or ctx is done.
func (l *Limiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LimiterStatus is a snapshot of the limiter for health reporting.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *Limiter) Status() LimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return LimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
