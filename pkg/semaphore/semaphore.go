// Package semaphore is a counting semaphore for bounding concurrent narration runs.
package semaphore

import "context"

type Semaphore struct {
	ch chan struct{}
}

// New creates a semaphore with the given capacity. Capacity below 1 is treated as 1.
func New(capacity int) *Semaphore {
	if capacity < 1 {
		capacity = 1
	}
	return &Semaphore{
		ch: make(chan struct{}, capacity),
	}
}

// Acquire takes a slot, blocking until one is free or ctx is done.
func (s *Semaphore) Acquire(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a slot only if one is free right now.
func (s *Semaphore) TryAcquire() bool {
	select {
	case s.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (s *Semaphore) Release() {
	<-s.ch
}

// Capacity returns the maximum number of holders.
func (s *Semaphore) Capacity() int {
	return cap(s.ch)
}

// InUse returns the number of slots currently held.
func (s *Semaphore) InUse() int {
	return len(s.ch)
}
