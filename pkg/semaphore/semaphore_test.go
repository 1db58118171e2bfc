package semaphore

import (
	"context"
	"testing"
	"time"
)

func TestSemaphore(t *testing.T) {
	s := New(2)
	ctx := context.Background()

	if err := s.Acquire(ctx); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if !s.TryAcquire() {
		t.Fatal("second slot should be free")
	}
	if s.TryAcquire() {
		t.Fatal("third slot should not be available")
	}
	if got := s.InUse(); got != 2 {
		t.Errorf("InUse() = %d, want 2", got)
	}

	s.Release()
	if !s.TryAcquire() {
		t.Fatal("slot should be free after release")
	}
}

func TestAcquireHonoursContext(t *testing.T) {
	s := New(1)
	s.TryAcquire()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := s.Acquire(ctx); err != context.DeadlineExceeded {
		t.Errorf("Acquire() error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestNewMinimumCapacity(t *testing.T) {
	tests := []struct {
		capacity int
		want     int
	}{
		{-1, 1},
		{0, 1},
		{3, 3},
	}

	for _, tt := range tests {
		if got := New(tt.capacity).Capacity(); got != tt.want {
			t.Errorf("New(%d).Capacity() = %d, want %d", tt.capacity, got, tt.want)
		}
	}
}
