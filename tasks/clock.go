package tasks

import (
	"context"
	"time"
)

// Clock abstracts time for the poll loop so tests can drive it
// deterministically.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep blocks for the duration or until the context ends,
	// returning the context's error in that case.
	Sleep(ctx context.Context, d time.Duration) error
}

// realClock is the production clock.
type realClock struct{}

// RealClock returns a Clock backed by the system clock.
func RealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
