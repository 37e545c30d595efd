package retry

import (
	"context"
	"math"
	"time"
)

// BackoffStrategy computes the delay before a retry attempt
type BackoffStrategy interface {
	// NextDelay returns the delay to wait after the given attempt number
	// (1-based).
	NextDelay(attempt int) time.Duration
}

// LinearBackoff grows the delay by a fixed increment per attempt. With
// Increment equal to BaseDelay the delay after attempt n is n*BaseDelay,
// which matches the download retry schedule.
type LinearBackoff struct {
	BaseDelay time.Duration
	Increment time.Duration
	MaxDelay  time.Duration
}

// NextDelay calculates the next delay with linear growth
func (lb *LinearBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := lb.BaseDelay + lb.Increment*time.Duration(attempt-1)
	if lb.MaxDelay > 0 && delay > lb.MaxDelay {
		delay = lb.MaxDelay
	}
	return delay
}

// DownloadBackoff returns the backoff used between download attempts:
// base delay multiplied by the attempt number.
func DownloadBackoff(base time.Duration) *LinearBackoff {
	return &LinearBackoff{BaseDelay: base, Increment: base}
}

// ExponentialBackoff doubles (by default) the delay per attempt
type ExponentialBackoff struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// DefaultExponentialBackoff returns a backoff with sensible defaults
func DefaultExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:  1 * time.Second,
		MaxDelay:   60 * time.Second,
		Multiplier: 2.0,
	}
}

// NextDelay calculates the next delay with exponential growth
func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	multiplier := eb.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}
	delay := float64(eb.BaseDelay) * math.Pow(multiplier, float64(attempt-1))
	if eb.MaxDelay > 0 && delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}
	return time.Duration(delay)
}

// ConstantBackoff waits the same delay between every attempt
type ConstantBackoff struct {
	Delay time.Duration
}

// NextDelay returns a constant delay
func (cb *ConstantBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return cb.Delay
}

// Wait sleeps for the given duration or until the context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
