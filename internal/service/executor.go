package service

import (
	"context"
	"fmt"
	"time"

	"heatkeeper/internal/logger"
)

const (
	executorAttempts  = 3
	executorBaseDelay = 1 * time.Second
)

// Executor wraps device-affecting calls and the status query with bounded
// retries and exponential backoff (1s, 2s between the three attempts).
// Device API errors are transient-retryable by contract.
type Executor struct {
	attempts  int
	baseDelay time.Duration
	sleep     func(time.Duration) // swapped out in tests
	log       *logger.Logger
}

func NewExecutor(log *logger.Logger) *Executor {
	return &Executor{
		attempts:  executorAttempts,
		baseDelay: executorBaseDelay,
		sleep:     time.Sleep,
		log:       log,
	}
}

// Do runs fn until it succeeds or attempts are exhausted, doubling the delay
// after each failure. The final error wraps the last attempt's error.
func (e *Executor) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	delay := e.baseDelay
	var lastErr error
	for attempt := 1; attempt <= e.attempts; attempt++ {
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		if attempt == e.attempts {
			break
		}
		if e.log != nil {
			e.log.Warnw("retrying device call", "op", op, "attempt", attempt, "delay", delay, "err", lastErr)
		}
		e.sleep(delay)
		delay *= 2
	}
	return fmt.Errorf("%s failed after %d attempts: %w", op, e.attempts, lastErr)
}
