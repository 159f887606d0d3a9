package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestExecutor() (*Executor, *[]time.Duration) {
	delays := &[]time.Duration{}
	e := NewExecutor(nil)
	e.sleep = func(d time.Duration) { *delays = append(*delays, d) }
	return e, delays
}

func TestExecutor_FirstAttemptSucceeds(t *testing.T) {
	e, delays := newTestExecutor()
	calls := 0
	err := e.Do(context.Background(), "query", func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if len(*delays) != 0 {
		t.Fatalf("expected no backoff, got %v", *delays)
	}
}

func TestExecutor_RecoversAfterTwoFailures(t *testing.T) {
	e, delays := newTestExecutor()
	calls := 0
	err := e.Do(context.Background(), "set level", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*delays) != 2 || (*delays)[0] != want[0] || (*delays)[1] != want[1] {
		t.Fatalf("expected backoff %v, got %v", want, *delays)
	}
}

func TestExecutor_ExhaustsAfterThreeAttempts(t *testing.T) {
	e, delays := newTestExecutor()
	calls := 0
	err := e.Do(context.Background(), "turn off", func(ctx context.Context) error {
		calls++
		return errors.New("still down")
	})
	if err == nil {
		t.Fatalf("expected error after exhaustion")
	}
	if calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls)
	}
	if len(*delays) != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %v", *delays)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("unexpected error message: %v", err)
	}
	if !strings.Contains(err.Error(), "still down") {
		t.Fatalf("expected last error wrapped, got %v", err)
	}
}
