package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abreu/savings-core-go/internal/infra/resilience"
)

func TestRetryWithBackoff(t *testing.T) {
	errTransient := errors.New("gl unavailable")

	cases := []struct {
		name      string
		failures  int // calls that fail before the first success
		wantCalls int
		wantErr   bool
	}{
		{"first try", 0, 1, false},
		{"recovers within budget", 2, 3, false},
		{"budget exhausted", 5, 4, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := resilience.Config{MaxRetries: 3, InitialBackoff: time.Millisecond}
			calls := 0
			err := resilience.RetryWithBackoff(context.Background(), cfg, func() error {
				calls++
				if calls <= tc.failures {
					return errTransient
				}
				return nil
			})
			if (err != nil) != tc.wantErr {
				t.Fatalf("err=%v, want error %v", err, tc.wantErr)
			}
			if calls != tc.wantCalls {
				t.Fatalf("fn ran %d times, want %d", calls, tc.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoff_CancelledContext(t *testing.T) {
	cfg := resilience.Config{MaxRetries: 5, InitialBackoff: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := resilience.RetryWithBackoff(ctx, cfg, func() error {
		calls++
		return errors.New("never recovers")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls > 1 {
		t.Fatalf("kept retrying after cancellation: %d calls", calls)
	}
}

func TestBulkhead_LimitsConcurrency(t *testing.T) {
	bh := resilience.NewBulkhead(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := bh.Acquire(ctx); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
	}

	// The pool is full; a bounded wait must time out.
	full, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := bh.Acquire(full); err == nil {
		t.Fatal("expected acquire to fail on a full bulkhead")
	}

	bh.Release()
	if err := bh.Acquire(ctx); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
}
