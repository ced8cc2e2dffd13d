package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginLimiter(client), mr
}

func TestLoginLimiter_BelowThreshold(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < limiterMaxFailures-1; i++ {
		if err := limiter.RecordFailure(ctx, "ann@x.com"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	blocked, err := limiter.TooManyAttempts(ctx, "ann@x.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if blocked {
		t.Fatalf("must not throttle below %d failures", limiterMaxFailures)
	}
}

func TestLoginLimiter_ThresholdReached(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < limiterMaxFailures; i++ {
		if err := limiter.RecordFailure(ctx, "ann@x.com"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	blocked, err := limiter.TooManyAttempts(ctx, "ann@x.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !blocked {
		t.Fatalf("expected throttle after %d failures", limiterMaxFailures)
	}
}

func TestLoginLimiter_UnknownEmail(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	blocked, err := limiter.TooManyAttempts(context.Background(), "ghost@x.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if blocked {
		t.Fatalf("unknown email must not be throttled")
	}
}

func TestLoginLimiter_EmailCaseInsensitive(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < limiterMaxFailures; i++ {
		if err := limiter.RecordFailure(ctx, "Ann@X.com"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	blocked, err := limiter.TooManyAttempts(ctx, "ann@x.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !blocked {
		t.Fatalf("failure counts must be shared across email casings")
	}
}

func TestLoginLimiter_Reset(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < limiterMaxFailures; i++ {
		if err := limiter.RecordFailure(ctx, "ann@x.com"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}
	if err := limiter.Reset(ctx, "ann@x.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	blocked, err := limiter.TooManyAttempts(ctx, "ann@x.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if blocked {
		t.Fatalf("reset must clear the failure budget")
	}
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < limiterMaxFailures; i++ {
		if err := limiter.RecordFailure(ctx, "ann@x.com"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	mr.FastForward(limiterWindow)

	blocked, err := limiter.TooManyAttempts(ctx, "ann@x.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if blocked {
		t.Fatalf("failures must expire with the window")
	}
}
