package cache

import (
	"context"
	"testing"

	"github.com/socins/socins/internal/testutil"
)

// newTestCache connects to the test Redis and flushes it. Skipped unless
// TEST_REDIS_URL is set.
func newTestCache(t *testing.T) *Cache {
	t.Helper()

	url := testutil.RequireEnv(t, "TEST_REDIS_URL")
	ctx := context.Background()

	c, err := New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	return c
}

func TestIPRateLimitConsumesBurst(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	const burst = 3
	for i := 0; i < burst; i++ {
		result, err := c.CheckIPRateLimit(ctx, "203.0.113.7", 1, burst)
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if !result.Allowed {
			t.Fatalf("request %d denied inside burst", i)
		}
	}

	result, err := c.CheckIPRateLimit(ctx, "203.0.113.7", 1, burst)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if result.Allowed {
		t.Error("expected denial after burst exhausted")
	}
	if result.RetryAfter <= 0 {
		t.Errorf("retry after = %s, want > 0", result.RetryAfter)
	}
}

func TestIPRateLimitIsolatesClients(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if _, err := c.CheckIPRateLimit(ctx, "203.0.113.7", 1, 1); err != nil {
		t.Fatalf("check: %v", err)
	}
	result, err := c.CheckIPRateLimit(ctx, "198.51.100.9", 1, 1)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !result.Allowed {
		t.Error("second client must start with a full bucket")
	}
}
