package analytics

import (
	"testing"
	"time"
)

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	rl := newRateLimiter(2, 200*time.Millisecond)
	ip := "203.0.113.40"

	if !rl.allow(ip) {
		t.Fatalf("expected first beacon to be allowed")
	}
	if !rl.allow(ip) {
		t.Fatalf("expected second beacon to be allowed")
	}
	if rl.allow(ip) {
		t.Fatalf("expected third beacon to be blocked")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := newRateLimiter(1, 100*time.Millisecond)
	ip := "203.0.113.41"

	if !rl.allow(ip) {
		t.Fatalf("expected first beacon to be allowed")
	}
	if rl.allow(ip) {
		t.Fatalf("expected second beacon to be blocked")
	}

	time.Sleep(150 * time.Millisecond)
	if !rl.allow(ip) {
		t.Fatalf("expected beacon after window to be allowed")
	}
}

func TestRateLimiterPrunesIdleKeys(t *testing.T) {
	rl := newRateLimiter(1, 50*time.Millisecond)

	rl.allow("203.0.113.42")
	time.Sleep(80 * time.Millisecond)
	rl.allow("203.0.113.42")

	rl.mu.Lock()
	n := len(rl.hits["203.0.113.42"])
	rl.mu.Unlock()
	if n != 1 {
		t.Errorf("recorded hits = %d, want 1 after pruning", n)
	}
}
