package httpx

import (
	"testing"
	"time"
)

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("request over the limit should be rejected")
	}
	if !rl.allow("10.0.0.2") {
		t.Fatal("a different client should not be affected")
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	if !rl.allow("10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("second request in the same window should be rejected")
	}
	time.Sleep(30 * time.Millisecond)
	if !rl.allow("10.0.0.1") {
		t.Fatal("request after window reset should be allowed")
	}
}
