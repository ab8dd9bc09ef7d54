package ratelimit

import (
	"testing"
	"time"
)

func TestAllowExhaustsCapacity(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("api", 3, 0.001) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("api", 3, 0.001) {
		t.Fatalf("expected bucket to be exhausted")
	}
}

func TestAllowPerKeyIsolation(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0.001) {
		t.Fatalf("first request for 'a' should pass")
	}
	if l.Allow("a", 1, 0.001) {
		t.Fatalf("'a' should be exhausted")
	}
	if !l.Allow("b", 1, 0.001) {
		t.Fatalf("'b' should have its own bucket")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 100) {
		t.Fatalf("first request should pass")
	}
	if l.Allow("k", 1, 100) {
		t.Fatalf("bucket should be empty immediately after")
	}
	time.Sleep(30 * time.Millisecond) // 100/s refill restores the token
	if !l.Allow("k", 1, 100) {
		t.Fatalf("expected refill to allow request")
	}
}

func TestWaitDeadline(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 0.001) {
		t.Fatalf("first request should pass")
	}
	start := time.Now()
	if l.Wait("k", 1, 0.001, time.Now().Add(60*time.Millisecond)) {
		t.Fatalf("expected wait to give up at deadline")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("wait overshot deadline by too much")
	}
}

func TestWaitSucceedsAfterRefill(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 20) {
		t.Fatalf("first request should pass")
	}
	if !l.Wait("k", 1, 20, time.Now().Add(time.Second)) {
		t.Fatalf("expected wait to acquire a refilled token")
	}
}
