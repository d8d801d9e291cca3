package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewLimiter(3, time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("alice@example.com") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("alice@example.com") {
		t.Fatalf("request over the limit should be denied")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	defer l.Stop()

	if !l.Allow("alice@example.com") {
		t.Fatalf("first request for alice should be allowed")
	}
	if !l.Allow("bob@example.com") {
		t.Fatalf("bob should have his own bucket")
	}
	if l.Allow("alice@example.com") {
		t.Fatalf("alice should be over her limit")
	}
}

func TestAllowEmptyKeyNeverLimited(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		if !l.Allow("") {
			t.Fatalf("anonymous requests must not be limited here")
		}
	}
}

func TestWindowSlides(t *testing.T) {
	l := NewLimiter(1, 50*time.Millisecond)
	defer l.Stop()

	if !l.Allow("key") {
		t.Fatalf("first request should be allowed")
	}
	if l.Allow("key") {
		t.Fatalf("second request inside the window should be denied")
	}
	time.Sleep(60 * time.Millisecond)
	if !l.Allow("key") {
		t.Fatalf("request after the window should be allowed")
	}
}

func TestAllowStrictIsSeparateBucket(t *testing.T) {
	l := NewLimiter(100, time.Minute)
	defer l.Stop()

	// Exhaust the strict budget without touching the regular one.
	if !l.AllowStrict("10.0.0.1", 1, time.Minute) {
		t.Fatalf("first strict request should be allowed")
	}
	if l.AllowStrict("10.0.0.1", 1, time.Minute) {
		t.Fatalf("second strict request should be denied")
	}
	if !l.Allow("10.0.0.1") {
		t.Fatalf("regular bucket should be unaffected")
	}
}
