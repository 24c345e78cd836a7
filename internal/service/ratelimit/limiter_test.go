package ratelimit

import (
	"testing"
	"time"
)

func TestAllowDrainsBucket(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("cg", 3, 0) {
			t.Fatalf("call %d: expected token available", i+1)
		}
	}
	if l.Allow("cg", 3, 0) {
		t.Fatal("expected bucket to be empty after capacity consumed")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()
	base := time.Now()
	l.now = func() time.Time { return base }

	if !l.Allow("cg", 1, 1) {
		t.Fatal("fresh bucket should allow")
	}
	if l.Allow("cg", 1, 1) {
		t.Fatal("bucket should be empty")
	}

	base = base.Add(1500 * time.Millisecond)
	if !l.Allow("cg", 1, 1) {
		t.Fatal("bucket should have refilled after 1.5s at 1 token/s")
	}
}

func TestAllowIsolatesKeys(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatal("key a should allow")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatal("key b should have its own bucket")
	}
	if l.Allow("a", 1, 0) {
		t.Fatal("key a should be drained")
	}
}
