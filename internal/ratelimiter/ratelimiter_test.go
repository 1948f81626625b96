package ratelimiter

import (
	"context"
	"testing"
	"time"
)

func TestAcquireSerializesSameHost(t *testing.T) {
	l := New(20) // 20 rps => 50ms interval
	ctx := context.Background()

	start := time.Now()
	const n = 5
	for i := 0; i < n; i++ {
		if err := l.Acquire(ctx, "example.com"); err != nil {
			t.Fatalf("Acquire: %v", err)
		}
	}
	elapsed := time.Since(start)

	// n-1 intervals of 1/rps must have elapsed (first call is free, burst=1).
	want := time.Duration(float64(n-1)/20*float64(time.Second)) - 15*time.Millisecond
	if elapsed < want {
		t.Errorf("elapsed = %v, want >= %v", elapsed, want)
	}
}

func TestAcquireIndependentHosts(t *testing.T) {
	l := New(1) // slow: 1 rps
	ctx := context.Background()

	start := time.Now()
	if err := l.Acquire(ctx, "a.test"); err != nil {
		t.Fatal(err)
	}
	if err := l.Acquire(ctx, "b.test"); err != nil {
		t.Fatal(err)
	}
	elapsed := time.Since(start)

	if elapsed > 200*time.Millisecond {
		t.Errorf("different hosts should not block each other, took %v", elapsed)
	}
}

func TestAcquireRespectsContextCancellation(t *testing.T) {
	l := New(0.1) // very slow, second call would wait ~10s
	ctx := context.Background()
	if err := l.Acquire(ctx, "slow.test"); err != nil {
		t.Fatal(err)
	}

	cancelCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Acquire(cancelCtx, "slow.test"); err == nil {
		t.Error("expected context deadline error, got nil")
	}
}

func TestSetRate(t *testing.T) {
	l := New(1)
	if l.Rate() != 1 {
		t.Fatalf("Rate() = %v, want 1", l.Rate())
	}
	l.SetRate(5)
	if l.Rate() != 5 {
		t.Fatalf("Rate() after SetRate = %v, want 5", l.Rate())
	}
}

func TestNewClampsToMinRate(t *testing.T) {
	l := New(-1)
	if l.Rate() != minRate {
		t.Errorf("Rate() = %v, want clamp to %v", l.Rate(), minRate)
	}
}
