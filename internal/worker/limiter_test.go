package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("scraper-a") {
			t.Fatalf("request %d within burst denied", i)
		}
	}
	if l.Allow("scraper-a") {
		t.Error("request beyond burst allowed")
	}
}

func TestLimiter_SourcesIndependent(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("scraper-a") {
		t.Fatal("first request for scraper-a denied")
	}
	if !l.Allow("scraper-b") {
		t.Error("scraper-b throttled by scraper-a's usage")
	}
}

func TestLimiter_EmptySourceUsesDefault(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("") {
		t.Fatal("first request denied")
	}
	// Empty source shares the default bucket.
	if l.Allow("") {
		t.Error("expected default bucket exhausted")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)

	if err := l.Wait(context.Background(), "scraper-a"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "scraper-a"); err == nil {
		t.Error("expected context error on exhausted bucket")
	}
}
