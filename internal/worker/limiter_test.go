package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://gnews.io/api/v4/search?q=x"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://newsdata.io/api/1/news"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	url := "https://serpapi.com/search"

	if !limiter.Allow(url) {
		t.Fatal("first request should pass")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected Wait to fail once the context deadline cannot be met")
	}
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)
	url := "https://factchecktools.googleapis.com/v1alpha1/claims:search"

	if !limiter.Allow(url) {
		t.Error("first request should pass")
	}
	if limiter.Allow(url) {
		t.Error("expected allow to fail (exhausted tokens)")
	}
	if !limiter.Allow("https://www.googleapis.com/customsearch/v1") {
		t.Error("expected allow for other host")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetHostRate("api.mediastack.com", 0.1, 1)

	if !limiter.Allow("http://api.mediastack.com/v1/news") {
		t.Error("first request should pass")
	}
	if limiter.Allow("http://api.mediastack.com/v1/news") {
		t.Error("second request should fail")
	}
	if !limiter.Allow("https://gnews.io/api/v4/search") {
		t.Error("other host should pass")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("https://gnews.io/") {
			t.Fatalf("request %d blocked with limiting disabled", i)
		}
	}

	var nilLimiter *Limiter
	if err := nilLimiter.Wait(context.Background(), "https://gnews.io/"); err != nil {
		t.Errorf("nil limiter Wait returned %v", err)
	}
}

func TestHostKey(t *testing.T) {
	if got := hostKey("https://GNews.io:443/api"); got != "gnews.io" {
		t.Errorf("hostKey = %q, want gnews.io", got)
	}
	if got := hostKey("::invalid"); got != "" {
		t.Errorf("hostKey for invalid URL = %q, want empty", got)
	}
}
