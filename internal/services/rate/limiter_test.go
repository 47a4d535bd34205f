package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/ivankudzin/goodwill/internal/repo/redis"
)

func TestLimiterBlocksOn10SecondWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 100, 2)

	ctx := context.Background()
	phone := "+15550000042"

	for i := 0; i < 2; i++ {
		retryAfter, allowed, err := limiter.AllowLike(ctx, phone)
		if err != nil {
			t.Fatalf("allow like #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("unexpected result on allow #%d: allowed=%v retry_after=%d", i+1, allowed, retryAfter)
		}
	}

	retryAfter, allowed, err := limiter.AllowLike(ctx, phone)
	if err != nil {
		t.Fatalf("allow like #3: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on third action in 10s window")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}

	currentRetry, err := limiter.RetryAfterLike(ctx, phone)
	if err != nil {
		t.Fatalf("retry_after state: %v", err)
	}
	if currentRetry <= 0 {
		t.Fatalf("expected positive retry_after state, got %d", currentRetry)
	}

	mr.FastForward(11 * time.Second)

	retryAfter, allowed, err = limiter.AllowLike(ctx, phone)
	if err != nil {
		t.Fatalf("allow like after 10s window: %v", err)
	}
	if !allowed || retryAfter != 0 {
		t.Fatalf("unexpected result after fast forward: allowed=%v retry_after=%d", allowed, retryAfter)
	}
}

func TestLimiterBlocksOnMinuteWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 3, 100)

	ctx := context.Background()
	phone := "+15550000077"

	for i := 0; i < 3; i++ {
		retryAfter, allowed, err := limiter.AllowLike(ctx, phone)
		if err != nil {
			t.Fatalf("allow like #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("unexpected result on allow #%d: allowed=%v retry_after=%d", i+1, allowed, retryAfter)
		}
	}

	retryAfter, allowed, err := limiter.AllowLike(ctx, phone)
	if err != nil {
		t.Fatalf("allow like #4: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on fourth action in minute window")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}
}

func TestLimiterWindowsArePerPhone(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 0, 1)
	ctx := context.Background()

	if _, allowed, err := limiter.AllowLike(ctx, "+15550000001"); err != nil || !allowed {
		t.Fatalf("unexpected first result: allowed=%v err=%v", allowed, err)
	}
	if _, allowed, err := limiter.AllowLike(ctx, "+15550000002"); err != nil || !allowed {
		t.Fatalf("expected separate window for another phone: allowed=%v err=%v", allowed, err)
	}
	if _, allowed, err := limiter.AllowLike(ctx, "+15550000001"); err != nil || allowed {
		t.Fatalf("expected second action from same phone to be blocked: allowed=%v err=%v", allowed, err)
	}
}

func TestLimiterRejectsEmptyPhone(t *testing.T) {
	limiter := NewLimiter(nil, 1, 1)
	if _, _, err := limiter.AllowLike(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty phone")
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
