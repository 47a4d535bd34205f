package rate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPerMinute = 20
	DefaultPer10Sec  = 5
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

type window struct {
	prefix string
	size   time.Duration
	limit  int
}

// Limiter caps how quickly one phone number can send likes, independent of
// the monthly quota.
type Limiter struct {
	store   WindowStore
	windows []window
}

func NewLimiter(store WindowStore, perMinute, per10Sec int) *Limiter {
	windows := make([]window, 0, 2)
	if perMinute > 0 {
		windows = append(windows, window{prefix: "rate:likes:min:", size: time.Minute, limit: perMinute})
	}
	if per10Sec > 0 {
		windows = append(windows, window{prefix: "rate:likes:10s:", size: 10 * time.Second, limit: per10Sec})
	}

	return &Limiter{
		store:   store,
		windows: windows,
	}
}

// AllowLike counts one action against every window. When any window is over
// its limit the caller gets the longest wait in seconds.
func (l *Limiter) AllowLike(ctx context.Context, phone string) (int64, bool, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return 0, false, fmt.Errorf("phone number is required")
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}

	retryAfterSec := int64(0)
	for _, w := range l.windows {
		count, ttl, err := l.store.IncrementWindow(ctx, w.prefix+phone, w.size)
		if err != nil {
			return 0, false, err
		}
		if count > int64(w.limit) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl))
		}
	}

	if retryAfterSec > 0 {
		return retryAfterSec, false, nil
	}
	return 0, true, nil
}

// RetryAfterLike reads the windows without counting an action.
func (l *Limiter) RetryAfterLike(ctx context.Context, phone string) (int64, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return 0, fmt.Errorf("phone number is required")
	}
	if l.store == nil {
		return 0, fmt.Errorf("rate limiter store is nil")
	}

	retryAfterSec := int64(0)
	for _, w := range l.windows {
		count, ttl, err := l.store.WindowState(ctx, w.prefix+phone)
		if err != nil {
			return 0, err
		}
		if count >= int64(w.limit) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl))
		}
	}

	return retryAfterSec, nil
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	return max(sec, 1)
}
