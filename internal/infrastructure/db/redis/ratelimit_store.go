package redis

import (
	"context"
	"fmt"
	"time"

	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keyPrefix = "ratelimit"
	opTimeout = 500 * time.Millisecond
)

// windowCounter increments the hit count of a window key and returns the new
// total. The key expires after ttl.
type windowCounter interface {
	hit(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type clientCounter struct {
	client redis.Cmdable
}

func (c clientCounter) hit(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// WindowStore is a fixed-window rate limit store shared by every instance
// pointing at the same Redis. It satisfies echo's RateLimiterStore.
//
// Redis failures are logged and the request is allowed.
type WindowStore struct {
	counter windowCounter
	max     int64
	window  time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// NewWindowStore allows max requests per identifier in each window.
func NewWindowStore(client redis.Cmdable, max int, window time.Duration, log zerolog.Logger) *WindowStore {
	return newWindowStore(clientCounter{client: client}, max, window, log)
}

var _ echomiddleware.RateLimiterStore = (*WindowStore)(nil)

func newWindowStore(counter windowCounter, max int, window time.Duration, log zerolog.Logger) *WindowStore {
	return &WindowStore{
		counter: counter,
		max:     int64(max),
		window:  window,
		now:     time.Now,
		log:     log,
	}
}

// Allow records a hit for identifier and reports whether it is within the limit.
func (s *WindowStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	n, err := s.counter.hit(ctx, s.key(identifier), s.window)
	if err != nil {
		s.log.Warn().Err(err).Str("identifier", identifier).Msg("rate limit store unavailable, allowing request")
		return true, nil
	}
	return n <= s.max, nil
}

func (s *WindowStore) key(identifier string) string {
	start := s.now().Truncate(s.window).Unix()
	return fmt.Sprintf("%s:%s:%d", keyPrefix, identifier, start)
}
