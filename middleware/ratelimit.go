package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Limiter decides whether a client identified by key may make a request.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type rateLimitEntry struct {
	tokens    float64
	lastCheck time.Time
}

// RateLimiter is an in-process token bucket per client.
type RateLimiter struct {
	mu         sync.Mutex
	clients    map[string]*rateLimitEntry
	maxTokens  float64
	refillRate float64 // tokens per second
}

// NewRateLimiter creates a rate limiter.
// maxRequests is the burst size, perDuration is the window over which maxRequests are allowed.
// Stale clients are dropped until ctx is done.
func NewRateLimiter(ctx context.Context, maxRequests int, perDuration time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:    make(map[string]*rateLimitEntry),
		maxTokens:  float64(maxRequests),
		refillRate: float64(maxRequests) / perDuration.Seconds(),
	}
	go rl.cleanup(ctx)
	return rl
}

func (rl *RateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		rl.mu.Lock()
		now := time.Now()
		for key, entry := range rl.clients {
			if now.Sub(entry.lastCheck) > 10*time.Minute {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, exists := rl.clients[key]
	if !exists {
		rl.clients[key] = &rateLimitEntry{tokens: rl.maxTokens - 1, lastCheck: now}
		return true, nil
	}

	entry.tokens += now.Sub(entry.lastCheck).Seconds() * rl.refillRate
	if entry.tokens > rl.maxTokens {
		entry.tokens = rl.maxTokens
	}
	entry.lastCheck = now

	if entry.tokens >= 1 {
		entry.tokens--
		return true, nil
	}
	return false, nil
}

// RedisRateLimiter counts requests per client in fixed windows shared by all
// instances behind the same Redis.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

func NewRedisRateLimiter(client *redis.Client, maxRequests int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  int64(maxRequests),
		window: window,
		prefix: "ratelimit",
	}
}

func (rl *RedisRateLimiter) windowKey(key string, now time.Time) string {
	return fmt.Sprintf("%s:%s:%d", rl.prefix, key, now.UnixNano()/int64(rl.window))
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := rl.windowKey(key, time.Now())

	pipe := rl.client.TxPipeline()
	count := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	return count.Val() <= rl.limit, nil
}

// RateLimit rejects clients over their limit with 429. When the limiter
// itself fails the request is let through.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			c.Abort()
			return
		}
		c.Next()
	}
}
