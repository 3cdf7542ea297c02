package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// IssueQuota decides whether a user may report another issue.
type IssueQuota interface {
	Allow(ctx context.Context, userID string) (allowed bool, retryAfter time.Duration, err error)
}

// RedisQuota is a fixed window counter per user: the first report opens the
// window, every report increments it. A counter found without a TTL gets the
// window reapplied so it can never outlive it.
type RedisQuota struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewRedisQuota(client *redis.Client, prefix string, limit int, window time.Duration) *RedisQuota {
	return &RedisQuota{client: client, prefix: prefix, limit: int64(limit), window: window}
}

func (q *RedisQuota) Allow(ctx context.Context, userID string) (bool, time.Duration, error) {
	// Create individual key for each user
	userKey := q.prefix + ":" + userID

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, userKey)
		ttl = pipe.TTL(ctx, userKey)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("redis error incrementing count: %w", err)
	}

	retryAfter := ttl.Val()
	// negative TTL: the key has no expiry yet
	if retryAfter < 0 {
		if err := q.client.Expire(ctx, userKey, q.window).Err(); err != nil {
			return false, 0, fmt.Errorf("redis error setting TTL: %w", err)
		}
		retryAfter = q.window
	}

	if incr.Val() > q.limit {
		return false, retryAfter, nil
	}
	return true, 0, nil
}

// LocalQuota is the in-process fallback: a token bucket per user holding
// limit reports, refilled evenly over the window.
type LocalQuota struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
	now      func() time.Time
}

func NewLocalQuota(limit int, window time.Duration) *LocalQuota {
	if limit < 1 {
		limit = 1
	}
	return &LocalQuota{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		now:      time.Now,
	}
}

func (q *LocalQuota) Allow(ctx context.Context, userID string) (bool, time.Duration, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	lim, ok := q.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(q.every, q.burst)
		q.limiters[userID] = lim
	}

	now := q.now()
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, 0, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

// Sweep drops the limiters of users whose bucket has refilled completely;
// a fresh limiter behaves the same.
func (q *LocalQuota) Sweep() {
	now := q.now()
	q.mu.Lock()
	defer q.mu.Unlock()
	for userID, lim := range q.limiters {
		if lim.TokensAt(now) >= float64(q.burst) {
			delete(q.limiters, userID)
		}
	}
}

// Tracked is the number of users with a live limiter.
func (q *LocalQuota) Tracked() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.limiters)
}

// IssueRateLimiter enforces the quota for the authenticated user. It must
// run after AuthMiddleware.
func IssueRateLimiter(quota IssueQuota, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		allowed, retryAfter, err := quota.Allow(c.Request.Context(), strconv.FormatInt(identity.ID, 10))
		if err != nil {
			log.WithError(err).Error("issue quota check failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "rate limiter unavailable"})
			c.Abort()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
