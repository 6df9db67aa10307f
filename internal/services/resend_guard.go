package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// ResendGuardImpl implements domain.ResendGuard with one Redis key per
// identifier that lives for the resend window
type ResendGuardImpl struct {
	redisClient *redis.Client
	window      time.Duration
}

// NewResendGuard creates a Redis-backed resend cooldown. A zero window
// lets every resend through.
func NewResendGuard(redisClient *redis.Client, window time.Duration) domain.ResendGuard {
	return &ResendGuardImpl{
		redisClient: redisClient,
		window:      window,
	}
}

// Acquire implements domain.ResendGuard. When the key is already held it
// returns false and how long is left on the window.
func (g *ResendGuardImpl) Acquire(ctx context.Context, key string) (bool, time.Duration, error) {
	if g.window <= 0 {
		return true, 0, nil
	}
	resendKey := fmt.Sprintf("otp:res:%s", key)

	ok, err := g.redisClient.SetNX(ctx, resendKey, 1, g.window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to set resend throttle: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	ttl, err := g.redisClient.TTL(ctx, resendKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to read resend throttle: %w", err)
	}
	if ttl < 0 {
		// key without expiry, or gone since SetNX
		ttl = g.window
	}
	return false, ttl, nil
}
