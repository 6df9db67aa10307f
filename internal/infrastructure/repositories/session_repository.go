package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using Redis.
// The bearer token lives under its own key so it can expire with the
// token rather than with the session.
type SessionRepositoryImpl struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// sessionRecord is the stored form of a portal session, without the token
type sessionRecord struct {
	ID                  string    `json:"id"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
	ExpiresAt           time.Time `json:"expires_at"`
}

type tokenRecord struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client *redis.Client) domain.SessionRepository {
	return &SessionRepositoryImpl{
		client: client,
		prefix: "portal_session:",
		now:    time.Now,
	}
}

func (r *SessionRepositoryImpl) key(id string) string      { return r.prefix + id }
func (r *SessionRepositoryImpl) tokenKey(id string) string { return r.prefix + id + ":token" }

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.PortalSession) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return domain.ErrSessionExpired
	}
	data, err := json.Marshal(sessionRecord{
		ID:                  session.ID,
		OnboardingCompleted: session.OnboardingCompleted,
		CreatedAt:           session.CreatedAt,
		ExpiresAt:           session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.key(session.ID), data, ttl).Err()
}

// FindByID implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByID(ctx context.Context, sessionID string) (*domain.PortalSession, error) {
	rec, err := r.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session := &domain.PortalSession{
		ID:                  rec.ID,
		OnboardingCompleted: rec.OnboardingCompleted,
		CreatedAt:           rec.CreatedAt,
		ExpiresAt:           rec.ExpiresAt,
	}

	data, err := r.client.Get(ctx, r.tokenKey(sessionID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return session, nil
	case err != nil:
		return nil, err
	}
	var tok tokenRecord
	if err := json.Unmarshal([]byte(data), &tok); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session token: %w", err)
	}
	session.Token = tok.Token
	session.TokenExpiresAt = tok.ExpiresAt
	return session, nil
}

func (r *SessionRepositoryImpl) load(ctx context.Context, sessionID string) (*sessionRecord, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var rec sessionRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// Check if expired
	if rec.ExpiresAt.Before(r.now()) {
		r.client.Del(ctx, r.key(sessionID), r.tokenKey(sessionID))
		return nil, domain.ErrSessionExpired
	}
	return &rec, nil
}

// SaveToken implements domain.SessionRepository. The token key expires at
// expiresAt or with the session, whichever comes first.
func (r *SessionRepositoryImpl) SaveToken(ctx context.Context, sessionID, token string, expiresAt time.Time) error {
	rec, err := r.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if expiresAt.IsZero() || expiresAt.After(rec.ExpiresAt) {
		expiresAt = rec.ExpiresAt
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return domain.ErrTokenExpired
	}

	data, err := json.Marshal(tokenRecord{Token: token, ExpiresAt: expiresAt})
	if err != nil {
		return fmt.Errorf("failed to marshal session token: %w", err)
	}
	return r.client.Set(ctx, r.tokenKey(sessionID), data, ttl).Err()
}

// ClearToken implements domain.SessionRepository
func (r *SessionRepositoryImpl) ClearToken(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.tokenKey(sessionID)).Err()
}

// Delete implements domain.SessionRepository
func (r *SessionRepositoryImpl) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID), r.tokenKey(sessionID)).Err()
}
