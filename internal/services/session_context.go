package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// SessionContextImpl implements domain.SessionContext for one portal session
type SessionContextImpl struct {
	sessionID   string
	sessionRepo domain.SessionRepository
	tokenSvc    domain.TokenService
}

// NewSessionContext binds the session store to sessionID
func NewSessionContext(sessionID string, sessionRepo domain.SessionRepository, tokenSvc domain.TokenService) domain.SessionContext {
	return &SessionContextImpl{
		sessionID:   sessionID,
		sessionRepo: sessionRepo,
		tokenSvc:    tokenSvc,
	}
}

// OnboardingCompleted implements domain.SessionContext. A session the store
// no longer knows has not completed onboarding.
func (s *SessionContextImpl) OnboardingCompleted(ctx context.Context) (bool, error) {
	session, err := s.sessionRepo.FindByID(ctx, s.sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to load session: %w", err)
	}
	return session.OnboardingCompleted, nil
}

// StoreToken implements domain.SessionContext. The token lives until its own
// exp claim; opaque tokens live as long as the session.
func (s *SessionContextImpl) StoreToken(ctx context.Context, token string) error {
	expiresAt, err := s.tokenSvc.ExpiresAt(token)
	if err != nil {
		expiresAt = time.Time{}
	}
	if err := s.sessionRepo.SaveToken(ctx, s.sessionID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// ClearToken implements domain.SessionContext
func (s *SessionContextImpl) ClearToken(ctx context.Context) error {
	return s.sessionRepo.ClearToken(ctx, s.sessionID)
}
