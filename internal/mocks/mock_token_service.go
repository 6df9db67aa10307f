package mocks

import (
	"time"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	ExpiresAtFunc           func(token string) (time.Time, error)
	ValidateAccessTokenFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// ExpiresAt returns the expiry embedded in a token
func (m *MockTokenService) ExpiresAt(token string) (time.Time, error) {
	if m.ExpiresAtFunc != nil {
		return m.ExpiresAtFunc(token)
	}
	// Default behavior: one hour from now
	return time.Now().Add(time.Hour), nil
}

// ValidateAccessToken validates an admin token
func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	// Default behavior: invalid
	return nil, domain.ErrTokenInvalid
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
