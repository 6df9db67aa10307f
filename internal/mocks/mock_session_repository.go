package mocks

import (
	"context"
	"time"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// MockSessionRepository implements domain.SessionRepository interface for testing
type MockSessionRepository struct {
	CreateFunc     func(ctx context.Context, session *domain.PortalSession) error
	FindByIDFunc   func(ctx context.Context, sessionID string) (*domain.PortalSession, error)
	SaveTokenFunc  func(ctx context.Context, sessionID, token string, expiresAt time.Time) error
	ClearTokenFunc func(ctx context.Context, sessionID string) error
	DeleteFunc     func(ctx context.Context, sessionID string) error
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

// Create creates a new session
func (m *MockSessionRepository) Create(ctx context.Context, session *domain.PortalSession) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	// Default behavior: success
	return nil
}

// FindByID finds a session by ID
func (m *MockSessionRepository) FindByID(ctx context.Context, sessionID string) (*domain.PortalSession, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, sessionID)
	}
	// Default behavior: not found
	return nil, domain.ErrSessionNotFound
}

// SaveToken stores the bearer token of a session
func (m *MockSessionRepository) SaveToken(ctx context.Context, sessionID, token string, expiresAt time.Time) error {
	if m.SaveTokenFunc != nil {
		return m.SaveTokenFunc(ctx, sessionID, token, expiresAt)
	}
	return nil
}

// ClearToken removes the bearer token of a session
func (m *MockSessionRepository) ClearToken(ctx context.Context, sessionID string) error {
	if m.ClearTokenFunc != nil {
		return m.ClearTokenFunc(ctx, sessionID)
	}
	return nil
}

// Delete deletes a session by ID
func (m *MockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionRepository = (*MockSessionRepository)(nil)
