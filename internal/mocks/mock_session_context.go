package mocks

import (
	"context"
	"sync"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// MockSessionContext implements domain.SessionContext interface for testing.
// Without Func overrides it keeps the token in memory.
type MockSessionContext struct {
	OnboardingCompletedFunc func(ctx context.Context) (bool, error)
	StoreTokenFunc          func(ctx context.Context, token string) error
	ClearTokenFunc          func(ctx context.Context) error

	mu         sync.Mutex
	token      string
	clearCalls int
}

// NewMockSessionContext creates a new MockSessionContext with default behaviors
func NewMockSessionContext() *MockSessionContext {
	return &MockSessionContext{}
}

// OnboardingCompleted reports the persisted onboarding flag
func (m *MockSessionContext) OnboardingCompleted(ctx context.Context) (bool, error) {
	if m.OnboardingCompletedFunc != nil {
		return m.OnboardingCompletedFunc(ctx)
	}
	return false, nil
}

// StoreToken persists the bearer token
func (m *MockSessionContext) StoreToken(ctx context.Context, token string) error {
	if m.StoreTokenFunc != nil {
		return m.StoreTokenFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// ClearToken drops the persisted bearer token
func (m *MockSessionContext) ClearToken(ctx context.Context) error {
	m.mu.Lock()
	m.clearCalls++
	m.mu.Unlock()
	if m.ClearTokenFunc != nil {
		return m.ClearTokenFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// Token returns the stored token (test helper)
func (m *MockSessionContext) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// ClearCalls returns how many times ClearToken ran (test helper)
func (m *MockSessionContext) ClearCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearCalls
}

// Compile-time interface compliance verification
var _ domain.SessionContext = (*MockSessionContext)(nil)
