package mocks

import (
	"context"
	"time"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// MockResendGuard implements domain.ResendGuard interface for testing
type MockResendGuard struct {
	AcquireFunc func(ctx context.Context, key string) (bool, time.Duration, error)
}

// NewMockResendGuard creates a new MockResendGuard with default behaviors
func NewMockResendGuard() *MockResendGuard {
	return &MockResendGuard{}
}

// Acquire reports whether a resend for key may go out now
func (m *MockResendGuard) Acquire(ctx context.Context, key string) (bool, time.Duration, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, key)
	}
	// Default behavior: always allowed
	return true, 0, nil
}

// Compile-time interface compliance verification
var _ domain.ResendGuard = (*MockResendGuard)(nil)
