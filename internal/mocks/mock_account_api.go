package mocks

import (
	"context"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// MockAccountAPI implements domain.AccountAPI interface for testing
type MockAccountAPI struct {
	SignupFunc    func(ctx context.Context, req domain.SignupRequest) error
	VerifyOTPFunc func(ctx context.Context, id domain.Identifier, code string) error
	ResendOTPFunc func(ctx context.Context, id domain.Identifier) error
	LoginFunc     func(ctx context.Context, id domain.Identifier, password string) (*domain.LoginResult, error)
}

// NewMockAccountAPI creates a new MockAccountAPI with default behaviors
func NewMockAccountAPI() *MockAccountAPI {
	return &MockAccountAPI{}
}

// Signup creates an account
func (m *MockAccountAPI) Signup(ctx context.Context, req domain.SignupRequest) error {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	// Default behavior: success
	return nil
}

// VerifyOTP checks a verification code
func (m *MockAccountAPI) VerifyOTP(ctx context.Context, id domain.Identifier, code string) error {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, id, code)
	}
	return nil
}

// ResendOTP requests a new verification code
func (m *MockAccountAPI) ResendOTP(ctx context.Context, id domain.Identifier) error {
	if m.ResendOTPFunc != nil {
		return m.ResendOTPFunc(ctx, id)
	}
	return nil
}

// Login signs in and returns a bearer token
func (m *MockAccountAPI) Login(ctx context.Context, id domain.Identifier, password string) (*domain.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, id, password)
	}
	// Default behavior: a fixed token
	return &domain.LoginResult{Token: "mock_access_token"}, nil
}

// Compile-time interface compliance verification
var _ domain.AccountAPI = (*MockAccountAPI)(nil)
