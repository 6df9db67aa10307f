package domain

import (
	"context"
	"time"
)

// AccountAPI is the account side of the platform API
type AccountAPI interface {
	Signup(ctx context.Context, req SignupRequest) error
	VerifyOTP(ctx context.Context, id Identifier, code string) error
	ResendOTP(ctx context.Context, id Identifier) error
	Login(ctx context.Context, id Identifier, password string) (*LoginResult, error)
}

// DocumentAPI is the KYB document side of the platform API
type DocumentAPI interface {
	ActiveDocumentTypes(ctx context.Context, token string) ([]DocumentType, error)
	GenerateUploadURL(ctx context.Context, token, fileExtension, namespace string) (*UploadTarget, error)
	Upload(ctx context.Context, target UploadTarget, file UploadFile) error
	CreateDocuments(ctx context.Context, token string, docs []DocumentRecord) error
	MyDocuments(ctx context.Context, token string, page, perPage int) ([]MyDocument, error)
}

// SessionRepository defines portal session storage
type SessionRepository interface {
	Create(ctx context.Context, session *PortalSession) error
	FindByID(ctx context.Context, sessionID string) (*PortalSession, error)
	SaveToken(ctx context.Context, sessionID, token string, expiresAt time.Time) error
	ClearToken(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) error
}

// SessionContext is the read/write/clear capability one wizard gets
// over the browser session it runs in.
type SessionContext interface {
	OnboardingCompleted(ctx context.Context) (bool, error)
	StoreToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// TokenService defines token operations
type TokenService interface {
	ExpiresAt(token string) (time.Time, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(to, message string) error
}

// ResendGuard throttles OTP resends per identifier
type ResendGuard interface {
	Acquire(ctx context.Context, key string) (bool, time.Duration, error)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() ([][]string, error)
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
