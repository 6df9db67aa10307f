package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Account events
	SignupSubmittedEvent  AuditEventType = "SIGNUP_SUBMITTED"
	SignupFailureEvent    AuditEventType = "SIGNUP_FAILED"
	OTPVerifiedEvent      AuditEventType = "OTP_VERIFIED"
	OTPFailureEvent       AuditEventType = "OTP_VERIFICATION_FAILED"
	OTPResentEvent        AuditEventType = "OTP_RESENT"
	AutoLoginFailureEvent AuditEventType = "AUTO_LOGIN_FAILED"

	// KYB document events
	DocumentUploadedEvent       AuditEventType = "DOCUMENT_UPLOADED"
	DocumentUploadFailureEvent  AuditEventType = "DOCUMENT_UPLOAD_FAILED"
	DocumentsSubmittedEvent     AuditEventType = "DOCUMENTS_SUBMITTED"
	DocumentsSubmitFailureEvent AuditEventType = "DOCUMENTS_SUBMIT_FAILED"
)

// AuditEvent represents a business event that occurred during onboarding
type AuditEvent struct {
	ID        string                 `json:"id"`
	EventType AuditEventType         `json:"event_type"`
	WizardID  string                 `json:"wizard_id"`
	Email     string                 `json:"email,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger records onboarding audit events
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent) error
}

// AuditEventRepository stores and lists audit events
type AuditEventRepository interface {
	AuditLogger
	List(ctx context.Context, filter AuditFilter) ([]AuditEvent, error)
}

// AuditFilter narrows an audit event listing
type AuditFilter struct {
	WizardID  string
	EventType AuditEventType
	Limit     int
}

// NewAuditEvent creates a new audit event with common fields populated.
// wizardID is the public handle of the wizard, never the session id.
func NewAuditEvent(eventType AuditEventType, wizardID string) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		WizardID:  wizardID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithPhone sets the phone field
func (e *AuditEvent) WithPhone(phone string) *AuditEvent {
	e.Phone = phone
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
