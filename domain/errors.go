package domain

import "errors"

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Wizard errors
var (
	ErrWrongStep        = errors.New("action not allowed on the current step")
	ErrRequestInFlight  = errors.New("a request is already in progress")
	ErrValidation       = errors.New("validation failed")
	ErrUnknownDocument  = errors.New("unknown document type")
	ErrUploadInProgress = errors.New("upload already in progress for this document")
	ErrMissingToken     = errors.New("login response did not contain a token")
	ErrResendThrottled  = errors.New("otp resend throttled")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Authorization errors
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInsufficientRole = errors.New("insufficient role permissions")
)
