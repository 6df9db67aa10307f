package domain

import "time"

// DocumentsNamespace is the storage namespace KYB uploads go to
const DocumentsNamespace = "documents"

// OrgData is everything the first two onboarding steps collect
type OrgData struct {
	OrganizationName string `json:"organization_name"`
	ContactName      string `json:"contact_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	DialCode         string `json:"dial_code"`
	Address          string `json:"address"`
	Country          string `json:"country"`
	Password         string `json:"-"`
	ConfirmPassword  string `json:"-"`
}

// Identifier is the account handle sent to OTP and login calls.
// Exactly one of Email or MSISDN is set.
type Identifier struct {
	Email  string
	MSISDN string
}

// SignupRequest is the account creation payload
type SignupRequest struct {
	CompanyName string `json:"company_name"`
	FullName    string `json:"full_name"`
	MSISDN      string `json:"msisdn"`
	Email       string `json:"email"`
	CountryCode string `json:"country_code"`
	Address     string `json:"address"`
	Password    string `json:"password"`
}

// LoginResult carries the bearer token returned by the platform
type LoginResult struct {
	Token string
}

// DocumentType describes one KYB document the platform asks for
type DocumentType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// UploadFile is a user-selected file held in memory until it is uploaded
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// UploadTarget is a pre-signed destination for one file
type UploadTarget struct {
	UploadURL string `json:"upload_url"`
	FilePath  string `json:"file_path"`
}

// DocumentRecord registers an uploaded file against a document type
type DocumentRecord struct {
	DocumentTypeID int    `json:"document_type_id"`
	FilePath       string `json:"file_path"`
	DocumentName   string `json:"document_name"`
	DocumentNumber string `json:"document_number"`
}

// MyDocument is a KYB document already registered for the caller
type MyDocument struct {
	ID             int    `json:"id"`
	DocumentTypeID int    `json:"document_type_id"`
	DocumentName   string `json:"document_name"`
	DocumentNumber string `json:"document_number"`
	FilePath       string `json:"file_path"`
	Status         string `json:"status"`
}

// PortalSession represents one browser session of the portal
type PortalSession struct {
	ID                  string
	Token               string
	TokenExpiresAt      time.Time
	OnboardingCompleted bool
	CreatedAt           time.Time
	ExpiresAt           time.Time
}

// TokenClaims represents the claims the portal reads from a bearer token
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
