package onboarding

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// MaxFileSize is the largest document accepted for upload (10 MiB)
const MaxFileSize int64 = 10 * 1024 * 1024

// MinPasswordLength is the shortest password the signup step accepts
const MinPasswordLength = 6

// AllowedMIMETypes lists the document formats accepted for upload
var AllowedMIMETypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/jpg",
	"image/png",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var extensionByMIME = map[string]string{
	"application/pdf":    "pdf",
	"image/jpeg":         "jpg",
	"image/jpg":          "jpg",
	"image/png":          "png",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
}

// MissingBasicInfo returns the labels of step 1 fields that block advancing
func MissingBasicInfo(f domain.OrgData) []string {
	var missing []string
	check := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, label)
		}
	}
	check("Organization name", f.OrganizationName)
	check("Contact name", f.ContactName)
	if !strings.Contains(f.Email, "@") {
		missing = append(missing, "Email")
	}
	check("Phone", f.Phone)
	check("Address", f.Address)
	check("Country", f.Country)
	return missing
}

// CanAdvance is the step 1 guard, recomputed on every field change
func CanAdvance(f domain.OrgData) bool {
	return len(MissingBasicInfo(f)) == 0
}

// ValidatePassword returns the alert to raise, or nil when the pair is acceptable
func ValidatePassword(password, confirm string) *Alert {
	if len(password) < MinPasswordLength {
		a := errorAlert(TitleInvalidPassword, fmt.Sprintf("Password must be at least %d characters long.", MinPasswordLength))
		return &a
	}
	if password != confirm {
		a := errorAlert(TitlePasswordMismatch, "Passwords do not match.")
		return &a
	}
	return nil
}

// ValidateFile checks the MIME type and size of a selected document
func ValidateFile(file domain.UploadFile, maxSize int64) *Alert {
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	if !allowedMIME(file.ContentType) {
		a := errorAlert(TitleInvalidFileType, "Please upload a PDF, JPEG, PNG, DOC or DOCX file.")
		return &a
	}
	if file.Size > maxSize {
		a := errorAlert(TitleFileTooLarge, fmt.Sprintf("File size must not exceed %d MB.", maxSize/(1024*1024)))
		return &a
	}
	return nil
}

func allowedMIME(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	for _, t := range AllowedMIMETypes {
		if ct == t {
			return true
		}
	}
	return false
}

// FileExtension returns the extension used to request an upload URL.
// The file name wins; the MIME type is the fallback.
func FileExtension(file domain.UploadFile) string {
	if ext := strings.TrimPrefix(filepath.Ext(file.Name), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return extensionByMIME[strings.ToLower(file.ContentType)]
}
