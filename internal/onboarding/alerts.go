package onboarding

// AlertKind is the severity of a user-visible alert
type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
	AlertWarning AlertKind = "warning"
	AlertInfo    AlertKind = "info"
)

// Alert is a non-blocking message shown to the user
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// Alert titles the front-end keys on.
const (
	TitleMissingInformation = "Missing Information"
	TitleInvalidPassword    = "Invalid Password"
	TitlePasswordMismatch   = "Password Mismatch"
	TitleSignupFailed       = "Signup Failed"
	TitleAccountCreated     = "Account Created"
	TitleIncompleteCode     = "Incomplete Code"
	TitleVerificationFailed = "Verification Failed"
	TitleAccountVerified    = "Account Verified"
	TitleCodeSent           = "Code Sent"
	TitleResendFailed       = "Resend Failed"
	TitleDocumentsLoadFail  = "Could Not Load Documents"
	TitleNumberRequired     = "Document Number Required"
	TitleInvalidFileType    = "Invalid File Type"
	TitleFileTooLarge       = "File Too Large"
	TitleUploadFailed       = "Upload Failed"
	TitleFileUploaded       = "File Uploaded"
	TitleMissingDocuments   = "Missing Documents"
	TitleSubmissionFailed   = "Submission Failed"
	TitleDocumentsSubmitted = "Documents Submitted"
)

func successAlert(title, msg string) Alert { return Alert{Kind: AlertSuccess, Title: title, Message: msg} }
func errorAlert(title, msg string) Alert   { return Alert{Kind: AlertError, Title: title, Message: msg} }
func warningAlert(title, msg string) Alert { return Alert{Kind: AlertWarning, Title: title, Message: msg} }
