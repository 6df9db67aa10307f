package onboarding

import "github.com/benbaruka/sms-portal-sub004/domain"

// Effect is a side effect requested by the reducer. The Wizard runs it
// and feeds the result back as an Action.
type Effect interface {
	isEffect()
}

// SignupEffect creates the account
type SignupEffect struct {
	Request domain.SignupRequest
}

// VerifyEffect checks the code, then signs in with the same identifier
type VerifyEffect struct {
	Identifier domain.Identifier
	Code       string
	Password   string
}

// ResendEffect asks the platform for a new code
type ResendEffect struct {
	Identifier domain.Identifier
}

// LoadTypesEffect fetches the active document types
type LoadTypesEffect struct {
	Token string
}

// RequestUploadURLEffect obtains a presigned URL for one document slot
type RequestUploadURLEffect struct {
	DocumentID int
	Token      string
	Extension  string
}

// UploadEffect sends the file bytes to the presigned URL
type UploadEffect struct {
	DocumentID int
	Target     domain.UploadTarget
	File       domain.UploadFile
}

// SubmitEffect registers every uploaded document in one call
type SubmitEffect struct {
	Token   string
	Records []domain.DocumentRecord
}

// DiscardTokenEffect drops the persisted copy of the bearer token
type DiscardTokenEffect struct{}

func (SignupEffect) isEffect()           {}
func (VerifyEffect) isEffect()           {}
func (ResendEffect) isEffect()           {}
func (LoadTypesEffect) isEffect()        {}
func (RequestUploadURLEffect) isEffect() {}
func (UploadEffect) isEffect()           {}
func (SubmitEffect) isEffect()           {}
func (DiscardTokenEffect) isEffect()     {}
