package onboarding

import "github.com/benbaruka/sms-portal-sub004/domain"

// Action is a user intent or the result of an effect
type Action interface {
	isAction()
}

// FormPatch carries the form fields a request wants to change. Nil fields
// are left alone.
type FormPatch struct {
	OrganizationName *string `json:"organization_name"`
	ContactName      *string `json:"contact_name"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	DialCode         *string `json:"dial_code"`
	Address          *string `json:"address"`
	Country          *string `json:"country"`
	Password         *string `json:"password"`
	ConfirmPassword  *string `json:"confirm_password"`
}

// User actions.
type (
	// EditFields updates step 1 fields on step 1 and the password pair on step 2
	EditFields struct{ Patch FormPatch }
	Next       struct{}
	Back       struct{}

	TypeOTPDigit struct {
		Index int
		Value string
	}
	BackspaceOTP struct{ Index int }
	PasteOTP     struct {
		Index int
		Text  string
	}
	VerifyCode struct{}
	ResendCode struct{}

	SetDocumentNumber struct {
		DocumentID int
		Number     string
	}
	SelectFile struct {
		DocumentID int
		File       domain.UploadFile
	}
	ClearFile           struct{ DocumentID int }
	ReloadDocumentTypes struct{}
	SubmitDocuments     struct{}
)

// Effect results. Only the runner produces these.
type (
	signupDone   struct{ err error }
	verifyFailed struct{ err error }
	loginFailed  struct{ err error }
	loggedIn     struct{ token string }
	resendDone   struct{ err error }
	typesLoaded  struct {
		types []domain.DocumentType
		err   error
	}
	uploadURLReady struct {
		documentID int
		target     domain.UploadTarget
		err        error
	}
	uploadDone struct {
		documentID int
		filePath   string
		err        error
	}
	submitDone struct{ err error }
)

func (EditFields) isAction()          {}
func (Next) isAction()                {}
func (Back) isAction()                {}
func (TypeOTPDigit) isAction()        {}
func (BackspaceOTP) isAction()        {}
func (PasteOTP) isAction()            {}
func (VerifyCode) isAction()          {}
func (ResendCode) isAction()          {}
func (SetDocumentNumber) isAction()   {}
func (SelectFile) isAction()          {}
func (ClearFile) isAction()           {}
func (ReloadDocumentTypes) isAction() {}
func (SubmitDocuments) isAction()     {}

func (signupDone) isAction()     {}
func (verifyFailed) isAction()   {}
func (loginFailed) isAction()    {}
func (loggedIn) isAction()       {}
func (resendDone) isAction()     {}
func (typesLoaded) isAction()    {}
func (uploadURLReady) isAction() {}
func (uploadDone) isAction()     {}
func (submitDone) isAction()     {}

func applyStep1(f domain.OrgData, p FormPatch) domain.OrgData {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&f.OrganizationName, p.OrganizationName)
	set(&f.ContactName, p.ContactName)
	set(&f.Email, p.Email)
	set(&f.Phone, p.Phone)
	set(&f.DialCode, p.DialCode)
	set(&f.Address, p.Address)
	set(&f.Country, p.Country)
	if p.Country != nil && p.DialCode == nil {
		if dc := DialCode(*p.Country); dc != "" {
			f.DialCode = dc
		}
	}
	return f
}

func applyStep2(f domain.OrgData, p FormPatch) domain.OrgData {
	if p.Password != nil {
		f.Password = *p.Password
	}
	if p.ConfirmPassword != nil {
		f.ConfirmPassword = *p.ConfirmPassword
	}
	return f
}
