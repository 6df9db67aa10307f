package onboarding

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/benbaruka/sms-portal-sub004/domain"
	"github.com/benbaruka/sms-portal-sub004/internal/backend"
)

// Outcome is the result of one transition
type Outcome struct {
	Next   State
	Effect Effect
	Alerts []Alert
	Err    error
}

// Machine holds the transition rules and the few values they depend on
type Machine struct {
	SignInPath    string
	DashboardPath string
	RedirectDelay time.Duration
	MaxFileSize   int64
}

// DefaultMachine returns the rules the portal ships with
func DefaultMachine() Machine {
	return Machine{
		SignInPath:    "/signin",
		DashboardPath: "/dashboard",
		RedirectDelay: 2 * time.Second,
		MaxFileSize:   MaxFileSize,
	}
}

// Reduce computes the next state for action a. It never performs I/O;
// work that needs the network comes back as Outcome.Effect.
func (m Machine) Reduce(s State, a Action) Outcome {
	switch st := s.(type) {
	case BasicInfo:
		return m.reduceBasicInfo(st, a)
	case Password:
		return m.reducePassword(st, a)
	case VerifyOTP:
		return m.reduceVerifyOTP(st, a)
	case Documents:
		return m.reduceDocuments(st, a)
	case Completed:
		if isResult(a) {
			return stay(st)
		}
		return reject(st, domain.ErrWrongStep)
	}
	return reject(s, fmt.Errorf("unknown state %T", s))
}

func reject(s State, err error, alerts ...Alert) Outcome {
	return Outcome{Next: s, Err: err, Alerts: alerts}
}

func stay(s State, alerts ...Alert) Outcome {
	return Outcome{Next: s, Alerts: alerts}
}

func (m Machine) reduceBasicInfo(st BasicInfo, a Action) Outcome {
	switch act := a.(type) {
	case EditFields:
		st.Form = applyStep1(st.Form, act.Patch)
		return stay(st)
	case Next:
		if missing := MissingBasicInfo(st.Form); len(missing) > 0 {
			alert := warningAlert(TitleMissingInformation, "Please complete: "+strings.Join(missing, ", ")+".")
			return reject(st, domain.ErrValidation, alert)
		}
		return stay(Password{Form: st.Form})
	}
	if isResult(a) {
		return stay(st)
	}
	return reject(st, domain.ErrWrongStep)
}

func (m Machine) reducePassword(st Password, a Action) Outcome {
	switch act := a.(type) {
	case EditFields:
		if st.Submitting {
			return reject(st, domain.ErrRequestInFlight)
		}
		st.Form = applyStep2(st.Form, act.Patch)
		return stay(st)
	case Next:
		if st.Submitting {
			return reject(st, domain.ErrRequestInFlight)
		}
		if alert := ValidatePassword(st.Form.Password, st.Form.ConfirmPassword); alert != nil {
			return reject(st, domain.ErrValidation, *alert)
		}
		st.Submitting = true
		return Outcome{Next: st, Effect: SignupEffect{Request: BuildSignupRequest(st.Form)}}
	case Back:
		if st.Submitting {
			return reject(st, domain.ErrRequestInFlight)
		}
		return stay(BasicInfo{Form: st.Form})
	case signupDone:
		if !st.Submitting {
			return stay(st)
		}
		st.Submitting = false
		if act.err != nil {
			return stay(st, errorAlert(TitleSignupFailed, backend.Message(act.err)))
		}
		id := IdentifierFor(st.Form)
		target := id.Email
		if target == "" {
			target = id.MSISDN
		}
		return stay(VerifyOTP{Form: st.Form, OTP: NewOTPInput()},
			successAlert(TitleAccountCreated, "We sent a verification code to "+target+"."))
	}
	if isResult(a) {
		return stay(st)
	}
	return reject(st, domain.ErrWrongStep)
}

func (m Machine) reduceVerifyOTP(st VerifyOTP, a Action) Outcome {
	switch act := a.(type) {
	case TypeOTPDigit:
		st.OTP = st.OTP.Type(act.Index, act.Value)
		return stay(st)
	case BackspaceOTP:
		st.OTP = st.OTP.Backspace(act.Index)
		return stay(st)
	case PasteOTP:
		st.OTP = st.OTP.Paste(act.Index, act.Text)
		return stay(st)
	case VerifyCode:
		if st.Verifying {
			return reject(st, domain.ErrRequestInFlight)
		}
		if !st.OTP.Complete() {
			return reject(st, domain.ErrValidation,
				warningAlert(TitleIncompleteCode, fmt.Sprintf("Please enter the %d-digit verification code.", OTPLength)))
		}
		st.Verifying = true
		return Outcome{Next: st, Effect: VerifyEffect{
			Identifier: IdentifierFor(st.Form),
			Code:       st.OTP.Code(),
			Password:   st.Form.Password,
		}}
	case ResendCode:
		if st.Resending {
			return reject(st, domain.ErrRequestInFlight)
		}
		st.OTP = st.OTP.Clear()
		st.Resending = true
		return Outcome{Next: st, Effect: ResendEffect{Identifier: IdentifierFor(st.Form)}}
	case Back:
		if st.Verifying || st.Resending {
			return reject(st, domain.ErrRequestInFlight)
		}
		return stay(Password{Form: st.Form})
	case verifyFailed:
		if !st.Verifying {
			return stay(st)
		}
		st.Verifying = false
		return stay(st, errorAlert(TitleVerificationFailed, backend.Message(act.err)))
	case loginFailed:
		if !st.Verifying {
			return stay(st)
		}
		return stay(Completed{RedirectTo: m.SignInPath, Delay: m.RedirectDelay},
			warningAlert(TitleAccountVerified, "Your account is verified, but automatic sign-in failed. Please sign in manually."))
	case loggedIn:
		if !st.Verifying {
			return stay(st)
		}
		next := Documents{
			Form:         st.Form,
			Token:        act.token,
			LoadingTypes: true,
			Numbers:      map[int]string{},
			Slots:        map[int]Slot{},
		}
		return Outcome{
			Next:   next,
			Effect: LoadTypesEffect{Token: act.token},
			Alerts: []Alert{successAlert(TitleAccountVerified, "Your account has been verified.")},
		}
	case resendDone:
		if !st.Resending {
			return stay(st)
		}
		st.Resending = false
		if act.err != nil {
			return stay(st, errorAlert(TitleResendFailed, backend.Message(act.err)))
		}
		return stay(st, successAlert(TitleCodeSent, "A new verification code has been sent."))
	}
	if isResult(a) {
		return stay(st)
	}
	return reject(st, domain.ErrWrongStep)
}

func (m Machine) reduceDocuments(st Documents, a Action) Outcome {
	switch act := a.(type) {
	case Back:
		if st.busy() {
			return reject(st, domain.ErrRequestInFlight)
		}
		return Outcome{
			Next:   VerifyOTP{Form: st.Form, OTP: NewOTPInput()},
			Effect: DiscardTokenEffect{},
		}

	case ReloadDocumentTypes:
		if st.LoadingTypes || st.Submitting {
			return reject(st, domain.ErrRequestInFlight)
		}
		if st.TypesLoaded {
			return stay(st)
		}
		st.LoadingTypes = true
		return Outcome{Next: st, Effect: LoadTypesEffect{Token: st.Token}}

	case typesLoaded:
		if !st.LoadingTypes {
			return stay(st)
		}
		st.LoadingTypes = false
		if act.err != nil {
			return stay(st, errorAlert(TitleDocumentsLoadFail, backend.Message(act.err)))
		}
		st.Types = act.types
		st.TypesLoaded = true
		return stay(st)

	case SetDocumentNumber:
		if st.Submitting {
			return reject(st, domain.ErrRequestInFlight)
		}
		if _, ok := st.documentType(act.DocumentID); !ok {
			return reject(st, domain.ErrUnknownDocument)
		}
		if _, ok := st.SlotFor(act.DocumentID).(Uploading); ok {
			return reject(st, domain.ErrUploadInProgress)
		}
		return stay(st.withNumber(act.DocumentID, act.Number))

	case SelectFile:
		return m.selectFile(st, act)

	case ClearFile:
		if st.Submitting {
			return reject(st, domain.ErrRequestInFlight)
		}
		if _, ok := st.documentType(act.DocumentID); !ok {
			return reject(st, domain.ErrUnknownDocument)
		}
		if _, ok := st.SlotFor(act.DocumentID).(Uploading); ok {
			return reject(st, domain.ErrUploadInProgress)
		}
		return stay(st.withSlot(act.DocumentID, NotStarted{}))

	case uploadURLReady:
		up, ok := st.SlotFor(act.documentID).(Uploading)
		if !ok {
			return stay(st)
		}
		if act.err != nil {
			reason := backend.Message(act.err)
			return stay(st.withSlot(act.documentID, Failed{Reason: reason}), errorAlert(TitleUploadFailed, reason))
		}
		up.Percent = progressURLReady
		return Outcome{
			Next:   st.withSlot(act.documentID, up),
			Effect: UploadEffect{DocumentID: act.documentID, Target: act.target, File: up.File},
		}

	case uploadDone:
		up, ok := st.SlotFor(act.documentID).(Uploading)
		if !ok {
			return stay(st)
		}
		if act.err != nil {
			reason := backend.Message(act.err)
			return stay(st.withSlot(act.documentID, Failed{Reason: reason}), errorAlert(TitleUploadFailed, reason))
		}
		done := Uploaded{
			FileName:    up.File.Name,
			ContentType: up.File.ContentType,
			Size:        up.File.Size,
			FilePath:    act.filePath,
		}
		return stay(st.withSlot(act.documentID, done),
			successAlert(TitleFileUploaded, up.File.Name+" uploaded successfully."))

	case SubmitDocuments:
		return m.submit(st)

	case submitDone:
		if !st.Submitting {
			return stay(st)
		}
		st.Submitting = false
		if act.err != nil {
			return stay(st, errorAlert(TitleSubmissionFailed, backend.Message(act.err)))
		}
		return stay(Completed{RedirectTo: m.SignInPath, Delay: m.RedirectDelay},
			successAlert(TitleDocumentsSubmitted, "Your documents have been submitted for review. Please sign in to continue."))
	}
	if isResult(a) {
		return stay(st)
	}
	return reject(st, domain.ErrWrongStep)
}

func (m Machine) selectFile(st Documents, act SelectFile) Outcome {
	if st.Submitting {
		return reject(st, domain.ErrRequestInFlight)
	}
	docType, ok := st.documentType(act.DocumentID)
	if !ok {
		return reject(st, domain.ErrUnknownDocument)
	}
	if _, ok := st.SlotFor(act.DocumentID).(Uploading); ok {
		return reject(st, domain.ErrUploadInProgress)
	}
	if strings.TrimSpace(st.Numbers[act.DocumentID]) == "" {
		return reject(st, domain.ErrValidation,
			warningAlert(TitleNumberRequired, "Please enter the document number for "+docType.Name+" before uploading."))
	}
	if alert := ValidateFile(act.File, m.MaxFileSize); alert != nil {
		return reject(st, domain.ErrValidation, *alert)
	}
	return Outcome{
		Next: st.withSlot(act.DocumentID, Uploading{File: act.File}),
		Effect: RequestUploadURLEffect{
			DocumentID: act.DocumentID,
			Token:      st.Token,
			Extension:  FileExtension(act.File),
		},
	}
}

func (m Machine) submit(st Documents) Outcome {
	if st.Submitting {
		return reject(st, domain.ErrRequestInFlight)
	}
	if !st.TypesLoaded {
		return reject(st, domain.ErrValidation,
			warningAlert(TitleMissingDocuments, "Document types have not been loaded yet."))
	}
	if missing := MissingDocuments(st); len(missing) > 0 {
		return reject(st, domain.ErrValidation,
			warningAlert(TitleMissingDocuments, "Please upload the following required documents: "+strings.Join(missing, ", ")+"."))
	}

	records := DocumentRecords(st)
	if len(records) == 0 {
		return reject(st, domain.ErrValidation,
			warningAlert(TitleMissingDocuments, "Please upload at least one document."))
	}
	st.Submitting = true
	return Outcome{Next: st, Effect: SubmitEffect{Token: st.Token, Records: records}}
}

// MissingDocuments names the required document types that lack a number
// or a completed upload
func MissingDocuments(st Documents) []string {
	var missing []string
	for _, t := range st.Types {
		if !t.Required {
			continue
		}
		_, uploaded := st.SlotFor(t.ID).(Uploaded)
		if !uploaded || strings.TrimSpace(st.Numbers[t.ID]) == "" {
			missing = append(missing, t.Name)
		}
	}
	return missing
}

// DocumentRecords builds one record per uploaded slot, ordered by document type id
func DocumentRecords(st Documents) []domain.DocumentRecord {
	uploaded := st.UploadedFiles()
	ids := make([]int, 0, len(uploaded))
	for id := range uploaded {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	records := make([]domain.DocumentRecord, 0, len(ids))
	for _, id := range ids {
		u := uploaded[id]
		records = append(records, domain.DocumentRecord{
			DocumentTypeID: id,
			FilePath:       u.FilePath,
			DocumentName:   u.FileName,
			DocumentNumber: strings.TrimSpace(st.Numbers[id]),
		})
	}
	return records
}

// isResult reports whether a came from an effect rather than the user.
// Results that no longer match the current state are dropped silently.
func isResult(a Action) bool {
	switch a.(type) {
	case signupDone, verifyFailed, loginFailed, loggedIn, resendDone,
		typesLoaded, uploadURLReady, uploadDone, submitDone:
		return true
	}
	return false
}
