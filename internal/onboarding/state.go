package onboarding

import (
	"time"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// Step numbers the wizard pages as the front-end shows them
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepPassword
	StepVerifyOTP
	StepDocuments
	StepCompleted
)

func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "basic_info"
	case StepPassword:
		return "password"
	case StepVerifyOTP:
		return "verify_otp"
	case StepDocuments:
		return "documents"
	case StepCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// State is one of BasicInfo, Password, VerifyOTP, Documents or Completed.
// Each variant carries only the data valid on its step.
type State interface {
	Step() Step
	isState()
}

// BasicInfo is step 1: organization and contact details
type BasicInfo struct {
	Form domain.OrgData
}

// Password is step 2. Submitting is set while the signup call runs.
type Password struct {
	Form       domain.OrgData
	Submitting bool
}

// VerifyOTP is step 3
type VerifyOTP struct {
	Form      domain.OrgData
	OTP       OTPInput
	Verifying bool
	Resending bool
}

// Documents is step 4 and the only state holding the bearer token
type Documents struct {
	Form         domain.OrgData
	Token        string
	Types        []domain.DocumentType
	TypesLoaded  bool
	LoadingTypes bool
	Numbers      map[int]string
	Slots        map[int]Slot
	Submitting   bool
}

// Completed is terminal. The front-end navigates to RedirectTo after Delay.
type Completed struct {
	RedirectTo string
	Delay      time.Duration
}

func (BasicInfo) Step() Step { return StepBasicInfo }
func (Password) Step() Step  { return StepPassword }
func (VerifyOTP) Step() Step { return StepVerifyOTP }
func (Documents) Step() Step { return StepDocuments }
func (Completed) Step() Step { return StepCompleted }

func (BasicInfo) isState() {}
func (Password) isState()  {}
func (VerifyOTP) isState() {}
func (Documents) isState() {}
func (Completed) isState() {}

// Slot is the upload state of one document type
type Slot interface {
	Progress() int
	isSlot()
}

// NotStarted means no file is selected
type NotStarted struct{}

// Uploading holds the selected file while the pipeline runs. Percent is
// 0 before the upload URL is known and 25 once it is.
type Uploading struct {
	File    domain.UploadFile
	Percent int
}

// Uploaded is a file stored at FilePath and eligible for submission
type Uploaded struct {
	FileName    string
	ContentType string
	Size        int64
	FilePath    string
}

// Failed is a rolled back upload. It carries no file.
type Failed struct {
	Reason string
}

func (NotStarted) Progress() int  { return 0 }
func (u Uploading) Progress() int { return u.Percent }
func (Uploaded) Progress() int    { return 100 }
func (Failed) Progress() int      { return 0 }

func (NotStarted) isSlot() {}
func (Uploading) isSlot()  {}
func (Uploaded) isSlot()   {}
func (Failed) isSlot()     {}

const (
	progressURLReady = 25
	progressUploaded = 100
)

// SlotFor returns the slot of a document type, NotStarted when absent
func (d Documents) SlotFor(id int) Slot {
	if s, ok := d.Slots[id]; ok && s != nil {
		return s
	}
	return NotStarted{}
}

// UploadedFiles returns the slots that reached progress 100, keyed by document type
func (d Documents) UploadedFiles() map[int]Uploaded {
	out := make(map[int]Uploaded)
	for id, s := range d.Slots {
		if u, ok := s.(Uploaded); ok {
			out[id] = u
		}
	}
	return out
}

// Uploading reports whether any slot has an upload in flight
func (d Documents) Uploading() bool {
	for _, s := range d.Slots {
		if _, ok := s.(Uploading); ok {
			return true
		}
	}
	return false
}

func (d Documents) documentType(id int) (domain.DocumentType, bool) {
	for _, t := range d.Types {
		if t.ID == id {
			return t, true
		}
	}
	return domain.DocumentType{}, false
}

// busy reports whether a request owned by step 4 is in flight
func (d Documents) busy() bool {
	return d.Submitting || d.LoadingTypes || d.Uploading()
}

// withSlot returns a copy of d with slot id replaced
func (d Documents) withSlot(id int, s Slot) Documents {
	slots := make(map[int]Slot, len(d.Slots)+1)
	for k, v := range d.Slots {
		slots[k] = v
	}
	slots[id] = s
	d.Slots = slots
	return d
}

// withNumber returns a copy of d with the document number of id replaced
func (d Documents) withNumber(id int, number string) Documents {
	numbers := make(map[int]string, len(d.Numbers)+1)
	for k, v := range d.Numbers {
		numbers[k] = v
	}
	numbers[id] = number
	d.Numbers = numbers
	return d
}
