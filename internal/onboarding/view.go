package onboarding

import "github.com/benbaruka/sms-portal-sub004/domain"

// View is the JSON snapshot the front-end renders. It never carries the
// bearer token or the passwords.
type View struct {
	Step       int           `json:"step"`
	StepName   string        `json:"step_name"`
	Form       *FormView     `json:"form,omitempty"`
	CanAdvance bool          `json:"can_advance"`
	Submitting bool          `json:"submitting"`
	OTP        *OTPView      `json:"otp,omitempty"`
	Documents  *DocsView     `json:"documents,omitempty"`
	Redirect   *RedirectView `json:"redirect,omitempty"`
}

// FormView is the non-secret part of the collected form
type FormView struct {
	OrganizationName string `json:"organization_name"`
	ContactName      string `json:"contact_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	DialCode         string `json:"dial_code"`
	Address          string `json:"address"`
	Country          string `json:"country"`
	PasswordSet      bool   `json:"password_set"`
}

// OTPView is the code entry on step 3
type OTPView struct {
	Slots     [OTPLength]string `json:"slots"`
	Focus     int               `json:"focus"`
	Complete  bool              `json:"complete"`
	Verifying bool              `json:"verifying"`
	Resending bool              `json:"resending"`
}

// DocsView lists the document slots of step 4
type DocsView struct {
	TypesLoaded  bool          `json:"types_loaded"`
	LoadingTypes bool          `json:"loading_types"`
	Items        []DocSlotView `json:"items"`
	Missing      []string      `json:"missing"`
	CanSubmit    bool          `json:"can_submit"`
}

// DocSlotView is one document type with its number and upload status
type DocSlotView struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Required       bool   `json:"required"`
	DocumentNumber string `json:"document_number"`
	Status         string `json:"status"`
	Progress       int    `json:"progress"`
	FileName       string `json:"file_name,omitempty"`
	FilePath       string `json:"file_path,omitempty"`
	Error          string `json:"error,omitempty"`
}

// RedirectView tells the front-end where to go once the wizard ends
type RedirectView struct {
	To      string `json:"to"`
	AfterMs int64  `json:"after_ms"`
}

// Render builds the View of s
func Render(s State) View {
	v := View{Step: int(s.Step()), StepName: s.Step().String()}

	switch st := s.(type) {
	case BasicInfo:
		v.Form = formView(st.Form)
		v.CanAdvance = CanAdvance(st.Form)
	case Password:
		v.Form = formView(st.Form)
		v.Submitting = st.Submitting
		v.CanAdvance = !st.Submitting && ValidatePassword(st.Form.Password, st.Form.ConfirmPassword) == nil
	case VerifyOTP:
		v.Form = formView(st.Form)
		v.Submitting = st.Verifying
		v.CanAdvance = !st.Verifying && st.OTP.Complete()
		v.OTP = &OTPView{
			Slots:     st.OTP.Slots,
			Focus:     st.OTP.Focus,
			Complete:  st.OTP.Complete(),
			Verifying: st.Verifying,
			Resending: st.Resending,
		}
	case Documents:
		v.Form = formView(st.Form)
		v.Submitting = st.Submitting
		v.Documents = docsView(st)
		v.CanAdvance = v.Documents.CanSubmit
	case Completed:
		v.Redirect = &RedirectView{To: st.RedirectTo, AfterMs: st.Delay.Milliseconds()}
	}
	return v
}

func formView(f domain.OrgData) *FormView {
	return &FormView{
		OrganizationName: f.OrganizationName,
		ContactName:      f.ContactName,
		Email:            f.Email,
		Phone:            f.Phone,
		DialCode:         f.DialCode,
		Address:          f.Address,
		Country:          f.Country,
		PasswordSet:      f.Password != "",
	}
}

func docsView(st Documents) *DocsView {
	dv := &DocsView{
		TypesLoaded:  st.TypesLoaded,
		LoadingTypes: st.LoadingTypes,
		Items:        make([]DocSlotView, 0, len(st.Types)),
	}
	for _, t := range st.Types {
		item := DocSlotView{
			ID:             t.ID,
			Name:           t.Name,
			Description:    t.Description,
			Required:       t.Required,
			DocumentNumber: st.Numbers[t.ID],
		}
		slot := st.SlotFor(t.ID)
		item.Progress = slot.Progress()
		switch sl := slot.(type) {
		case NotStarted:
			item.Status = "not_started"
		case Uploading:
			item.Status = "uploading"
			item.FileName = sl.File.Name
		case Uploaded:
			item.Status = "uploaded"
			item.FileName = sl.FileName
			item.FilePath = sl.FilePath
		case Failed:
			item.Status = "failed"
			item.Error = sl.Reason
		}
		dv.Items = append(dv.Items, item)
	}
	if st.TypesLoaded {
		dv.Missing = MissingDocuments(st)
		dv.CanSubmit = len(dv.Missing) == 0 && len(st.UploadedFiles()) > 0 && !st.Submitting
	}
	return dv
}
