package onboarding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// Deps are the collaborators a Wizard calls out to. Notifier, Audit and
// Resend are optional.
type Deps struct {
	Accounts  domain.AccountAPI
	Documents domain.DocumentAPI
	Session   domain.SessionContext
	Notifier  domain.NotificationService
	Audit     domain.AuditLogger
	Resend    domain.ResendGuard

	// ComplianceContact receives an SMS when documents are submitted
	ComplianceContact string
}

// ThrottledError is returned when a code was resent too recently
type ThrottledError struct {
	Wait time.Duration
}

func (e *ThrottledError) Error() string {
	secs := int(e.Wait.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("Please wait %d seconds before requesting a new code.", secs)
}

func (e *ThrottledError) Is(target error) bool { return target == domain.ErrResendThrottled }

// Wizard runs one onboarding session. Dispatch is safe for concurrent use;
// the lock is not held while an effect talks to the platform, so uploads
// on different slots overlap.
type Wizard struct {
	publicID string
	machine  Machine
	deps     Deps
	logger   *slog.Logger
	now      func() time.Time

	mu         sync.Mutex
	state      State
	lastActive time.Time
}

// New opens a wizard for session id. A session already marked as onboarded
// starts in Completed and is sent to the dashboard.
func New(ctx context.Context, id string, machine Machine, deps Deps) (*Wizard, error) {
	publicID := PublicID(id)
	w := &Wizard{
		publicID: publicID,
		machine:  machine,
		deps:     deps,
		logger:   slog.Default().With("service", "sms-portal", "module", "onboarding", "wizard_id", publicID),
		now:      time.Now,
	}
	w.state = BasicInfo{}
	if deps.Session != nil {
		done, err := deps.Session.OnboardingCompleted(ctx)
		if err != nil {
			return nil, fmt.Errorf("read onboarding flag: %w", err)
		}
		if done {
			w.state = Completed{RedirectTo: machine.DashboardPath}
		}
	}
	w.lastActive = w.now()
	return w, nil
}

// PublicID derives the handle operators see for a session. The session id
// is a bearer credential and cannot be recovered from it.
func PublicID(sessionID string) string {
	sum := sha256.Sum256([]byte("wizard:" + sessionID))
	return hex.EncodeToString(sum[:12])
}

// PublicID returns the wizard's operator-facing handle
func (w *Wizard) PublicID() string { return w.publicID }

// State returns the current state
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// LastActive returns when the wizard last handled an action
func (w *Wizard) LastActive() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastActive
}

// View renders the current state for the front-end
func (w *Wizard) View() View {
	return Render(w.State())
}

// Dispatch applies a user action and runs the effects it triggers until
// the wizard settles. Alerts from every transition are returned in order.
// Effects keep running if ctx is canceled so a half-finished call is
// always recorded in the state.
func (w *Wizard) Dispatch(ctx context.Context, a Action) (View, []Alert, error) {
	var alerts []Alert
	runCtx := context.WithoutCancel(ctx)

	for a != nil {
		w.mu.Lock()
		out := w.machine.Reduce(w.state, a)
		w.state = out.Next
		w.lastActive = w.now()
		w.mu.Unlock()

		alerts = append(alerts, out.Alerts...)
		if out.Err != nil {
			return w.View(), alerts, out.Err
		}
		if out.Effect == nil {
			break
		}
		a = w.run(runCtx, out.Effect)
	}
	return w.View(), alerts, nil
}

// run performs one effect and returns the action carrying its result,
// or nil when the effect has no result
func (w *Wizard) run(ctx context.Context, eff Effect) Action {
	switch e := eff.(type) {
	case SignupEffect:
		err := w.deps.Accounts.Signup(ctx, e.Request)
		w.audit(ctx, domain.SignupSubmittedEvent, domain.SignupFailureEvent, err, func(ev *domain.AuditEvent) {
			ev.WithEmail(e.Request.Email).WithPhone(e.Request.MSISDN).
				WithMetadata("country_code", e.Request.CountryCode)
		})
		return signupDone{err: err}

	case VerifyEffect:
		if err := w.deps.Accounts.VerifyOTP(ctx, e.Identifier, e.Code); err != nil {
			w.audit(ctx, domain.OTPVerifiedEvent, domain.OTPFailureEvent, err, identifierFields(e.Identifier))
			return verifyFailed{err: err}
		}
		w.audit(ctx, domain.OTPVerifiedEvent, domain.OTPFailureEvent, nil, identifierFields(e.Identifier))

		res, err := w.deps.Accounts.Login(ctx, e.Identifier, e.Password)
		if err == nil && (res == nil || res.Token == "") {
			err = domain.ErrMissingToken
		}
		if err != nil {
			w.logger.Warn("automatic sign-in failed", "operation", "login", "outcome", "failed", "error", err)
			w.audit(ctx, domain.AutoLoginFailureEvent, domain.AutoLoginFailureEvent, err, identifierFields(e.Identifier))
			return loginFailed{err: err}
		}
		if w.deps.Session != nil {
			if err := w.deps.Session.StoreToken(ctx, res.Token); err != nil {
				w.logger.Error("failed to persist token", "operation", "store_token", "error", err)
			}
		}
		return loggedIn{token: res.Token}

	case ResendEffect:
		if w.deps.Resend != nil {
			allowed, wait, err := w.deps.Resend.Acquire(ctx, resendKey(e.Identifier))
			switch {
			case err != nil:
				w.logger.Warn("resend guard unavailable", "operation", "resend_guard", "error", err)
			case !allowed:
				return resendDone{err: &ThrottledError{Wait: wait}}
			}
		}
		err := w.deps.Accounts.ResendOTP(ctx, e.Identifier)
		if err == nil {
			w.audit(ctx, domain.OTPResentEvent, domain.OTPResentEvent, nil, identifierFields(e.Identifier))
		}
		return resendDone{err: err}

	case LoadTypesEffect:
		types, err := w.deps.Documents.ActiveDocumentTypes(ctx, e.Token)
		if err != nil {
			w.logger.Warn("failed to load document types", "operation", "document_types", "error", err)
		}
		return typesLoaded{types: types, err: err}

	case RequestUploadURLEffect:
		target, err := w.deps.Documents.GenerateUploadURL(ctx, e.Token, e.Extension, domain.DocumentsNamespace)
		if err != nil {
			w.audit(ctx, domain.DocumentUploadedEvent, domain.DocumentUploadFailureEvent, err, documentFields(e.DocumentID, ""))
			return uploadURLReady{documentID: e.DocumentID, err: err}
		}
		return uploadURLReady{documentID: e.DocumentID, target: *target}

	case UploadEffect:
		err := w.deps.Documents.Upload(ctx, e.Target, e.File)
		w.audit(ctx, domain.DocumentUploadedEvent, domain.DocumentUploadFailureEvent, err, documentFields(e.DocumentID, e.File.Name))
		if err != nil {
			return uploadDone{documentID: e.DocumentID, err: err}
		}
		return uploadDone{documentID: e.DocumentID, filePath: e.Target.FilePath}

	case SubmitEffect:
		err := w.deps.Documents.CreateDocuments(ctx, e.Token, e.Records)
		w.audit(ctx, domain.DocumentsSubmittedEvent, domain.DocumentsSubmitFailureEvent, err, func(ev *domain.AuditEvent) {
			ev.WithMetadata("documents", len(e.Records))
		})
		if err != nil {
			return submitDone{err: err}
		}
		w.afterSubmit(ctx, e)
		return submitDone{}

	case DiscardTokenEffect:
		w.clearToken(ctx)
		return nil
	}

	w.logger.Error("unhandled effect", "effect", fmt.Sprintf("%T", eff))
	return nil
}

// afterSubmit runs the chores that follow an accepted submission. Their
// failures are logged and never undo the submission.
func (w *Wizard) afterSubmit(ctx context.Context, e SubmitEffect) {
	if docs, err := w.deps.Documents.MyDocuments(ctx, e.Token, 1, 10); err != nil {
		w.logger.Warn("failed to refresh documents", "operation", "my_documents", "error", err)
	} else {
		w.logger.Debug("documents refreshed", "operation", "my_documents", "count", len(docs))
	}

	w.clearToken(ctx)

	if w.deps.Notifier != nil && w.deps.ComplianceContact != "" {
		w.mu.Lock()
		form := formOf(w.state)
		w.mu.Unlock()
		msg := fmt.Sprintf("KYB documents submitted by %s (%d files).", form.OrganizationName, len(e.Records))
		if err := w.deps.Notifier.SendSMS(w.deps.ComplianceContact, msg); err != nil {
			w.logger.Warn("compliance notification failed", "operation", "notify", "error", err)
		}
	}
}

func (w *Wizard) clearToken(ctx context.Context) {
	if w.deps.Session == nil {
		return
	}
	if err := w.deps.Session.ClearToken(ctx); err != nil {
		w.logger.Error("failed to clear token", "operation", "clear_token", "error", err)
	}
}

// audit records an event of type ok, or of type failed when err is set
func (w *Wizard) audit(ctx context.Context, ok, failed domain.AuditEventType, err error, fill func(*domain.AuditEvent)) {
	eventType := ok
	if err != nil {
		eventType = failed
	}
	outcome := "success"
	if err != nil {
		outcome = "failed"
	}
	w.logger.Info("onboarding event", "event", string(eventType), "outcome", outcome)

	if w.deps.Audit == nil {
		return
	}
	ev := domain.NewAuditEvent(eventType, w.publicID)
	if fill != nil {
		fill(ev)
	}
	if err != nil {
		ev.WithError(err)
	}
	if logErr := w.deps.Audit.LogEvent(ctx, ev); logErr != nil && !errors.Is(logErr, context.Canceled) {
		w.logger.Warn("failed to record audit event", "event", string(eventType), "error", logErr)
	}
}

func identifierFields(id domain.Identifier) func(*domain.AuditEvent) {
	return func(ev *domain.AuditEvent) {
		ev.WithEmail(id.Email).WithPhone(id.MSISDN)
	}
}

func documentFields(documentID int, fileName string) func(*domain.AuditEvent) {
	return func(ev *domain.AuditEvent) {
		ev.WithMetadata("document_type_id", documentID)
		if fileName != "" {
			ev.WithMetadata("file_name", fileName)
		}
	}
}

func resendKey(id domain.Identifier) string {
	if id.Email != "" {
		return "email:" + id.Email
	}
	return "msisdn:" + id.MSISDN
}

func formOf(s State) domain.OrgData {
	switch st := s.(type) {
	case BasicInfo:
		return st.Form
	case Password:
		return st.Form
	case VerifyOTP:
		return st.Form
	case Documents:
		return st.Form
	}
	return domain.OrgData{}
}
