package services

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/benbaruka/sms-portal-sub004/domain"
	"github.com/benbaruka/sms-portal-sub004/internal/onboarding"
)

// OnboardingDeps are the shared collaborators every wizard is built from
type OnboardingDeps struct {
	Accounts          domain.AccountAPI
	Documents         domain.DocumentAPI
	SessionRepo       domain.SessionRepository
	TokenSvc          domain.TokenService
	Notifier          domain.NotificationService
	Audit             domain.AuditLogger
	Resend            domain.ResendGuard
	ComplianceContact string
}

// WizardSummary describes one live wizard for the admin surface. It is
// keyed by the wizard's public id so the listing never leaks a session.
type WizardSummary struct {
	WizardID   string    `json:"wizard_id"`
	Step       int       `json:"step"`
	StepName   string    `json:"step_name"`
	LastActive time.Time `json:"last_active"`
}

// OnboardingService keeps one wizard per portal session
type OnboardingService struct {
	machine onboarding.Machine
	deps    OnboardingDeps
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	wizards map[string]*onboarding.Wizard
}

// NewOnboardingService creates an empty wizard registry
func NewOnboardingService(machine onboarding.Machine, deps OnboardingDeps) *OnboardingService {
	return &OnboardingService{
		machine: machine,
		deps:    deps,
		logger:  slog.Default().With("service", "sms-portal", "module", "onboarding_registry"),
		now:     time.Now,
		wizards: make(map[string]*onboarding.Wizard),
	}
}

// Open returns the wizard of sessionID, creating it on first use
func (s *OnboardingService) Open(ctx context.Context, sessionID string) (*onboarding.Wizard, error) {
	if w, ok := s.Get(sessionID); ok {
		return w, nil
	}

	w, err := onboarding.New(ctx, sessionID, s.machine, s.wizardDeps(sessionID))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.wizards[sessionID]; ok {
		// lost a race with a concurrent Open
		return existing, nil
	}
	s.wizards[sessionID] = w
	s.logger.Info("wizard opened", "wizard_id", w.PublicID(), "step", w.State().Step().String())
	return w, nil
}

// Get returns the wizard of sessionID when one is open
func (s *OnboardingService) Get(sessionID string) (*onboarding.Wizard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wizards[sessionID]
	return w, ok
}

// Close drops the wizard of sessionID
func (s *OnboardingService) Close(sessionID string) {
	s.mu.Lock()
	delete(s.wizards, sessionID)
	s.mu.Unlock()
}

// Active lists open wizards, most recently used first
func (s *OnboardingService) Active() []WizardSummary {
	s.mu.Lock()
	wizards := make([]*onboarding.Wizard, 0, len(s.wizards))
	for _, w := range s.wizards {
		wizards = append(wizards, w)
	}
	s.mu.Unlock()

	out := make([]WizardSummary, 0, len(wizards))
	for _, w := range wizards {
		step := w.State().Step()
		out = append(out, WizardSummary{
			WizardID:   w.PublicID(),
			Step:       int(step),
			StepName:   step.String(),
			LastActive: w.LastActive(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActive.After(out[j].LastActive)
	})
	return out
}

// Sweep drops wizards idle for longer than idle and returns how many went
func (s *OnboardingService) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, w := range s.wizards {
		if w.LastActive().Before(cutoff) {
			delete(s.wizards, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("idle wizards evicted", "operation", "sweep", "count", removed)
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done
func (s *OnboardingService) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 || idle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(idle)
		}
	}
}

func (s *OnboardingService) wizardDeps(sessionID string) onboarding.Deps {
	deps := onboarding.Deps{
		Accounts:          s.deps.Accounts,
		Documents:         s.deps.Documents,
		Notifier:          s.deps.Notifier,
		Audit:             s.deps.Audit,
		Resend:            s.deps.Resend,
		ComplianceContact: s.deps.ComplianceContact,
	}
	if s.deps.SessionRepo != nil && s.deps.TokenSvc != nil {
		deps.Session = NewSessionContext(sessionID, s.deps.SessionRepo, s.deps.TokenSvc)
	}
	return deps
}
