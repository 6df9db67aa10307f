package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/casbin/casbin/v2"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// enforcerAdapter narrows *casbin.Enforcer to domain.CasbinEnforcer
type enforcerAdapter struct {
	e *casbin.Enforcer
}

func (a enforcerAdapter) AddPolicy(params ...interface{}) (bool, error) {
	return a.e.AddPolicy(params...)
}

func (a enforcerAdapter) RemovePolicy(params ...interface{}) (bool, error) {
	return a.e.RemovePolicy(params...)
}

func (a enforcerAdapter) Enforce(rvals ...interface{}) (bool, error) { return a.e.Enforce(rvals...) }
func (a enforcerAdapter) GetPolicy() ([][]string, error)             { return a.e.GetPolicy() }
func (a enforcerAdapter) SavePolicy() error                          { return a.e.SavePolicy() }

// PolicyServiceImpl manages the admin surface's role/path/method rules
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
	logger   *slog.Logger
}

// NewPolicyService builds the policy service on a casbin enforcer
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return NewPolicyServiceWithEnforcer(enforcerAdapter{e: enforcer})
}

// NewPolicyServiceWithEnforcer builds the policy service on any CasbinEnforcer
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: enforcer,
		logger:   slog.Default().With("service", "sms-portal", "module", "policy"),
	}
}

// AddPolicy grants role the action pattern on resource. The policy store is
// only rewritten when the rule is new.
func (p *PolicyServiceImpl) AddPolicy(role, resource, action string) error {
	rule := normalize(role, resource, action)
	added, err := p.enforcer.AddPolicy(rule...)
	if err != nil {
		p.logger.Error("failed to add policy", "operation", "add_policy", "rule", rule, "error", err)
		return fmt.Errorf("add policy: %w", err)
	}
	if !added {
		p.logger.Debug("policy already present", "operation", "add_policy", "rule", rule)
		return nil
	}
	if err := p.enforcer.SavePolicy(); err != nil {
		p.logger.Error("failed to save policies", "operation", "add_policy", "error", err)
		return fmt.Errorf("save policies: %w", err)
	}
	p.logger.Info("policy added", "operation", "add_policy", "rule", rule)
	return nil
}

// RemovePolicy revokes a rule. Removing a rule that does not exist is not
// an error.
func (p *PolicyServiceImpl) RemovePolicy(role, resource, action string) error {
	rule := normalize(role, resource, action)
	removed, err := p.enforcer.RemovePolicy(rule...)
	if err != nil {
		p.logger.Error("failed to remove policy", "operation", "remove_policy", "rule", rule, "error", err)
		return fmt.Errorf("remove policy: %w", err)
	}
	if !removed {
		return nil
	}
	if err := p.enforcer.SavePolicy(); err != nil {
		p.logger.Error("failed to save policies", "operation", "remove_policy", "error", err)
		return fmt.Errorf("save policies: %w", err)
	}
	p.logger.Info("policy removed", "operation", "remove_policy", "rule", rule)
	return nil
}

// CheckPermission reports whether role may perform method on path
func (p *PolicyServiceImpl) CheckPermission(role, path, method string) (bool, error) {
	ok, err := p.enforcer.Enforce(role, path, method)
	if err != nil {
		p.logger.Error("policy evaluation failed", "operation", "enforce", "role", role, "error", err)
		return false, fmt.Errorf("enforce: %w", err)
	}
	return ok, nil
}

// GetPolicies lists every stored rule as [role, resource, action]
func (p *PolicyServiceImpl) GetPolicies() ([][]string, error) {
	policies, err := p.enforcer.GetPolicy()
	if err != nil {
		p.logger.Error("failed to list policies", "operation", "list_policies", "error", err)
		return nil, fmt.Errorf("list policies: %w", err)
	}
	return policies, nil
}

func normalize(role, resource, action string) []interface{} {
	return []interface{}{strings.TrimSpace(role), strings.TrimSpace(resource), strings.TrimSpace(action)}
}
