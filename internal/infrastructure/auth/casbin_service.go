package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// DefaultModel is the RBAC model used when no model file is configured.
// Objects match with keyMatch (so "/admin/*" covers sub-paths) and actions
// with a regex such as "(GET)|(POST)".
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// DefaultPolicies are seeded into an empty policy table
var DefaultPolicies = [][]string{
	{"admin", "/admin/*", "(GET)|(POST)|(DELETE)"},
	{"compliance", "/admin/audit-events", "GET"},
	{"compliance", "/admin/wizards", "GET"},
}

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService loads policies through the gorm adapter. An empty
// modelPath selects DefaultModel.
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("casbin adapter: %w", err)
	}

	var m model.Model
	if modelPath == "" {
		m, err = model.NewModelFromString(DefaultModel)
	} else {
		m, err = model.NewModelFromFile(modelPath)
	}
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}

	e, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	return &CasbinService{E: e}, nil
}

// SeedDefaults stores DefaultPolicies when no policy exists yet. It reports
// whether anything was written.
func (s *CasbinService) SeedDefaults() (bool, error) {
	existing, err := s.E.GetPolicy()
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	if _, err := s.E.AddPolicies(DefaultPolicies); err != nil {
		return false, fmt.Errorf("seed policies: %w", err)
	}
	return true, nil
}
