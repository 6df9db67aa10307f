package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbaruka/sms-portal-sub004/domain"
	"github.com/benbaruka/sms-portal-sub004/internal/mocks"
)

// createPolicyServiceForTest creates a PolicyService with mock Casbin enforcer
func createPolicyServiceForTest(t *testing.T) (domain.PolicyService, *mocks.MockCasbinEnforcer) {
	t.Helper()

	enforcer := mocks.NewMockCasbinEnforcer()
	return NewPolicyServiceWithEnforcer(enforcer), enforcer
}

func TestPolicyServiceImpl_AddPolicy(t *testing.T) {
	tests := []struct {
		name          string
		role          string
		resource      string
		action        string
		setupMock     func(*mocks.MockCasbinEnforcer)
		expectedError bool
		expectedSaves int
	}{
		{
			name:          "new policy",
			role:          "compliance",
			resource:      "/admin/policies",
			action:        "GET",
			expectedSaves: 1,
		},
		{
			name:          "policy already exists",
			role:          "admin",
			resource:      "/admin/*",
			action:        "(GET)|(POST)|(DELETE)",
			expectedSaves: 0,
		},
		{
			name:     "enforcer error",
			role:     "compliance",
			resource: "/admin/policies",
			action:   "GET",
			setupMock: func(e *mocks.MockCasbinEnforcer) {
				e.AddPolicyFunc = func(params ...interface{}) (bool, error) {
					return false, errors.New("adapter down")
				}
			},
			expectedError: true,
		},
		{
			name:     "save error",
			role:     "compliance",
			resource: "/admin/policies",
			action:   "GET",
			setupMock: func(e *mocks.MockCasbinEnforcer) {
				e.SavePolicyFunc = func() error { return errors.New("save failed") }
			},
			expectedError: true,
			expectedSaves: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, enforcer := createPolicyServiceForTest(t)
			if tt.setupMock != nil {
				tt.setupMock(enforcer)
			}

			err := svc.AddPolicy(tt.role, tt.resource, tt.action)
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedSaves, enforcer.SaveCalls())
		})
	}
}

func TestPolicyServiceImpl_RemovePolicy(t *testing.T) {
	svc, enforcer := createPolicyServiceForTest(t)

	require.NoError(t, svc.RemovePolicy("compliance", "/admin/wizards", "GET"))
	policies, err := svc.GetPolicies()
	require.NoError(t, err)
	assert.Len(t, policies, 2)
	assert.Equal(t, 1, enforcer.SaveCalls())

	// removing a missing rule is not an error and does not rewrite the store
	require.NoError(t, svc.RemovePolicy("compliance", "/admin/wizards", "GET"))
	assert.Equal(t, 1, enforcer.SaveCalls())

	enforcer.RemovePolicyFunc = func(params ...interface{}) (bool, error) {
		return false, errors.New("adapter down")
	}
	assert.Error(t, svc.RemovePolicy("admin", "/admin/*", "GET"))
}

func TestPolicyServiceImpl_CheckPermission(t *testing.T) {
	svc, _ := createPolicyServiceForTest(t)

	tests := []struct {
		role, resource, action string
		want                   bool
	}{
		{"admin", "/admin/policies", "DELETE", true},
		{"admin", "/admin/audit-events", "GET", true},
		{"compliance", "/admin/audit-events", "GET", true},
		{"compliance", "/admin/policies", "POST", false},
		{"", "/admin/wizards", "GET", false},
	}
	for _, tt := range tests {
		ok, err := svc.CheckPermission(tt.role, tt.resource, tt.action)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "%s %s %s", tt.role, tt.resource, tt.action)
	}
}

func TestPolicyServiceImpl_GetPolicies(t *testing.T) {
	svc, enforcer := createPolicyServiceForTest(t)
	policies, err := svc.GetPolicies()
	require.NoError(t, err)
	assert.Len(t, policies, 3)

	enforcer.GetPolicyFunc = func() ([][]string, error) {
		return nil, errors.New("adapter down")
	}
	policies, err = svc.GetPolicies()
	assert.ErrorContains(t, err, "adapter down")
	assert.Nil(t, policies)
}

func TestPolicyServiceImpl_TrimsRules(t *testing.T) {
	svc, enforcer := createPolicyServiceForTest(t)

	require.NoError(t, svc.AddPolicy(" auditor ", "/admin/wizards ", " GET"))
	ok, err := svc.CheckPermission("auditor", "/admin/wizards", "GET")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, enforcer.SaveCalls())
}

func TestPolicyServiceImpl_CheckPermissionError(t *testing.T) {
	svc, enforcer := createPolicyServiceForTest(t)
	enforcer.EnforceFunc = func(rvals ...interface{}) (bool, error) {
		return true, errors.New("bad matcher")
	}

	ok, err := svc.CheckPermission("admin", "/admin/wizards", "GET")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestPolicyServiceImpl_CompleteFlow(t *testing.T) {
	svc, _ := createPolicyServiceForTest(t)

	ok, err := svc.CheckPermission("auditor", "/admin/audit-events", "GET")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.AddPolicy("auditor", "/admin/audit-events", "GET"))
	ok, err = svc.CheckPermission("auditor", "/admin/audit-events", "GET")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.RemovePolicy("auditor", "/admin/audit-events", "GET"))
	ok, err = svc.CheckPermission("auditor", "/admin/audit-events", "GET")
	require.NoError(t, err)
	assert.False(t, ok)
}
