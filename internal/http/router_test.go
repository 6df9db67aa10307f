package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/benbaruka/sms-portal-sub004/domain"
	"github.com/benbaruka/sms-portal-sub004/internal/http/handlers"
	"github.com/benbaruka/sms-portal-sub004/internal/http/middleware"
	"github.com/benbaruka/sms-portal-sub004/internal/infrastructure/repositories"
	"github.com/benbaruka/sms-portal-sub004/internal/mocks"
	"github.com/benbaruka/sms-portal-sub004/internal/onboarding"
	"github.com/benbaruka/sms-portal-sub004/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	accounts *mocks.MockAccountAPI
	docs     *mocks.MockDocumentAPI
	policies *mocks.MockPolicyService
	cookie   *http.Cookie
}

func newTestServer(t *testing.T, otpPerMinute, otpBurst int) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&repositories.DBAuditEvent{}))

	sessionRepo := repositories.NewSessionRepository(client)
	auditRepo := repositories.NewAuditEventRepository(db)
	accounts := mocks.NewMockAccountAPI()
	docs := mocks.NewMockDocumentAPI()

	tokens := mocks.NewMockTokenService()
	tokens.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
		switch token {
		case "admin-token":
			return &domain.TokenClaims{UserID: "ops-1", Role: "admin"}, nil
		case "compliance-token":
			return &domain.TokenClaims{UserID: "kyb-1", Role: "compliance"}, nil
		}
		return nil, domain.ErrTokenInvalid
	}

	registry := services.NewOnboardingService(onboarding.DefaultMachine(), services.OnboardingDeps{
		Accounts:    accounts,
		Documents:   docs,
		SessionRepo: sessionRepo,
		TokenSvc:    tokens,
		Audit:       auditRepo,
	})

	policies := mocks.NewMockPolicyService()
	router := BuildRouter(
		handlers.NewOnboardingHandlers(registry, onboarding.MaxFileSize),
		handlers.NewAdminHandlers(auditRepo, registry),
		handlers.NewPolicyHandlers(policies),
		middleware.SessionMiddleware(sessionRepo, middleware.SessionConfig{CookieName: "portal_session", TTL: time.Hour}),
		middleware.NewRateLimiter(otpPerMinute, otpBurst),
		middleware.NewAuthMW(tokens),
		middleware.NewCasbinMW(policies),
	)
	return &testServer{router: router, accounts: accounts, docs: docs, policies: policies}
}

type envelope struct {
	Data   onboarding.View    `json:"data"`
	Alerts []onboarding.Alert `json:"alerts"`
	Error  string             `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.send(t, req)
}

func (s *testServer) upload(t *testing.T, documentID int, name, contentType string, data []byte) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/onboarding/documents/%d/file", documentID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == "portal_session" {
			s.cookie = c
		}
	}
	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (s *testServer) admin(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func basicInfo() map[string]string {
	return map[string]string{
		"organization_name": "Acme Ltd",
		"contact_name":      "Jo Doe",
		"email":             "jo@acme.test",
		"phone":             "810000000",
		"address":           "1 Boulevard du 30 Juin",
		"country":           "Democratic Republic of the Congo",
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 0, 0)
	w := s.admin(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestOnboardingFlow(t *testing.T) {
	s := newTestServer(t, 0, 0)
	s.docs.ActiveDocumentTypesFunc = func(_ context.Context, token string) ([]domain.DocumentType, error) {
		return []domain.DocumentType{
			{ID: 1, Name: "Certificate of Incorporation", Required: true},
			{ID: 2, Name: "Tax Certificate", Required: false},
		}, nil
	}

	code, env := s.do(t, http.MethodGet, "/onboarding", nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, s.cookie, "session cookie issued")
	assert.Equal(t, int(onboarding.StepBasicInfo), env.Data.Step)
	assert.False(t, env.Data.CanAdvance)

	code, env = s.do(t, http.MethodPost, "/onboarding/next", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.Len(t, env.Alerts, 1)
	assert.Equal(t, onboarding.TitleMissingInformation, env.Alerts[0].Title)

	code, env = s.do(t, http.MethodPatch, "/onboarding/fields", basicInfo())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "+243", env.Data.Form.DialCode)
	assert.True(t, env.Data.CanAdvance)

	code, env = s.do(t, http.MethodPost, "/onboarding/next", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int(onboarding.StepPassword), env.Data.Step)

	code, _ = s.do(t, http.MethodPatch, "/onboarding/fields", map[string]string{"password": "secret1", "confirm_password": "secret2"})
	require.Equal(t, http.StatusOK, code)
	code, env = s.do(t, http.MethodPost, "/onboarding/next", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, onboarding.TitlePasswordMismatch, env.Alerts[0].Title)

	var signup domain.SignupRequest
	s.accounts.SignupFunc = func(_ context.Context, req domain.SignupRequest) error {
		signup = req
		return nil
	}
	code, _ = s.do(t, http.MethodPatch, "/onboarding/fields", map[string]string{"password": "secret1", "confirm_password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	code, env = s.do(t, http.MethodPost, "/onboarding/next", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int(onboarding.StepVerifyOTP), env.Data.Step)
	assert.Equal(t, "+243810000000", signup.MSISDN)
	assert.Equal(t, "cd", signup.CountryCode)
	assert.NotContains(t, fmt.Sprint(env.Data), "secret1")

	code, env = s.do(t, http.MethodPost, "/onboarding/otp/input", map[string]interface{}{"action": "paste", "index": 0, "value": "12 34 56"})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Data.OTP.Complete)

	code, env = s.do(t, http.MethodPost, "/onboarding/otp/verify", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, int(onboarding.StepDocuments), env.Data.Step)
	require.Len(t, env.Data.Documents.Items, 2)
	assert.False(t, env.Data.Documents.CanSubmit)

	code, _ = s.do(t, http.MethodPut, "/onboarding/documents/abc/number", map[string]string{"document_number": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(t, http.MethodPut, "/onboarding/documents/99/number", map[string]string{"document_number": "x"})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.upload(t, 1, "coi.pdf", "application/pdf", []byte("%PDF-1.4"))
	assert.Equal(t, http.StatusUnprocessableEntity, code, "number required before upload")
	assert.Equal(t, onboarding.TitleNumberRequired, env.Alerts[0].Title)

	code, _ = s.do(t, http.MethodPut, "/onboarding/documents/1/number", map[string]string{"document_number": "CD/KIN/RCCM/24-B-001"})
	require.Equal(t, http.StatusOK, code)

	code, env = s.upload(t, 1, "coi.exe", "application/x-msdownload", []byte("MZ"))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, onboarding.TitleInvalidFileType, env.Alerts[0].Title)

	code, env = s.upload(t, 1, "coi.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "uploaded", env.Data.Documents.Items[0].Status)
	assert.Equal(t, 100, env.Data.Documents.Items[0].Progress)
	assert.True(t, env.Data.Documents.CanSubmit)

	var submitted []domain.DocumentRecord
	s.docs.CreateDocumentsFunc = func(_ context.Context, token string, records []domain.DocumentRecord) error {
		submitted = records
		return nil
	}
	code, env = s.do(t, http.MethodPost, "/onboarding/documents/submit", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int(onboarding.StepCompleted), env.Data.Step)
	assert.Equal(t, "/signin", env.Data.Redirect.To)
	require.Len(t, submitted, 1)
	assert.Equal(t, "coi.pdf", submitted[0].DocumentName)

	code, _ = s.do(t, http.MethodPost, "/onboarding/next", nil)
	assert.Equal(t, http.StatusConflict, code)

	// the compliance desk can see what happened
	w := s.admin(t, http.MethodGet, "/admin/audit-events?event_type=DOCUMENTS_SUBMITTED", "compliance-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var audit struct {
		Data []domain.AuditEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &audit))
	require.Len(t, audit.Data, 1)
	assert.Equal(t, onboarding.PublicID(s.cookie.Value), audit.Data[0].WizardID)
	assert.NotContains(t, w.Body.String(), s.cookie.Value)

	w = s.admin(t, http.MethodGet, "/admin/audit-events?wizard_id="+audit.Data[0].WizardID, "compliance-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &audit))
	assert.NotEmpty(t, audit.Data)
}

func TestOnboarding_OversizedUpload(t *testing.T) {
	s := newTestServer(t, 0, 0)
	s.docs.ActiveDocumentTypesFunc = func(_ context.Context, token string) ([]domain.DocumentType, error) {
		return []domain.DocumentType{{ID: 1, Name: "Passport", Required: true}}, nil
	}
	code, _ := s.do(t, http.MethodPatch, "/onboarding/fields", basicInfo())
	require.Equal(t, http.StatusOK, code)
	for _, step := range []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodPost, "/onboarding/next", nil},
		{http.MethodPatch, "/onboarding/fields", map[string]string{"password": "secret1", "confirm_password": "secret1"}},
		{http.MethodPost, "/onboarding/next", nil},
		{http.MethodPost, "/onboarding/otp/input", map[string]interface{}{"action": "paste", "index": 0, "value": "123456"}},
		{http.MethodPost, "/onboarding/otp/verify", nil},
		{http.MethodPut, "/onboarding/documents/1/number", map[string]string{"document_number": "P1"}},
	} {
		code, _ := s.do(t, step.method, step.path, step.body)
		require.Equal(t, http.StatusOK, code, step.path)
	}

	big := bytes.Repeat([]byte("a"), int(onboarding.MaxFileSize)+1)
	code, env := s.upload(t, 1, "scan.png", "image/png", big)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, onboarding.TitleFileTooLarge, env.Alerts[0].Title)
	assert.Equal(t, "not_started", env.Data.Documents.Items[0].Status)
}

func TestOnboarding_BadBodies(t *testing.T) {
	s := newTestServer(t, 0, 0)

	req := httptest.NewRequest(http.MethodPatch, "/onboarding/fields", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	code, _ := s.send(t, req)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/onboarding/otp/input", map[string]interface{}{"action": "shout", "index": 0})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/onboarding/otp/input", map[string]interface{}{"action": "type", "index": 6, "value": "1"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/onboarding/otp/verify", nil)
	assert.Equal(t, http.StatusConflict, code, "not on the code step yet")
}

func TestOnboarding_OTPRateLimited(t *testing.T) {
	s := newTestServer(t, 1, 1)

	code, _ := s.do(t, http.MethodPost, "/onboarding/otp/resend", nil)
	assert.Equal(t, http.StatusConflict, code, "first call passes the limiter")

	code, env := s.do(t, http.MethodPost, "/onboarding/otp/resend", nil)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.NotEmpty(t, env.Error)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t, 0, 0)

	// open a wizard so the listing has something in it
	code, _ := s.do(t, http.MethodGet, "/onboarding", nil)
	require.Equal(t, http.StatusOK, code)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       interface{}
		wantStatus int
	}{
		{"no token", http.MethodGet, "/admin/wizards", "", nil, http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/admin/wizards", "forged", nil, http.StatusUnauthorized},
		{"compliance lists wizards", http.MethodGet, "/admin/wizards", "compliance-token", nil, http.StatusOK},
		{"compliance reads audit", http.MethodGet, "/admin/audit-events?limit=10", "compliance-token", nil, http.StatusOK},
		{"limit out of range", http.MethodGet, "/admin/audit-events?limit=1000", "admin-token", nil, http.StatusBadRequest},
		{"compliance cannot read policies", http.MethodGet, "/admin/policies", "compliance-token", nil, http.StatusForbidden},
		{"admin reads policies", http.MethodGet, "/admin/policies", "admin-token", nil, http.StatusOK},
		{"admin adds policy", http.MethodPost, "/admin/policies", "admin-token", map[string]string{"role": "auditor", "resource": "/admin/audit-events", "action": "GET"}, http.StatusNoContent},
		{"admin adds incomplete policy", http.MethodPost, "/admin/policies", "admin-token", map[string]string{"role": "auditor"}, http.StatusBadRequest},
		{"admin removes policy", http.MethodDelete, "/admin/policies", "admin-token", map[string]string{"role": "auditor", "resource": "/admin/audit-events", "action": "GET"}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.admin(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	w := s.admin(t, http.MethodGet, "/admin/wizards", "admin-token", nil)
	var wizards struct {
		Data []services.WizardSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wizards))
	require.Len(t, wizards.Data, 1)
	assert.Equal(t, onboarding.PublicID(s.cookie.Value), wizards.Data[0].WizardID)
	assert.Equal(t, "basic_info", wizards.Data[0].StepName)
	assert.NotContains(t, w.Body.String(), s.cookie.Value)

	// the listed id does not open the applicant's wizard
	req := httptest.NewRequest(http.MethodGet, "/onboarding", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: wizards.Data[0].WizardID})
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	w = s.admin(t, http.MethodGet, "/admin/wizards", "admin-token", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wizards))
	assert.Len(t, wizards.Data, 2)
}

func TestAdminRoutes_PolicyListError(t *testing.T) {
	s := newTestServer(t, 0, 0)
	s.policies.GetPoliciesFunc = func() ([][]string, error) {
		return nil, errors.New("adapter down")
	}

	w := s.admin(t, http.MethodGet, "/admin/policies", "admin-token", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to list policies"}`, w.Body.String())
}
