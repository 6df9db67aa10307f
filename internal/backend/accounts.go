package backend

import (
	"context"
	"net/http"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

type identifierFields struct {
	Email  string `json:"email,omitempty"`
	MSISDN string `json:"msisdn,omitempty"`
}

// identifierPayload sends exactly one handle, preferring email
func identifierPayload(id domain.Identifier) identifierFields {
	if id.Email != "" {
		return identifierFields{Email: id.Email}
	}
	return identifierFields{MSISDN: id.MSISDN}
}

type verifyOTPRequest struct {
	VerificationCode string `json:"verification_code"`
	identifierFields
}

type loginRequest struct {
	Password string `json:"password"`
	identifierFields
}

// Signup implements domain.AccountAPI
func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) error {
	return c.doJSON(ctx, opSignup, http.MethodPost, c.paths.Signup, "", req, nil)
}

// VerifyOTP implements domain.AccountAPI
func (c *Client) VerifyOTP(ctx context.Context, id domain.Identifier, code string) error {
	body := verifyOTPRequest{VerificationCode: code, identifierFields: identifierPayload(id)}
	return c.doJSON(ctx, opVerifyOTP, http.MethodPost, c.paths.VerifyOTP, "", body, nil)
}

// ResendOTP implements domain.AccountAPI
func (c *Client) ResendOTP(ctx context.Context, id domain.Identifier) error {
	return c.doJSON(ctx, opResendOTP, http.MethodPost, c.paths.ResendOTP, "", identifierPayload(id), nil)
}

// Login implements domain.AccountAPI. A response without message.token
// decodes to an empty token; callers decide what that means.
func (c *Client) Login(ctx context.Context, id domain.Identifier, password string) (*domain.LoginResult, error) {
	body := loginRequest{Password: password, identifierFields: identifierPayload(id)}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, opLogin, http.MethodPost, c.paths.Login, "", body, &out); err != nil {
		return nil, err
	}
	return &domain.LoginResult{Token: out.Token}, nil
}

var _ domain.AccountAPI = (*Client)(nil)
