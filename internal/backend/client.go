package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Paths holds the platform endpoints the portal calls
type Paths struct {
	Signup        string
	VerifyOTP     string
	ResendOTP     string
	Login         string
	DocumentTypes string
	UploadURL     string
	Documents     string
	MyDocuments   string
}

// DefaultPaths returns the platform's standard endpoints
func DefaultPaths() Paths {
	return Paths{
		Signup:        "/auth/signup",
		VerifyOTP:     "/auth/verify-otp",
		ResendOTP:     "/auth/resend-otp",
		Login:         "/auth/login",
		DocumentTypes: "/kyb/document-types/active",
		UploadURL:     "/storage/upload-url",
		Documents:     "/kyb/documents",
		MyDocuments:   "/kyb/documents/me",
	}
}

// Config configures the platform client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Paths      Paths
	HTTPClient *http.Client
}

// Client talks to the SMS platform REST API
type Client struct {
	baseURL string
	paths   Paths
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a new platform client
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	paths := cfg.Paths
	defaults := DefaultPaths()
	fill(&paths.Signup, defaults.Signup)
	fill(&paths.VerifyOTP, defaults.VerifyOTP)
	fill(&paths.ResendOTP, defaults.ResendOTP)
	fill(&paths.Login, defaults.Login)
	fill(&paths.DocumentTypes, defaults.DocumentTypes)
	fill(&paths.UploadURL, defaults.UploadURL)
	fill(&paths.Documents, defaults.Documents)
	fill(&paths.MyDocuments, defaults.MyDocuments)

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		paths:   paths,
		http:    httpClient,
		logger:  slog.Default().With("service", "sms-portal", "module", "backend"),
	}
}

func fill(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// doJSON sends body as JSON and decodes the "message" field of the
// response envelope into out. out may be nil when only success matters.
func (c *Client) doJSON(ctx context.Context, op operation, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op.name, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	status, respBody, err := c.send(ctx, op, req)
	if err != nil {
		return err
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return emptyResponse(op, status)
	}
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", op.name, err)
	}
	if out == nil {
		return nil
	}
	if len(envelope.Message) == 0 || string(envelope.Message) == "null" {
		return emptyResponse(op, status)
	}
	if err := json.Unmarshal(envelope.Message, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op.name, err)
	}
	return nil
}

// send executes req and classifies transport and status failures
func (c *Client) send(ctx context.Context, op operation, req *http.Request) (int, []byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		classified := transportError(op, err)
		c.logger.WarnContext(ctx, "platform call failed",
			"operation", op.name,
			"outcome", "failure",
			"error", err.Error(),
		)
		return 0, nil, classified
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, transportError(op, err)
	}

	c.logger.DebugContext(ctx, "platform call",
		"operation", op.name,
		"method", req.Method,
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := statusError(op, resp.StatusCode, body)
		c.logger.WarnContext(ctx, "platform call rejected",
			"operation", op.name,
			"outcome", "failure",
			"status_code", resp.StatusCode,
			"message", apiErr.Error(),
		)
		return resp.StatusCode, body, apiErr
	}
	return resp.StatusCode, body, nil
}
