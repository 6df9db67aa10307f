package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
)

// Messages shown verbatim to the user for transport-level failures.
const (
	MsgNoResponse     = "No server response. Please check your internet connection."
	MsgTimeout        = "Request timeout"
	MsgGatewayTimeout = "Gateway timeout"
)

// Kind classifies how a platform call failed
type Kind int

const (
	KindNoResponse Kind = iota + 1
	KindTimeout
	KindGatewayTimeout
	KindServer
	KindRejected
	KindEmptyResponse
)

func (k Kind) String() string {
	switch k {
	case KindNoResponse:
		return "no_response"
	case KindTimeout:
		return "timeout"
	case KindGatewayTimeout:
		return "gateway_timeout"
	case KindServer:
		return "server_error"
	case KindRejected:
		return "rejected"
	case KindEmptyResponse:
		return "empty_response"
	default:
		return "unknown"
	}
}

// Error is a classified platform call failure. Message is user-facing.
type Error struct {
	Op      string
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// operation names one platform call and its fallback message
type operation struct {
	name     string
	fallback string
}

var (
	opSignup        = operation{name: "signup", fallback: "Error creating account."}
	opVerifyOTP     = operation{name: "OTP verification", fallback: "Error verifying OTP."}
	opResendOTP     = operation{name: "OTP resend", fallback: "Error resending OTP."}
	opLogin         = operation{name: "login", fallback: "Error signing in."}
	opDocumentTypes = operation{name: "document types", fallback: "Error retrieving document types."}
	opUploadURL     = operation{name: "upload URL", fallback: "Error generating upload URL."}
	opUpload        = operation{name: "file upload", fallback: "Error uploading file."}
	opCreateDocs    = operation{name: "document creation", fallback: "Error creating documents."}
	opMyDocuments   = operation{name: "my documents", fallback: "Error retrieving documents."}
)

func transportError(op operation, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Op: op.name, Kind: KindTimeout, Message: MsgTimeout, Err: err}
	}
	return &Error{Op: op.name, Kind: KindNoResponse, Message: MsgNoResponse, Err: err}
}

func statusError(op operation, status int, body []byte) error {
	msg := messageFrom(body)
	switch status {
	case http.StatusGatewayTimeout:
		return &Error{Op: op.name, Kind: KindGatewayTimeout, Status: status, Message: MsgGatewayTimeout}
	case http.StatusInternalServerError:
		if msg == "" {
			msg = op.fallback
		}
		return &Error{Op: op.name, Kind: KindServer, Status: status, Message: "Server error: " + msg}
	}
	if msg == "" {
		msg = op.fallback
	}
	return &Error{Op: op.name, Kind: KindRejected, Status: status, Message: msg}
}

func emptyResponse(op operation, status int) error {
	return &Error{
		Op:      op.name,
		Kind:    KindEmptyResponse,
		Status:  status,
		Message: "No server response for " + op.name + ".",
	}
}

// messageFrom pulls the string "message" field out of an error body
func messageFrom(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Message) == 0 {
		return ""
	}
	var msg string
	if err := json.Unmarshal(payload.Message, &msg); err != nil {
		return ""
	}
	return strings.TrimSpace(msg)
}

// Message returns the user-facing message of err
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
