package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/benbaruka/sms-portal-sub004/domain"
	"github.com/benbaruka/sms-portal-sub004/internal/http/middleware"
	"github.com/benbaruka/sms-portal-sub004/internal/onboarding"
	"github.com/benbaruka/sms-portal-sub004/internal/services"
)

// OnboardingHandlers exposes the wizard of the caller's portal session
type OnboardingHandlers struct {
	registry    *services.OnboardingService
	maxFileSize int64
	logger      *slog.Logger
}

// NewOnboardingHandlers creates new onboarding handlers
func NewOnboardingHandlers(registry *services.OnboardingService, maxFileSize int64) *OnboardingHandlers {
	return &OnboardingHandlers{
		registry:    registry,
		maxFileSize: maxFileSize,
		logger:      slog.Default().With("service", "sms-portal", "module", "http"),
	}
}

// OTPInputRequest is one edit of the code boxes
type OTPInputRequest struct {
	Action string `json:"action" binding:"required,oneof=type backspace paste"`
	Index  int    `json:"index" binding:"min=0,max=5"`
	Value  string `json:"value"`
}

// DocumentNumberRequest sets the number printed on a document
type DocumentNumberRequest struct {
	DocumentNumber string `json:"document_number"`
}

// Show returns the current view
func (h *OnboardingHandlers) Show(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	h.respond(c, w.View(), nil, nil)
}

// EditFields patches the form of step 1 or 2
func (h *OnboardingHandlers) EditFields(c *gin.Context) {
	var patch onboarding.FormPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.dispatch(c, onboarding.EditFields{Patch: patch})
}

// Next advances from step 1 or submits the signup on step 2
func (h *OnboardingHandlers) Next(c *gin.Context) { h.dispatch(c, onboarding.Next{}) }

// Back returns to the previous step
func (h *OnboardingHandlers) Back(c *gin.Context) { h.dispatch(c, onboarding.Back{}) }

// OTPInput types, erases or pastes into the code boxes
func (h *OnboardingHandlers) OTPInput(c *gin.Context) {
	var req OTPInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var action onboarding.Action
	switch req.Action {
	case "type":
		action = onboarding.TypeOTPDigit{Index: req.Index, Value: req.Value}
	case "backspace":
		action = onboarding.BackspaceOTP{Index: req.Index}
	case "paste":
		action = onboarding.PasteOTP{Index: req.Index, Text: req.Value}
	}
	h.dispatch(c, action)
}

// VerifyOTP checks the code and signs in
func (h *OnboardingHandlers) VerifyOTP(c *gin.Context) { h.dispatch(c, onboarding.VerifyCode{}) }

// ResendOTP asks for a new code
func (h *OnboardingHandlers) ResendOTP(c *gin.Context) { h.dispatch(c, onboarding.ResendCode{}) }

// SetDocumentNumber records the number of one document
func (h *OnboardingHandlers) SetDocumentNumber(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}
	var req DocumentNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.dispatch(c, onboarding.SetDocumentNumber{DocumentID: id, Number: req.DocumentNumber})
}

// UploadFile selects a file for one document and uploads it
func (h *OnboardingHandlers) UploadFile(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file := domain.UploadFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
	// oversized files are rejected by the wizard without reading them
	if header.Size <= h.maxFileSize {
		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
			return
		}
		defer f.Close()
		file.Data, err = io.ReadAll(io.LimitReader(f, h.maxFileSize))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
			return
		}
	}
	h.dispatch(c, onboarding.SelectFile{DocumentID: id, File: file})
}

// ClearFile removes the file of one document
func (h *OnboardingHandlers) ClearFile(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}
	h.dispatch(c, onboarding.ClearFile{DocumentID: id})
}

// ReloadDocumentTypes fetches the document types again
func (h *OnboardingHandlers) ReloadDocumentTypes(c *gin.Context) {
	h.dispatch(c, onboarding.ReloadDocumentTypes{})
}

// SubmitDocuments registers every uploaded document
func (h *OnboardingHandlers) SubmitDocuments(c *gin.Context) {
	h.dispatch(c, onboarding.SubmitDocuments{})
}

func (h *OnboardingHandlers) wizard(c *gin.Context) (*onboarding.Wizard, bool) {
	sessionID := c.GetString(middleware.SessionIDKey)
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session required"})
		return nil, false
	}
	w, err := h.registry.Open(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to open wizard", "operation", "open_wizard", "wizard_id", onboarding.PublicID(sessionID), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Onboarding is temporarily unavailable"})
		return nil, false
	}
	return w, true
}

func (h *OnboardingHandlers) dispatch(c *gin.Context, a onboarding.Action) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	view, alerts, err := w.Dispatch(c.Request.Context(), a)
	h.respond(c, view, alerts, err)
}

func (h *OnboardingHandlers) respond(c *gin.Context, view onboarding.View, alerts []onboarding.Alert, err error) {
	if alerts == nil {
		alerts = []onboarding.Alert{}
	}
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"data": view, "alerts": alerts})
		return
	}
	c.JSON(statusFor(err), gin.H{"error": err.Error(), "data": view, "alerts": alerts})
}

// statusFor maps wizard errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnknownDocument):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrWrongStep),
		errors.Is(err, domain.ErrRequestInFlight),
		errors.Is(err, domain.ErrUploadInProgress):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func documentID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid document id %q", c.Param("id"))})
		return 0, false
	}
	return id, true
}
