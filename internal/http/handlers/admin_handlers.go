package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benbaruka/sms-portal-sub004/domain"
	"github.com/benbaruka/sms-portal-sub004/internal/services"
)

// AdminHandlers serves the operator views of onboarding activity
type AdminHandlers struct {
	auditRepo domain.AuditEventRepository
	registry  *services.OnboardingService
	logger    *slog.Logger
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(auditRepo domain.AuditEventRepository, registry *services.OnboardingService) *AdminHandlers {
	return &AdminHandlers{
		auditRepo: auditRepo,
		registry:  registry,
		logger:    slog.Default().With("service", "sms-portal", "module", "http"),
	}
}

// AuditEventsQuery filters the audit listing
type AuditEventsQuery struct {
	WizardID  string `form:"wizard_id"`
	EventType string `form:"event_type"`
	Limit     int    `form:"limit" binding:"min=0,max=100"`
}

// AuditEvents lists recorded onboarding events, newest first
func (h *AdminHandlers) AuditEvents(c *gin.Context) {
	var q AuditEventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.auditRepo.List(c.Request.Context(), domain.AuditFilter{
		WizardID:  q.WizardID,
		EventType: domain.AuditEventType(q.EventType),
		Limit:     q.Limit,
	})
	if err != nil {
		h.logger.Error("failed to list audit events", "operation", "list_audit_events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

// Wizards lists the wizards currently held in memory
func (h *AdminHandlers) Wizards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.registry.Active()})
}
