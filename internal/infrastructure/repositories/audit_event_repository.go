package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

const defaultAuditLimit = 100

// AuditEventRepositoryImpl implements domain.AuditEventRepository using GORM
type AuditEventRepositoryImpl struct {
	db *gorm.DB
}

// DBAuditEvent represents the database model for AuditEvent (with GORM tags)
type DBAuditEvent struct {
	ID        string    `gorm:"primaryKey;size:36"`
	EventType string    `gorm:"index;size:64"`
	WizardID  string    `gorm:"index;size:64"`
	Email     string    `gorm:"size:255"`
	Phone     string    `gorm:"size:32"`
	Metadata  string    `gorm:"type:text"`
	ErrorMsg  string    `gorm:"type:text"`
	Success   bool      `gorm:"index"`
	Timestamp time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBAuditEvent) TableName() string {
	return "onboarding_audit_events"
}

// NewAuditEventRepository creates a new audit event repository
func NewAuditEventRepository(db *gorm.DB) domain.AuditEventRepository {
	return &AuditEventRepositoryImpl{db: db}
}

// LogEvent implements domain.AuditLogger. Events without an ID get one.
func (r *AuditEventRepositoryImpl) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	row, err := r.domainToDB(event)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// List implements domain.AuditEventRepository. Newest events come first.
func (r *AuditEventRepositoryImpl) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEvent, error) {
	query := r.db.WithContext(ctx).Model(&DBAuditEvent{})
	if filter.WizardID != "" {
		query = query.Where("wizard_id = ?", filter.WizardID)
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", string(filter.EventType))
	}
	limit := filter.Limit
	if limit <= 0 || limit > defaultAuditLimit {
		limit = defaultAuditLimit
	}

	var rows []DBAuditEvent
	if err := query.Order("timestamp desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]domain.AuditEvent, 0, len(rows))
	for i := range rows {
		ev, err := r.dbToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, nil
}

// domainToDB converts a domain event to its database row
func (r *AuditEventRepositoryImpl) domainToDB(event *domain.AuditEvent) (*DBAuditEvent, error) {
	var meta string
	if len(event.Metadata) > 0 {
		data, err := json.Marshal(event.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal audit metadata: %w", err)
		}
		meta = string(data)
	}
	return &DBAuditEvent{
		ID:        event.ID,
		EventType: string(event.EventType),
		WizardID:  event.WizardID,
		Email:     event.Email,
		Phone:     event.Phone,
		Metadata:  meta,
		ErrorMsg:  event.ErrorMsg,
		Success:   event.Success,
		Timestamp: event.Timestamp,
	}, nil
}

// dbToDomain converts a database row to a domain event
func (r *AuditEventRepositoryImpl) dbToDomain(row *DBAuditEvent) (*domain.AuditEvent, error) {
	event := &domain.AuditEvent{
		ID:        row.ID,
		EventType: domain.AuditEventType(row.EventType),
		WizardID:  row.WizardID,
		Email:     row.Email,
		Phone:     row.Phone,
		ErrorMsg:  row.ErrorMsg,
		Success:   row.Success,
		Timestamp: row.Timestamp,
	}
	if row.Metadata != "" {
		if err := json.Unmarshal([]byte(row.Metadata), &event.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit metadata: %w", err)
		}
	}
	return event, nil
}
