package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&DBAuditEvent{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func TestAuditEventRepositoryImpl_LogEvent(t *testing.T) {
	repo := NewAuditEventRepository(setupTestDB(t))
	ctx := context.Background()

	ev := domain.NewAuditEvent(domain.SignupSubmittedEvent, "wz-1").
		WithEmail("jo@acme.test").
		WithPhone("+15550100").
		WithMetadata("country_code", "us")
	require.NoError(t, repo.LogEvent(ctx, ev))
	assert.NotEmpty(t, ev.ID, "an id is assigned")

	failed := domain.NewAuditEvent(domain.SignupFailureEvent, "wz-1").WithError(errors.New("Email already exists"))
	require.NoError(t, repo.LogEvent(ctx, failed))

	events, err := repo.List(ctx, domain.AuditFilter{WizardID: "wz-1"})
	require.NoError(t, err)
	require.Len(t, events, 2)

	byType := map[domain.AuditEventType]domain.AuditEvent{}
	for _, e := range events {
		byType[e.EventType] = e
	}
	ok := byType[domain.SignupSubmittedEvent]
	assert.True(t, ok.Success)
	assert.Equal(t, "jo@acme.test", ok.Email)
	assert.Equal(t, "us", ok.Metadata["country_code"])

	bad := byType[domain.SignupFailureEvent]
	assert.False(t, bad.Success)
	assert.Equal(t, "Email already exists", bad.ErrorMsg)
	assert.Nil(t, bad.Metadata)
}

func TestAuditEventRepositoryImpl_List(t *testing.T) {
	repo := NewAuditEventRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	seed := []struct {
		wizard string
		typ    domain.AuditEventType
	}{
		{"a", domain.SignupSubmittedEvent},
		{"a", domain.OTPVerifiedEvent},
		{"b", domain.SignupSubmittedEvent},
		{"a", domain.DocumentsSubmittedEvent},
	}
	for i, s := range seed {
		ev := domain.NewAuditEvent(s.typ, s.wizard)
		ev.Timestamp = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.LogEvent(ctx, ev))
	}

	tests := []struct {
		name      string
		filter    domain.AuditFilter
		wantTypes []domain.AuditEventType
	}{
		{
			name:      "by wizard newest first",
			filter:    domain.AuditFilter{WizardID: "a"},
			wantTypes: []domain.AuditEventType{domain.DocumentsSubmittedEvent, domain.OTPVerifiedEvent, domain.SignupSubmittedEvent},
		},
		{
			name:      "by type",
			filter:    domain.AuditFilter{EventType: domain.SignupSubmittedEvent},
			wantTypes: []domain.AuditEventType{domain.SignupSubmittedEvent, domain.SignupSubmittedEvent},
		},
		{
			name:      "limited",
			filter:    domain.AuditFilter{Limit: 1},
			wantTypes: []domain.AuditEventType{domain.DocumentsSubmittedEvent},
		},
		{
			name:      "no match",
			filter:    domain.AuditFilter{WizardID: "zzz"},
			wantTypes: []domain.AuditEventType{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			got := make([]domain.AuditEventType, 0, len(events))
			for _, e := range events {
				got = append(got, e.EventType)
			}
			assert.Equal(t, tt.wantTypes, got)
		})
	}
}
