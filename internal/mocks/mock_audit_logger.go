package mocks

import (
	"context"
	"sync"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// MockAuditLogger implements domain.AuditLogger interface for testing.
// Logged events are kept for assertions.
type MockAuditLogger struct {
	LogEventFunc func(ctx context.Context, event *domain.AuditEvent) error

	mu     sync.Mutex
	events []domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger with default behaviors
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// LogEvent records an audit event
func (m *MockAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	m.events = append(m.events, *event)
	m.mu.Unlock()
	if m.LogEventFunc != nil {
		return m.LogEventFunc(ctx, event)
	}
	return nil
}

// EventTypes returns the types of the logged events in order (test helper)
func (m *MockAuditLogger) EventTypes() []domain.AuditEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]domain.AuditEventType, len(m.events))
	for i, ev := range m.events {
		types[i] = ev.EventType
	}
	return types
}

// Compile-time interface compliance verification
var _ domain.AuditLogger = (*MockAuditLogger)(nil)
