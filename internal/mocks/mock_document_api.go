package mocks

import (
	"context"
	"fmt"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// MockDocumentAPI implements domain.DocumentAPI interface for testing
type MockDocumentAPI struct {
	ActiveDocumentTypesFunc func(ctx context.Context, token string) ([]domain.DocumentType, error)
	GenerateUploadURLFunc   func(ctx context.Context, token, fileExtension, namespace string) (*domain.UploadTarget, error)
	UploadFunc              func(ctx context.Context, target domain.UploadTarget, file domain.UploadFile) error
	CreateDocumentsFunc     func(ctx context.Context, token string, docs []domain.DocumentRecord) error
	MyDocumentsFunc         func(ctx context.Context, token string, page, perPage int) ([]domain.MyDocument, error)
}

// NewMockDocumentAPI creates a new MockDocumentAPI with default behaviors
func NewMockDocumentAPI() *MockDocumentAPI {
	return &MockDocumentAPI{}
}

// ActiveDocumentTypes lists the document types to collect
func (m *MockDocumentAPI) ActiveDocumentTypes(ctx context.Context, token string) ([]domain.DocumentType, error) {
	if m.ActiveDocumentTypesFunc != nil {
		return m.ActiveDocumentTypesFunc(ctx, token)
	}
	// Default behavior: no document types
	return []domain.DocumentType{}, nil
}

// GenerateUploadURL returns a presigned upload target
func (m *MockDocumentAPI) GenerateUploadURL(ctx context.Context, token, fileExtension, namespace string) (*domain.UploadTarget, error) {
	if m.GenerateUploadURLFunc != nil {
		return m.GenerateUploadURLFunc(ctx, token, fileExtension, namespace)
	}
	// Default behavior: a fake bucket location
	return &domain.UploadTarget{
		UploadURL: fmt.Sprintf("https://storage.test/%s/upload.%s", namespace, fileExtension),
		FilePath:  fmt.Sprintf("%s/upload.%s", namespace, fileExtension),
	}, nil
}

// Upload stores file bytes at the target
func (m *MockDocumentAPI) Upload(ctx context.Context, target domain.UploadTarget, file domain.UploadFile) error {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, target, file)
	}
	return nil
}

// CreateDocuments registers uploaded documents
func (m *MockDocumentAPI) CreateDocuments(ctx context.Context, token string, docs []domain.DocumentRecord) error {
	if m.CreateDocumentsFunc != nil {
		return m.CreateDocumentsFunc(ctx, token, docs)
	}
	return nil
}

// MyDocuments lists the caller's documents
func (m *MockDocumentAPI) MyDocuments(ctx context.Context, token string, page, perPage int) ([]domain.MyDocument, error) {
	if m.MyDocumentsFunc != nil {
		return m.MyDocumentsFunc(ctx, token, page, perPage)
	}
	return nil, nil
}

// Compile-time interface compliance verification
var _ domain.DocumentAPI = (*MockDocumentAPI)(nil)
