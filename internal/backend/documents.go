package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

type documentTypeDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    *bool  `json:"required"`
}

type uploadURLRequest struct {
	FileExtension string `json:"file_extension"`
	Namespace     string `json:"namespace"`
}

type createDocumentsRequest struct {
	Documents []domain.DocumentRecord `json:"documents"`
}

type pageRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// ActiveDocumentTypes implements domain.DocumentAPI. Types without an
// explicit "required" flag are required.
func (c *Client) ActiveDocumentTypes(ctx context.Context, token string) ([]domain.DocumentType, error) {
	var dtos []documentTypeDTO
	if err := c.doJSON(ctx, opDocumentTypes, http.MethodGet, c.paths.DocumentTypes, token, nil, &dtos); err != nil {
		return nil, err
	}
	types := make([]domain.DocumentType, 0, len(dtos))
	for _, d := range dtos {
		required := true
		if d.Required != nil {
			required = *d.Required
		}
		types = append(types, domain.DocumentType{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Required:    required,
		})
	}
	return types, nil
}

// GenerateUploadURL implements domain.DocumentAPI
func (c *Client) GenerateUploadURL(ctx context.Context, token, fileExtension, namespace string) (*domain.UploadTarget, error) {
	body := uploadURLRequest{FileExtension: fileExtension, Namespace: namespace}
	var target domain.UploadTarget
	if err := c.doJSON(ctx, opUploadURL, http.MethodPost, c.paths.UploadURL, token, body, &target); err != nil {
		return nil, err
	}
	if target.UploadURL == "" {
		return nil, emptyResponse(opUploadURL, http.StatusOK)
	}
	return &target, nil
}

// Upload implements domain.DocumentAPI. The body is the raw file; the
// pre-signed URL carries its own credentials.
func (c *Client) Upload(ctx context.Context, target domain.UploadTarget, file domain.UploadFile) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.UploadURL, bytes.NewReader(file.Data))
	if err != nil {
		return fmt.Errorf("build %s request: %w", opUpload.name, err)
	}
	req.ContentLength = int64(len(file.Data))
	if file.ContentType != "" {
		req.Header.Set("Content-Type", file.ContentType)
	}
	_, _, err = c.send(ctx, opUpload, req)
	return err
}

// CreateDocuments implements domain.DocumentAPI. All records go in one call.
func (c *Client) CreateDocuments(ctx context.Context, token string, docs []domain.DocumentRecord) error {
	body := createDocumentsRequest{Documents: docs}
	return c.doJSON(ctx, opCreateDocs, http.MethodPost, c.paths.Documents, token, body, nil)
}

// MyDocuments implements domain.DocumentAPI. The platform answers either
// with a bare list or with a page object carrying a "data" list.
func (c *Client) MyDocuments(ctx context.Context, token string, page, perPage int) ([]domain.MyDocument, error) {
	var raw json.RawMessage
	body := pageRequest{Page: page, PerPage: perPage}
	if err := c.doJSON(ctx, opMyDocuments, http.MethodPost, c.paths.MyDocuments, token, body, &raw); err != nil {
		return nil, err
	}

	var docs []domain.MyDocument
	if err := json.Unmarshal(raw, &docs); err == nil {
		return docs, nil
	}
	var paged struct {
		Data []domain.MyDocument `json:"data"`
	}
	if err := json.Unmarshal(raw, &paged); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", opMyDocuments.name, err)
	}
	return paged.Data, nil
}

var _ domain.DocumentAPI = (*Client)(nil)
