package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/models"
	"github.com/ternarybob/studeo/internal/services/materials"
	"github.com/ternarybob/studeo/internal/storage/badger"
)

type fakeMaterialService struct {
	ingestErr error
	byID      map[string]*models.Material
}

func (f *fakeMaterialService) IngestText(ctx context.Context, userID, title, text string) (*models.Material, error) {
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	return &models.Material{ID: "mat_new", UserID: userID, Title: title, ContentText: text, SourceType: models.SourceTypeText}, nil
}

func (f *fakeMaterialService) IngestPDF(ctx context.Context, userID, filename string, data []byte) (*models.Material, error) {
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	return &models.Material{ID: "mat_pdf", UserID: userID, SourceRef: filename, SourceType: models.SourceTypePDF}, nil
}

func (f *fakeMaterialService) IngestURL(ctx context.Context, userID, url string) (*models.Material, error) {
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	return &models.Material{ID: "mat_url", UserID: userID, SourceRef: url, SourceType: models.SourceTypeURL}, nil
}

func (f *fakeMaterialService) GetMaterial(ctx context.Context, id string) (*models.Material, error) {
	if m, ok := f.byID[id]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("material %s: %w", id, badger.ErrNotFound)
}

func (f *fakeMaterialService) ListMaterials(ctx context.Context, userID string) ([]*models.Material, error) {
	var out []*models.Material
	for _, m := range f.byID {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMaterialService) DeleteMaterial(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return fmt.Errorf("material %s: %w", id, badger.ErrNotFound)
	}
	delete(f.byID, id)
	return nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestIngestTextHandler(t *testing.T) {
	h := NewMaterialHandler(&fakeMaterialService{}, common.GetLogger())

	rec := postJSON(t, h.IngestTextHandler, "/api/materials/text", map[string]string{
		"user_id": "usr_1",
		"title":   "Notes",
		"text":    "Photosynthesis converts light into chemical energy.",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var material models.Material
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &material))
	assert.Equal(t, "mat_new", material.ID)
	assert.Equal(t, "usr_1", material.UserID)
}

func TestIngestTextHandlerValidation(t *testing.T) {
	h := NewMaterialHandler(&fakeMaterialService{}, common.GetLogger())

	// Missing required text field
	rec := postJSON(t, h.IngestTextHandler, "/api/materials/text", map[string]string{
		"user_id": "usr_1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Wrong method
	req := httptest.NewRequest("GET", "/api/materials/text", nil)
	getRec := httptest.NewRecorder()
	h.IngestTextHandler(getRec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, getRec.Code)
}

func TestIngestTextHandlerDuplicateConflict(t *testing.T) {
	svc := &fakeMaterialService{
		ingestErr: fmt.Errorf("content already ingested as mat_old: %w", materials.ErrDuplicateMaterial),
	}
	h := NewMaterialHandler(svc, common.GetLogger())

	rec := postJSON(t, h.IngestTextHandler, "/api/materials/text", map[string]string{
		"user_id": "usr_1",
		"text":    "Same content again.",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMaterialByIDHandlerNotFound(t *testing.T) {
	h := NewMaterialHandler(&fakeMaterialService{byID: map[string]*models.Material{}}, common.GetLogger())

	req := httptest.NewRequest("GET", "/api/materials/mat_missing", nil)
	rec := httptest.NewRecorder()
	h.MaterialByIDHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIngestURLHandlerRejectsBadURL(t *testing.T) {
	h := NewMaterialHandler(&fakeMaterialService{}, common.GetLogger())

	rec := postJSON(t, h.IngestURLHandler, "/api/materials/url", map[string]string{
		"user_id": "usr_1",
		"url":     "not-a-url",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
