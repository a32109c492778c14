package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luminagems/gemstore/internal/api"
	"github.com/luminagems/gemstore/internal/domain"
	"github.com/luminagems/gemstore/internal/service"
)

type MediaService interface {
	InitUpload(ctx context.Context, input service.InitUploadInput) (*service.InitUploadResult, error)
	CompleteUpload(ctx context.Context, mediaID string) (*domain.MediaAsset, error)
	GetDownloadURL(ctx context.Context, mediaID string) (string, error)
	ListByGemstone(ctx context.Context, gemstoneID string) ([]*domain.MediaAsset, error)
}

type MediaHandler struct {
	svc MediaService
}

func NewMediaHandler(svc MediaService) *MediaHandler {
	return &MediaHandler{svc: svc}
}

type InitUploadRequest struct {
	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	IsPrimary bool   `json:"is_primary"`
}

type MediaResponse struct {
	ID          string `json:"id"`
	GemstoneID  string `json:"gemstone_id"`
	Filename    string `json:"filename"`
	MimeType    string `json:"mime_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Status      string `json:"status"`
	IsPrimary   bool   `json:"is_primary"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

func mediaToResponse(m *domain.MediaAsset) *MediaResponse {
	resp := &MediaResponse{
		ID:         m.ID,
		GemstoneID: m.GemstoneID,
		Filename:   m.Filename,
		MimeType:   m.MimeType,
		SizeBytes:  m.SizeBytes,
		Status:     string(m.Status),
		IsPrimary:  m.IsPrimary,
		CreatedAt:  m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if m.CompletedAt != nil {
		resp.CompletedAt = m.CompletedAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}

func (h *MediaHandler) InitUpload(w http.ResponseWriter, r *http.Request) {
	gemstoneID := chi.URLParam(r, "id")

	var req InitUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Filename == "" {
		api.Error(w, http.StatusBadRequest, "filename is required")
		return
	}
	if req.MimeType == "" {
		api.Error(w, http.StatusBadRequest, "mime_type is required")
		return
	}

	result, err := h.svc.InitUpload(r.Context(), service.InitUploadInput{
		GemstoneID: gemstoneID,
		Filename:   req.Filename,
		MimeType:   req.MimeType,
		IsPrimary:  req.IsPrimary,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, map[string]interface{}{
		"media":      mediaToResponse(result.Media),
		"upload_url": result.UploadURL,
	})
}

func (h *MediaHandler) CompleteUpload(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "mediaID")

	m, err := h.svc.CompleteUpload(r.Context(), mediaID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, mediaToResponse(m))
}

func (h *MediaHandler) GetDownloadURL(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "mediaID")

	url, err := h.svc.GetDownloadURL(r.Context(), mediaID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{"download_url": url})
}

func (h *MediaHandler) ListByGemstone(w http.ResponseWriter, r *http.Request) {
	gemstoneID := chi.URLParam(r, "id")

	assets, err := h.svc.ListByGemstone(r.Context(), gemstoneID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*MediaResponse, 0, len(assets))
	for _, m := range assets {
		responses = append(responses, mediaToResponse(m))
	}

	api.Success(w, http.StatusOK, responses)
}
