package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/logger"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

// AdminHandler exposes the KYC review API: listing uploaded documents and
// moving them out of the pending state.
type AdminHandler struct {
	kyc    model.KycStore
	tokens model.TokenManager
	apiKey string
	logger *logger.Logger
}

func NewAdminHandler(kyc model.KycStore, tokens model.TokenManager, apiKey string, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		kyc:    kyc,
		tokens: tokens,
		apiKey: apiKey,
		logger: logger,
	}
}

// HandleToken exchanges the configured admin API key for a short-lived
// bearer token.
func (h *AdminHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	if h.apiKey == "" {
		writeError(w, http.StatusServiceUnavailable, "admin_api_disabled")
		return
	}

	key := r.Header.Get("X-Admin-Api-Key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
		writeError(w, http.StatusUnauthorized, "invalid_api_key")
		return
	}

	token, err := h.tokens.GenerateAdminToken()
	if err != nil {
		h.logger.Error("Admin: failed to generate token", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "token_generation_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type kycDocumentResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	DocumentType string    `json:"document_type"`
	StoragePath  string    `json:"storage_path"`
	Status       string    `json:"status"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// HandleListKyc lists documents by status, defaulting to pending.
func (h *AdminHandler) HandleListKyc(w http.ResponseWriter, r *http.Request) {
	status := model.KycStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = model.KycStatusPending
	}
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	}

	docs, err := h.kyc.ListByStatus(r.Context(), status)
	if err != nil {
		h.logger.Error("Admin: failed to list kyc documents",
			"status", status,
			"error", err.Error())
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}

	resp := make([]kycDocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, kycDocumentResponse{
			ID:           doc.ID,
			UserID:       doc.UserID,
			DocumentType: doc.DocumentType,
			StoragePath:  doc.StoragePath,
			Status:       string(doc.Status),
			UploadedAt:   doc.UploadedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type reviewRequest struct {
	Status string `json:"status"`
}

// HandleReviewKyc sets a document's status to approved or rejected.
func (h *AdminHandler) HandleReviewKyc(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "documentId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_document_id")
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	status := model.KycStatus(req.Status)
	if status != model.KycStatusApproved && status != model.KycStatusRejected {
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	}

	if err := h.kyc.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document_not_found")
			return
		}
		h.logger.Error("Admin: failed to update kyc status",
			"document_id", id,
			"error", err.Error())
		writeError(w, http.StatusInternalServerError, "update_failed")
		return
	}

	h.logger.Info("Admin: kyc document reviewed",
		"document_id", id,
		"status", status)

	writeJSON(w, http.StatusOK, map[string]string{"id": id.String(), "status": string(status)})
}
