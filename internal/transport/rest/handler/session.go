package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"apexhire/internal/service"
)

// SessionHandler drives the single interview session
type SessionHandler struct {
	svc    *service.InterviewService
	logger *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(svc *service.InterviewService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, logger: logger}
}

// Get handles GET /v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Snapshot())
}

// Start handles POST /v1/session/resume
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResumeText string `json:"resumeText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		writeError(w, http.StatusBadRequest, "resumeText is required")
		return
	}

	snap, err := h.svc.StartSession(r.Context(), req.ResumeText)
	if err != nil {
		if errors.Is(err, service.ErrSessionInProgress) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("failed to start session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// Message handles POST /v1/session/messages
func (h *SessionHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	snap, err := h.svc.SubmitMessage(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("failed to process message", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Draft handles PUT /v1/session/draft
func (h *SessionHandler) Draft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.SaveDraft(r.Context(), req.Text))
}

// Reset handles POST /v1/session/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Reset(r.Context()))
}
