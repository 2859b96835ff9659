package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"apexhire/internal/repository"
)

// CandidateHandler serves the interviewer dashboard's archive views
type CandidateHandler struct {
	repo   repository.CandidateRepo
	logger *zap.Logger
}

// NewCandidateHandler creates a new candidate handler
func NewCandidateHandler(repo repository.CandidateRepo, logger *zap.Logger) *CandidateHandler {
	return &CandidateHandler{repo: repo, logger: logger}
}

// List handles GET /v1/candidates
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list candidates", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to list candidates")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Get handles GET /v1/candidates/{id}
func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	record, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load candidate", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load candidate")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "candidate not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}
