package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"apexhire/internal/model"
	"apexhire/internal/service"
)

// AIHandler exposes the generative operations directly, for clients that
// drive their own flow instead of using the session endpoints.
type AIHandler struct {
	ai     service.AI
	logger *zap.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(ai service.AI, logger *zap.Logger) *AIHandler {
	return &AIHandler{ai: ai, logger: logger}
}

// ParseResume handles POST /v1/ai/parse-resume
func (h *AIHandler) ParseResume(w http.ResponseWriter, r *http.Request) {
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

	details, err := h.ai.ParseResume(r.Context(), req.ResumeText)
	if err != nil {
		h.logger.Error("resume parsing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to parse resume")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// GenerateQuestion handles POST /v1/ai/generate-question
func (h *AIHandler) GenerateQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Difficulty model.Difficulty `json:"difficulty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Difficulty.IsValid() {
		writeError(w, http.StatusBadRequest, "Invalid difficulty level")
		return
	}

	question, err := h.ai.GenerateQuestion(r.Context(), req.Difficulty)
	if err != nil {
		h.logger.Error("question generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to generate question")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"question": question})
}

// EvaluateAnswer handles POST /v1/ai/evaluate-answer
func (h *AIHandler) EvaluateAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" || req.Answer == "" {
		writeError(w, http.StatusBadRequest, "Question and answer are required")
		return
	}

	eval, err := h.ai.EvaluateAnswer(r.Context(), req.Question, req.Answer)
	if err != nil {
		h.logger.Error("answer evaluation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to evaluate answer")
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

// GenerateSummary handles POST /v1/ai/generate-summary
func (h *AIHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Transcript []model.InterviewQuestion `json:"transcript"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Transcript) == 0 {
		writeError(w, http.StatusBadRequest, "Transcript is required")
		return
	}

	summary, err := h.ai.GenerateSummary(r.Context(), req.Transcript)
	if err != nil {
		h.logger.Error("summary generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to generate summary")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
