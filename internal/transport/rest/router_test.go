package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"apexhire/internal/interview"
	"apexhire/internal/model"
	"apexhire/internal/repository"
	"apexhire/internal/service"
)

type stubAI struct {
	parseErr error
}

func (s *stubAI) ParseResume(_ context.Context, _ string) (model.CandidateDetails, error) {
	if s.parseErr != nil {
		return model.CandidateDetails{}, s.parseErr
	}
	return model.CandidateDetails{
		Name:  model.StringPtr("Jane Doe"),
		Email: model.StringPtr("jane@example.com"),
		Phone: model.StringPtr("5551234567"),
	}, nil
}

func (s *stubAI) GenerateQuestion(_ context.Context, d model.Difficulty) (string, error) {
	return fmt.Sprintf("A %s question.", d), nil
}

func (s *stubAI) EvaluateAnswer(_ context.Context, _, _ string) (*model.Evaluation, error) {
	return &model.Evaluation{Score: 6, Justification: "Reasonable."}, nil
}

func (s *stubAI) GenerateSummary(_ context.Context, _ []model.InterviewQuestion) (string, error) {
	return "Good candidate.", nil
}

func newTestRouter(t *testing.T) (http.Handler, *service.InterviewService, repository.CandidateRepo) {
	t.Helper()
	logger := zap.NewNop()
	ai := &stubAI{}
	repo := repository.NewMemoryCandidateRepo()
	svc := service.NewInterviewService(interview.NewStore(), ai, repo, nil, logger)
	svc.SetPacing(service.Pacing{})

	router := NewRouter(&Container{
		Interview:  svc,
		AI:         ai,
		Candidates: repo,
		Logger:     logger,
	})
	return router, svc, repo
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"ok"}` {
		t.Fatalf("body = %q", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "DELETE", "/v1/session", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Method Not Allowed") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestParseResumeValidation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing field", `{}`, "resumeText is required"},
		{"blank field", `{"resumeText": "   "}`, "resumeText is required"},
		{"malformed json", `{`, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, "POST", "/v1/ai/parse-resume", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestParseResumeSuccess(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/ai/parse-resume", `{"resumeText": "Jane Doe"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var details model.CandidateDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &details); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if details.Name == nil || *details.Name != "Jane Doe" {
		t.Fatalf("name = %v", details.Name)
	}
}

func TestGenerateQuestionRejectsUnknownDifficulty(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/ai/generate-question", `{"difficulty": "impossible"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid difficulty level") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestEvaluateAnswerRequiresBothFields(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/ai/evaluate-answer", `{"question": "What is a closure?"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Question and answer are required") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestGenerateSummaryRequiresTranscript(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/ai/generate-summary", `{"transcript": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Transcript is required") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	router, svc, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/v1/session", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET session status = %d", rec.Code)
	}
	var snap interview.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Status != interview.StatusIdle {
		t.Fatalf("status = %q, want idle", snap.Status)
	}

	rec = doJSON(t, router, "POST", "/v1/session/resume", `{"resumeText": "Jane Doe\njane@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Starting twice conflicts.
	rec = doJSON(t, router, "POST", "/v1/session/resume", `{"resumeText": "again"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second start status = %d, want 409", rec.Code)
	}

	rec = doJSON(t, router, "PUT", "/v1/session/draft", `{"text": "typing..."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("draft status = %d", rec.Code)
	}

	rec = doJSON(t, router, "POST", "/v1/session/messages", `{"text": "my answer"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("message status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.CurrentQuestionIndex != 1 {
		t.Fatalf("question index = %d, want 1", snap.CurrentQuestionIndex)
	}

	rec = doJSON(t, router, "POST", "/v1/session/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Status != interview.StatusIdle {
		t.Fatalf("status after reset = %q, want idle", snap.Status)
	}
	svc.Wait()
}

func TestMessageWithoutSessionConflicts(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/session/messages", `{"text": "hello"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestMessageRequiresText(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/session/messages", `{"text": "  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCandidateEndpoints(t *testing.T) {
	router, _, repo := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/v1/candidates", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	record, err := repo.Add(context.Background(), model.CandidateRecord{
		Details:      model.CandidateDetails{Name: model.StringPtr("Jane Doe")},
		TotalScore:   model.IntPtr(42),
		FinalSummary: model.StringPtr("Strong."),
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	rec = doJSON(t, router, "GET", "/v1/candidates/"+record.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got model.CandidateRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != record.ID {
		t.Fatalf("id = %q, want %q", got.ID, record.ID)
	}

	rec = doJSON(t, router, "GET", "/v1/candidates/missing-id", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d, want 404", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/v1/session/resume", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatal("missing Access-Control-Allow-Origin header")
	}
}
