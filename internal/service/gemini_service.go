package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"apexhire/internal/config"
	"apexhire/internal/model"
)

// AI is the set of generative operations the interview flow depends on
type AI interface {
	ParseResume(ctx context.Context, resumeText string) (model.CandidateDetails, error)
	GenerateQuestion(ctx context.Context, difficulty model.Difficulty) (string, error)
	EvaluateAnswer(ctx context.Context, question, answer string) (*model.Evaluation, error)
	GenerateSummary(ctx context.Context, transcript []model.InterviewQuestion) (string, error)
}

// GeminiService implements AI against the Gemini REST API with per-task
// models. Without an API key it serves deterministic mock responses; with a
// key, upstream failures propagate to the caller.
type GeminiService struct {
	config *config.AIConfig
	client *http.Client
	logger *zap.Logger
}

// NewGeminiService creates a new Gemini-backed AI service
func NewGeminiService(cfg *config.AIConfig, logger *zap.Logger) *GeminiService {
	if cfg == nil {
		cfg = config.DefaultAIConfig()
	}
	return &GeminiService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		logger: logger,
	}
}

// ParseResume extracts name, email and phone from resume text. Fields that
// cannot be found come back nil.
func (s *GeminiService) ParseResume(ctx context.Context, resumeText string) (model.CandidateDetails, error) {
	if !s.config.IsEnabled() {
		return s.mockParse(resumeText), nil
	}

	prompt := s.buildParsePrompt(resumeText)
	response, err := s.callGemini(ctx, s.config.Models.ParseResume, prompt, true)
	if err != nil {
		return model.CandidateDetails{}, fmt.Errorf("parse resume: %w", err)
	}

	var details model.CandidateDetails
	if err := json.Unmarshal([]byte(response), &details); err != nil {
		return model.CandidateDetails{}, fmt.Errorf("parse resume: decode response: %w", err)
	}
	return details, nil
}

// GenerateQuestion produces one interview question for the difficulty
func (s *GeminiService) GenerateQuestion(ctx context.Context, difficulty model.Difficulty) (string, error) {
	if !s.config.IsEnabled() {
		return s.mockQuestion(difficulty), nil
	}

	prompt := s.buildQuestionPrompt(difficulty)
	response, err := s.callGemini(ctx, s.config.Models.Question, prompt, false)
	if err != nil {
		return "", fmt.Errorf("generate question: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// EvaluateAnswer scores an answer from 1 to 10 with a one-sentence
// justification.
func (s *GeminiService) EvaluateAnswer(ctx context.Context, question, answer string) (*model.Evaluation, error) {
	if !s.config.IsEnabled() {
		return s.mockEvaluate(answer), nil
	}

	prompt := s.buildEvaluationPrompt(question, answer)
	response, err := s.callGemini(ctx, s.config.Models.Eval, prompt, true)
	if err != nil {
		return nil, fmt.Errorf("evaluate answer: %w", err)
	}

	var eval model.Evaluation
	if err := json.Unmarshal([]byte(response), &eval); err != nil {
		return nil, fmt.Errorf("evaluate answer: decode response: %w", err)
	}
	return &eval, nil
}

// GenerateSummary writes the final performance summary from the transcript
func (s *GeminiService) GenerateSummary(ctx context.Context, transcript []model.InterviewQuestion) (string, error) {
	if !s.config.IsEnabled() {
		return s.mockSummary(transcript), nil
	}

	prompt := s.buildSummaryPrompt(transcript)
	response, err := s.callGemini(ctx, s.config.Models.Summary, prompt, false)
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// callGemini makes a generateContent request to the Gemini API
func (s *GeminiService) callGemini(ctx context.Context, modelName, prompt string, jsonResponse bool) (string, error) {
	generationConfig := map[string]interface{}{}
	if jsonResponse {
		generationConfig["responseMimeType"] = "application/json"
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": generationConfig,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// Prompt builders
func (s *GeminiService) buildParsePrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert recruitment assistant. Parse the following resume text and extract the candidate's full name, email address, and phone number.
Respond ONLY with a valid JSON object in the format: {"name": "...", "email": "...", "phone": "..."}.
If a field is not found, its value should be null. Do not include any other text, explanations, or markdown formatting.

Resume Text:
---
%s
---`, resumeText)
}

func (s *GeminiService) buildQuestionPrompt(difficulty model.Difficulty) string {
	return fmt.Sprintf(`You are an expert interviewer hiring for a Full Stack Engineer role with a focus on React and Node.js.
Generate one, and only one, interview question with a difficulty level of "%s".
The question should be conceptual, concise, and directly related to full-stack development.
Respond ONLY with the question text itself. Do not include any other text, explanations, or markdown formatting. Do not label the difficulty.`, difficulty)
}

func (s *GeminiService) buildEvaluationPrompt(question, answer string) string {
	return fmt.Sprintf(`You are an expert AI assistant evaluating an interview answer for a Full Stack Engineer role.
Question: "%s"
Candidate's Answer: "%s"

Evaluate the answer based on technical accuracy, clarity, and completeness.
Provide a score from 1 to 10 and a brief, one-sentence justification for the score.
Respond ONLY with a valid JSON object in the format: {"score": number, "justification": "..."}.
Do not include any other text, explanations, or markdown formatting.`, question, answer)
}

func (s *GeminiService) buildSummaryPrompt(transcript []model.InterviewQuestion) string {
	var sb strings.Builder
	for i, q := range transcript {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		answer := ""
		if q.Answer != nil {
			answer = *q.Answer
		}
		score := 0
		if q.Score != nil {
			score = *q.Score
		}
		justification := ""
		if q.Justification != nil {
			justification = *q.Justification
		}
		sb.WriteString(fmt.Sprintf("Question: %s\nAnswer: %s\nScore: %d/10\nJustification: %s",
			q.Text, answer, score, justification))
	}

	return fmt.Sprintf(`You are an expert hiring manager for a Full Stack Engineer role.
Based on the following interview transcript, please provide a concise, 3-4 sentence professional summary of the candidate's performance.
Highlight their potential strengths and weaknesses regarding React and Node.js.
Do not use markdown. Respond ONLY with the summary text.

Transcript:
---
%s
---`, sb.String())
}

// Mock implementations, used when no API key is configured
var (
	mockEmailRegex = regexp.MustCompile(`[^\s@]+@[^\s@]+\.[^\s@]+`)
	mockPhoneRegex = regexp.MustCompile(`\+?[\d][\d\s()-]{8,}\d`)
)

func (s *GeminiService) mockParse(resumeText string) model.CandidateDetails {
	details := model.CandidateDetails{}

	for _, line := range strings.Split(resumeText, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			details.Name = model.StringPtr(trimmed)
			break
		}
	}
	if email := mockEmailRegex.FindString(resumeText); email != "" {
		details.Email = model.StringPtr(email)
	}
	if phone := mockPhoneRegex.FindString(resumeText); phone != "" {
		details.Phone = model.StringPtr(strings.TrimSpace(phone))
	}
	return details
}

var mockQuestions = map[model.Difficulty]string{
	model.DifficultyEasy:   "What is the difference between let, const, and var in JavaScript?",
	model.DifficultyMedium: "How does React's reconciliation algorithm decide when to re-render a component?",
	model.DifficultyHard:   "How would you design a Node.js service to handle long-running jobs without blocking the event loop?",
}

func (s *GeminiService) mockQuestion(difficulty model.Difficulty) string {
	return mockQuestions[difficulty]
}

func (s *GeminiService) mockEvaluate(answer string) *model.Evaluation {
	words := len(strings.Fields(answer))
	score := words / 5
	if score < 1 {
		score = 1
	}
	if score > model.MaxQuestionScore {
		score = model.MaxQuestionScore
	}
	return &model.Evaluation{
		Score:         score,
		Justification: "Mock evaluation based on response length.",
	}
}

func (s *GeminiService) mockSummary(transcript []model.InterviewQuestion) string {
	answered := 0
	total := 0
	for _, q := range transcript {
		if q.Answer != nil {
			answered++
		}
		if q.Score != nil {
			total += *q.Score
		}
	}
	return fmt.Sprintf("The candidate answered %d of %d questions for a total score of %d. "+
		"Mock summary - configure a Gemini API key for real insights.",
		answered, len(transcript), total)
}
