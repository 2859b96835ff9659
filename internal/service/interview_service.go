package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"apexhire/internal/cache"
	"apexhire/internal/interview"
	"apexhire/internal/model"
	"apexhire/internal/repository"
	"apexhire/internal/validation"
)

// Sentinel errors surfaced to the transport layer
var (
	ErrSessionInProgress = errors.New("a session is already in progress")
	ErrNoActiveSession   = errors.New("no active session")
)

// Chat copy shown to the candidate
const (
	msgParseFailure = "I'm sorry, I encountered an error reading that document. Let's get your details manually."
	msgVerification = "I've successfully verified your details. Before we begin, please review the interview format."
	msgRules        = "Here's how the interview will work:\n\n- **Total Questions**: 6\n- **Structure**: 2 Easy, 2 Medium, 2 Hard\n- **Scoring**: Each question is scored out of 10.\n- **Timing**:\n  - Easy: 20 seconds\n  - Medium: 60 seconds\n  - Hard: 120 seconds\n\nWhen the timer runs out, your answer will be submitted automatically. Let's begin with the first question."
	msgCorrectionSaved = "Thank you, I've updated that."
	msgCorrectionRetry = "That doesn't seem right. Please try again."
	msgDetailsDone     = "Great, all your details are confirmed. Let's begin the interview."
	msgAnswerRecorded  = "Your answer has been recorded. Preparing the next question..."
	msgGenericError    = "An error occurred. Let's try that again."
	msgSubmitted       = "Your results have been successfully submitted to the hiring team. Thank you for your time! You may now close this window."
	msgSubmittedNoAI   = "Your results have been successfully submitted. Thank you for your time! You may now close this window."
	summaryFallback    = "Error: Could not generate summary."
	autoSubmitAnswer   = "[Time's Up! No answer provided.]"
)

var correctionPrompts = map[validation.Field]string{
	validation.FieldName:  "Could you please provide your full name?",
	validation.FieldEmail: "Could you please provide your email address?",
	validation.FieldPhone: "And finally, your 10-digit phone number?",
}

// Pacing controls the conversational delays between consecutive AI messages.
// Zero values disable pacing, which is what tests use.
type Pacing struct {
	Prompt time.Duration // before the next correction prompt
	Short  time.Duration // between onboarding messages
	Medium time.Duration // before a next question or final message
	Long   time.Duration // after the interview rules
}

// DefaultPacing returns the conversational rhythm of the chat flow
func DefaultPacing() Pacing {
	return Pacing{
		Prompt: 800 * time.Millisecond,
		Short:  1200 * time.Millisecond,
		Medium: 1500 * time.Millisecond,
		Long:   2500 * time.Millisecond,
	}
}

// InterviewService orchestrates the interview flow: it sequences the AI
// operations and the validation helper and drives the session store through
// its lifecycle. It is the single logical writer of the session state.
type InterviewService struct {
	store       *interview.Store
	ai          AI
	repo        repository.CandidateRepo
	stateCache  cache.StateCache
	broadcaster Broadcaster
	logger      *zap.Logger
	countdown   *interview.Countdown
	pacing      Pacing

	// mu serializes session mutations: manual submissions, timer expiry
	// and resets. First to acquire it wins; the loser observes the moved
	// state and becomes a no-op.
	mu sync.Mutex
	wg sync.WaitGroup
}

// NewInterviewService creates a new interview orchestrator. stateCache may
// be nil when no durable store is configured.
func NewInterviewService(
	store *interview.Store,
	ai AI,
	repo repository.CandidateRepo,
	stateCache cache.StateCache,
	logger *zap.Logger,
) *InterviewService {
	return &InterviewService{
		store:      store,
		ai:         ai,
		repo:       repo,
		stateCache: stateCache,
		logger:     logger,
		countdown:  interview.NewCountdown(time.Second),
		pacing:     DefaultPacing(),
	}
}

// SetBroadcaster sets the broadcaster for session events
func (s *InterviewService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetPacing overrides the conversational delays
func (s *InterviewService) SetPacing(p Pacing) {
	s.pacing = p
}

// SetCountdownInterval overrides the timer tick interval
func (s *InterviewService) SetCountdownInterval(d time.Duration) {
	s.countdown = interview.NewCountdown(d)
}

// Wait blocks until background work (summary generation and archiving) is
// done. Called on shutdown and by tests.
func (s *InterviewService) Wait() {
	s.wg.Wait()
}

// Snapshot returns the current session state
func (s *InterviewService) Snapshot() interview.Snapshot {
	return s.store.Snapshot()
}

// StartSession parses the uploaded resume text and begins the session.
// The session always transitions to active, even when parsing fails; in
// that case every detail is collected manually through the correction flow.
func (s *InterviewService) StartSession(ctx context.Context, resumeText string) (interview.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.Status() != interview.StatusIdle {
		return s.store.Snapshot(), ErrSessionInProgress
	}

	details, err := s.ai.ParseResume(ctx, resumeText)
	if err != nil {
		s.logger.Warn("resume parsing failed, collecting details manually", zap.Error(err))
		s.store.SetStatus(interview.StatusActive)
		s.store.AddMessage(model.SenderAI, msgParseFailure)
		s.store.StartCorrectionFlow(validation.AllFields)
		s.askForCorrection()
		return s.persistAndBroadcast(ctx), nil
	}

	s.store.SetCandidateDetails(model.DetailsPatch{
		Name:  details.Name,
		Email: details.Email,
		Phone: details.Phone,
	})
	s.store.SetStatus(interview.StatusActive)

	result := validation.ValidateDetails(details)
	if result.IsValid {
		s.runOnboarding(ctx, details)
	} else {
		name := "there"
		if details.Name != nil && *details.Name != "" {
			name = *details.Name
		}
		s.store.AddMessage(model.SenderAI,
			fmt.Sprintf("Hello, %s! I've reviewed your resume. A few details need confirmation.", name))
		s.store.StartCorrectionFlow(result.FieldsToCorrect)
		s.pause(s.pacing.Prompt)
		s.askForCorrection()
	}
	return s.persistAndBroadcast(ctx), nil
}

// SubmitMessage handles one user submission: a correction answer during the
// correction phase, or an interview answer during the Q&A loop.
func (s *InterviewService) SubmitMessage(ctx context.Context, text string) (interview.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(ctx, text)
}

// SaveDraft stores the candidate's in-progress input so a timer expiry can
// submit it on their behalf.
func (s *InterviewService) SaveDraft(ctx context.Context, text string) interview.Snapshot {
	s.store.SetDraft(text)
	return s.store.Snapshot()
}

// Reset collapses the session back to idle from any state. Outstanding AI
// calls are not aborted; when they resolve they write into state that has
// already moved on.
func (s *InterviewService) Reset(ctx context.Context) interview.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.countdown.Stop()
	s.store.Reset()
	if s.stateCache != nil {
		if err := s.stateCache.ClearSession(ctx); err != nil {
			s.logger.Warn("failed to clear persisted session", zap.Error(err))
		}
	}
	return s.broadcastSnapshot()
}

// Rehydrate restores persisted state on boot: the archive is reseeded and
// an interview that was mid-flight resumes, with its timer restarted from
// the persisted remaining seconds. A finished session is discarded.
func (s *InterviewService) Rehydrate(ctx context.Context) error {
	if s.stateCache == nil {
		return nil
	}

	if seeder, ok := s.repo.(repository.Seeder); ok {
		records, err := s.stateCache.LoadCandidates(ctx)
		if err != nil {
			return fmt.Errorf("load persisted candidates: %w", err)
		}
		if records != nil {
			seeder.Seed(records)
			s.logger.Info("archive rehydrated", zap.Int("candidates", len(records)))
		}
	}

	snap, err := s.stateCache.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("load persisted session: %w", err)
	}
	if snap == nil {
		return nil
	}

	if snap.Status == interview.StatusFinished || snap.FinalSummary != nil {
		if err := s.stateCache.ClearSession(ctx); err != nil {
			s.logger.Warn("failed to clear finished session", zap.Error(err))
		}
		return nil
	}

	if snap.Status == interview.StatusLoading {
		// The process died mid-evaluation; the candidate resubmits.
		snap.Status = interview.StatusActive
	}
	s.store.Restore(*snap)
	if snap.TimerActive && snap.RemainingTime > 0 {
		s.countdown.Start(s.timerTick, s.timerExpired)
	}
	s.logger.Info("session rehydrated",
		zap.String("status", string(snap.Status)),
		zap.Int("question", snap.CurrentQuestionIndex))
	return nil
}

func (s *InterviewService) submitLocked(ctx context.Context, text string) (interview.Snapshot, error) {
	snap := s.store.Snapshot()

	if snap.TimerActive {
		s.stopTimer()
	}
	if snap.Status == interview.StatusLoading {
		// A submission is already being processed; this one lost the race.
		return snap, nil
	}
	if snap.Status != interview.StatusActive {
		return snap, ErrNoActiveSession
	}
	if strings.TrimSpace(text) == "" {
		return snap, nil
	}

	s.store.AddMessage(model.SenderUser, text)
	s.store.SetDraft("")

	if front := snap.CurrentCorrection(); front != "" {
		return s.handleCorrection(ctx, front, text)
	}
	return s.handleAnswer(ctx, text)
}

func (s *InterviewService) handleCorrection(ctx context.Context, field validation.Field, answer string) (interview.Snapshot, error) {
	value, ok := validation.ValidateCorrection(field, answer)
	if !ok {
		s.store.AddMessage(model.SenderAI, msgCorrectionRetry)
		return s.persistAndBroadcast(ctx), nil
	}

	patch := model.DetailsPatch{}
	switch field {
	case validation.FieldName:
		patch.Name = model.StringPtr(value)
	case validation.FieldEmail:
		patch.Email = model.StringPtr(value)
	case validation.FieldPhone:
		patch.Phone = model.StringPtr(value)
	}
	s.store.SetCandidateDetails(patch)
	s.store.AddMessage(model.SenderAI, msgCorrectionSaved)
	snap := s.store.ProcessNextCorrection()

	if len(snap.CorrectionQueue) == 0 {
		s.pause(s.pacing.Short)
		s.store.AddMessage(model.SenderAI, msgDetailsDone)
		s.pause(s.pacing.Medium)
		s.fetchAndStartInterview(ctx)
	} else {
		s.pause(s.pacing.Prompt)
		s.askForCorrection()
	}
	return s.persistAndBroadcast(ctx), nil
}

func (s *InterviewService) handleAnswer(ctx context.Context, answer string) (interview.Snapshot, error) {
	snap := s.store.Snapshot()
	current := snap.CurrentQuestion()
	if current == nil {
		return snap, ErrNoActiveSession
	}

	s.store.SetStatus(interview.StatusLoading)

	// Evaluate the answer and fetch the next question concurrently; both
	// are outstanding at once and joined below. The evaluation result is
	// always recorded before the next question is appended.
	type evalResult struct {
		eval *model.Evaluation
		err  error
	}
	type questionResult struct {
		text string
		err  error
	}

	evalCh := make(chan evalResult, 1)
	go func() {
		eval, err := s.ai.EvaluateAnswer(ctx, current.Text, answer)
		evalCh <- evalResult{eval: eval, err: err}
	}()

	nextIndex := snap.CurrentQuestionIndex + 1
	var nextCh chan questionResult
	var nextDifficulty model.Difficulty
	if nextIndex < model.TotalQuestions {
		nextDifficulty = model.QuestionPlan[nextIndex]
		nextCh = make(chan questionResult, 1)
		go func(d model.Difficulty) {
			text, err := s.ai.GenerateQuestion(ctx, d)
			nextCh <- questionResult{text: text, err: err}
		}(nextDifficulty)
	}

	eval := <-evalCh
	if eval.err != nil {
		s.recoverFromError(eval.err)
		return s.persistAndBroadcast(ctx), nil
	}
	s.store.SaveAnswerAndScore(answer, eval.eval.Score, eval.eval.Justification)
	s.store.AddMessage(model.SenderAI, msgAnswerRecorded)

	if nextCh != nil {
		next := <-nextCh
		if next.err != nil {
			s.recoverFromError(next.err)
			return s.persistAndBroadcast(ctx), nil
		}
		s.pause(s.pacing.Medium)
		s.store.AskNextQuestion(model.InterviewQuestion{
			Text:       next.text,
			Difficulty: nextDifficulty,
		})
		s.store.SetStatus(interview.StatusActive)
		s.startTimer(nextDifficulty)
		return s.persistAndBroadcast(ctx), nil
	}

	_, total := s.store.EndInterview()
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(EventInterviewFinished, map[string]interface{}{
			"totalScore": total,
		})
	}
	s.logger.Info("interview finished", zap.Int("totalScore", total))

	s.wg.Add(1)
	go s.generateFinalSummary(context.Background())

	return s.persistAndBroadcast(ctx), nil
}

// generateFinalSummary runs after the interview ends. A summary failure
// never blocks archiving; the record is stored with a fallback summary.
func (s *InterviewService) generateFinalSummary(ctx context.Context) {
	defer s.wg.Done()

	snap := s.store.Snapshot()
	partial := model.CandidateRecord{
		Details:    snap.CandidateDetails,
		Questions:  snap.Questions,
		TotalScore: snap.TotalScore,
	}

	summary, err := s.ai.GenerateSummary(ctx, snap.Questions)
	if err != nil {
		s.logger.Warn("summary generation failed, archiving with fallback", zap.Error(err))
		partial.FinalSummary = model.StringPtr(summaryFallback)
		s.archive(ctx, partial)
		s.pause(s.pacing.Medium)
		s.store.AddMessage(model.SenderAI, msgSubmittedNoAI)
	} else {
		s.store.SetFinalSummary(summary)
		partial.FinalSummary = model.StringPtr(summary)
		s.archive(ctx, partial)
		s.pause(s.pacing.Medium)
		s.store.AddMessage(model.SenderAI, msgSubmitted)
	}
	s.persistAndBroadcast(ctx)
}

func (s *InterviewService) archive(ctx context.Context, partial model.CandidateRecord) {
	record, err := s.repo.Add(ctx, partial)
	if err != nil {
		s.logger.Error("failed to archive candidate", zap.Error(err))
		return
	}
	s.logger.Info("candidate archived", zap.String("id", record.ID))

	if s.stateCache != nil {
		records, err := s.repo.List(ctx)
		if err == nil {
			if err := s.stateCache.SaveCandidates(ctx, records); err != nil {
				s.logger.Warn("failed to persist archive", zap.Error(err))
			}
		}
	}
}

// fetchAndStartInterview requests the first question and arms the timer
func (s *InterviewService) fetchAndStartInterview(ctx context.Context) {
	text, err := s.ai.GenerateQuestion(ctx, model.DifficultyEasy)
	if err != nil {
		s.recoverFromError(err)
		return
	}
	s.store.StartInterview(model.InterviewQuestion{
		Text:       text,
		Difficulty: model.DifficultyEasy,
	})
	s.startTimer(model.DifficultyEasy)
}

// runOnboarding plays the welcome sequence for a candidate whose details
// validated on the first pass, then asks the first question.
func (s *InterviewService) runOnboarding(ctx context.Context, details model.CandidateDetails) {
	name := ""
	if details.Name != nil {
		name = *details.Name
	}
	s.store.AddMessage(model.SenderAI, fmt.Sprintf("Hello, %s! Welcome to ApexHire.", name))
	s.pause(s.pacing.Short)
	s.store.AddMessage(model.SenderAI, msgVerification)
	s.pause(s.pacing.Medium)
	s.store.AddMessage(model.SenderAI, msgRules)
	s.pause(s.pacing.Long)
	s.fetchAndStartInterview(ctx)
}

// askForCorrection prompts for the front field of the correction queue.
// The prompt is skipped when it is already the last transcript entry.
func (s *InterviewService) askForCorrection() {
	snap := s.store.Snapshot()
	front := snap.CurrentCorrection()
	if front == "" {
		return
	}
	prompt := correctionPrompts[front]
	if last := snap.LastMessage(); last != nil && last.Text == prompt {
		return
	}
	s.store.AddMessage(model.SenderAI, prompt)
}

func (s *InterviewService) recoverFromError(err error) {
	s.logger.Error("interview flow error", zap.Error(err))
	s.store.AddMessage(model.SenderAI, msgGenericError)
	s.store.SetStatus(interview.StatusActive)
}

func (s *InterviewService) startTimer(d model.Difficulty) {
	s.store.StartTimer(d.TimeLimitSeconds())
	s.countdown.Start(s.timerTick, s.timerExpired)
}

func (s *InterviewService) stopTimer() {
	s.countdown.Stop()
	s.store.StopTimer()
}

func (s *InterviewService) timerTick() (int, bool) {
	remaining, active := s.store.TickTimer()
	if active && s.broadcaster != nil {
		s.broadcaster.Broadcast(EventTimerTick, map[string]int{"remainingTime": remaining})
	}
	if active && s.stateCache != nil {
		if err := s.stateCache.SaveSession(context.Background(), s.store.Snapshot()); err != nil {
			s.logger.Warn("failed to persist session", zap.Error(err))
		}
	}
	return remaining, active
}

// timerExpired auto-submits the current draft, or the no-answer placeholder,
// as if the candidate had pressed submit. A manual submission that got in
// first has already stopped the timer, making this a no-op.
func (s *InterviewService) timerExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.store.Snapshot()
	if !snap.TimerActive || snap.Status != interview.StatusActive {
		return
	}

	answer := strings.TrimSpace(s.store.TakeDraft())
	if answer == "" {
		answer = autoSubmitAnswer
	}
	if _, err := s.submitLocked(context.Background(), answer); err != nil {
		s.logger.Warn("auto-submission failed", zap.Error(err))
	}
}

func (s *InterviewService) persistAndBroadcast(ctx context.Context) interview.Snapshot {
	snap := s.store.Snapshot()
	if s.stateCache != nil {
		if err := s.stateCache.SaveSession(ctx, snap); err != nil {
			s.logger.Warn("failed to persist session", zap.Error(err))
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(EventSessionUpdated, snap)
	}
	return snap
}

func (s *InterviewService) broadcastSnapshot() interview.Snapshot {
	snap := s.store.Snapshot()
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(EventSessionUpdated, snap)
	}
	return snap
}

func (s *InterviewService) pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
