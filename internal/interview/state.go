package interview

import (
	"fmt"
	"sync"

	"apexhire/internal/model"
	"apexhire/internal/validation"
)

// Status is the lifecycle state of the single interview session
type Status string

const (
	StatusIdle     Status = "idle"
	StatusLoading  Status = "loading"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Snapshot is an immutable copy of the session state. Every transition on
// the Store returns the snapshot it produced.
type Snapshot struct {
	Status               Status                    `json:"status"`
	CandidateDetails     model.CandidateDetails    `json:"candidateDetails"`
	Messages             []model.ChatMessage       `json:"messages"`
	CorrectionQueue      []validation.Field        `json:"correctionQueue"`
	Questions            []model.InterviewQuestion `json:"questions"`
	CurrentQuestionIndex int                       `json:"currentQuestionIndex"`
	TimerActive          bool                      `json:"timerActive"`
	RemainingTime        int                       `json:"remainingTime"`
	Draft                string                    `json:"draft"`
	TotalScore           *int                      `json:"totalScore"`
	FinalSummary         *string                   `json:"finalSummary"`
}

// CurrentQuestion returns the question at the current index, or nil before
// the first question is asked.
func (s *Snapshot) CurrentQuestion() *model.InterviewQuestion {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return nil
	}
	q := s.Questions[s.CurrentQuestionIndex]
	return &q
}

// CurrentCorrection returns the front of the correction queue, or "" when
// the queue is empty.
func (s *Snapshot) CurrentCorrection() validation.Field {
	if len(s.CorrectionQueue) == 0 {
		return ""
	}
	return s.CorrectionQueue[0]
}

// LastMessage returns the most recent transcript entry, or nil when empty
func (s *Snapshot) LastMessage() *model.ChatMessage {
	if len(s.Messages) == 0 {
		return nil
	}
	m := s.Messages[len(s.Messages)-1]
	return &m
}

// Store holds the state of the single active interview session behind a
// mutex and exposes only named transition operations. There is one logical
// writer (the orchestration flow); reads take snapshots.
type Store struct {
	mu    sync.Mutex
	state Snapshot
}

// NewStore creates a store in its initial idle state
func NewStore() *Store {
	s := &Store{}
	s.state = initialState()
	return s
}

func initialState() Snapshot {
	return Snapshot{
		Status:               StatusIdle,
		CandidateDetails:     model.CandidateDetails{},
		Messages:             []model.ChatMessage{},
		CorrectionQueue:      []validation.Field{},
		Questions:            []model.InterviewQuestion{},
		CurrentQuestionIndex: -1,
		TimerActive:          false,
		RemainingTime:        0,
		Draft:                "",
		TotalScore:           nil,
		FinalSummary:         nil,
	}
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *Store) copyLocked() Snapshot {
	cp := s.state
	cp.Messages = append([]model.ChatMessage(nil), s.state.Messages...)
	cp.CorrectionQueue = append([]validation.Field(nil), s.state.CorrectionQueue...)
	cp.Questions = append([]model.InterviewQuestion(nil), s.state.Questions...)
	return cp
}

// SetCandidateDetails merges the non-nil fields of the patch
func (s *Store) SetCandidateDetails(p model.DetailsPatch) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CandidateDetails.Merge(p)
	return s.copyLocked()
}

// SetStatus moves the session to the given lifecycle state
func (s *Store) SetStatus(status Status) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = status
	return s.copyLocked()
}

// Status returns the current lifecycle state
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status
}

// AddMessage appends one transcript entry
func (s *Store) AddMessage(sender model.Sender, text string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Messages = append(s.state.Messages, model.ChatMessage{Sender: sender, Text: text})
	return s.copyLocked()
}

// StartCorrectionFlow seeds the correction queue
func (s *Store) StartCorrectionFlow(fields []validation.Field) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CorrectionQueue = append([]validation.Field(nil), fields...)
	return s.copyLocked()
}

// ProcessNextCorrection pops the front of the correction queue
func (s *Store) ProcessNextCorrection() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.state.CorrectionQueue) > 0 {
		s.state.CorrectionQueue = s.state.CorrectionQueue[1:]
	}
	return s.copyLocked()
}

// StartInterview records the first question, moves the index to 0 and
// appends the question text as an AI message.
func (s *Store) StartInterview(q model.InterviewQuestion) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Questions = append(s.state.Questions, q)
	s.state.CurrentQuestionIndex = 0
	s.state.Messages = append(s.state.Messages, model.ChatMessage{Sender: model.SenderAI, Text: q.Text})
	return s.copyLocked()
}

// SaveAnswerAndScore records the evaluation of the current question. The
// question is mutated exactly once; the call is a no-op before the first
// question is asked.
func (s *Store) SaveAnswerAndScore(answer string, score int, justification string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.state.CurrentQuestionIndex; idx >= 0 && idx < len(s.state.Questions) {
		s.state.Questions[idx].Answer = model.StringPtr(answer)
		s.state.Questions[idx].Score = model.IntPtr(score)
		s.state.Questions[idx].Justification = model.StringPtr(justification)
	}
	return s.copyLocked()
}

// AskNextQuestion appends the next question, advances the index and appends
// the question text as an AI message.
func (s *Store) AskNextQuestion(q model.InterviewQuestion) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Questions = append(s.state.Questions, q)
	s.state.CurrentQuestionIndex++
	s.state.Messages = append(s.state.Messages, model.ChatMessage{Sender: model.SenderAI, Text: q.Text})
	return s.copyLocked()
}

// EndInterview moves the session to finished, stops the timer, computes the
// total score (unscored questions count as 0) and appends the completion
// message. It returns the total.
func (s *Store) EndInterview() (Snapshot, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = StatusFinished
	s.state.TimerActive = false
	s.state.RemainingTime = 0
	total := 0
	for _, q := range s.state.Questions {
		if q.Score != nil {
			total += *q.Score
		}
	}
	s.state.TotalScore = model.IntPtr(total)
	completion := fmt.Sprintf(
		"The interview is now complete. Thank you for your time!\n\nYour final score is: %d / %d.",
		total, model.TotalQuestions*model.MaxQuestionScore)
	s.state.Messages = append(s.state.Messages, model.ChatMessage{Sender: model.SenderAI, Text: completion})
	return s.copyLocked(), total
}

// StartTimer arms the countdown with the given number of seconds
func (s *Store) StartTimer(seconds int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.TimerActive = true
	s.state.RemainingTime = seconds
	return s.copyLocked()
}

// TickTimer decrements the countdown by one second. It reports the seconds
// left and whether the timer is still armed.
func (s *Store) TickTimer() (remaining int, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.TimerActive && s.state.RemainingTime > 0 {
		s.state.RemainingTime--
	}
	return s.state.RemainingTime, s.state.TimerActive
}

// StopTimer disarms the countdown and clears the remaining time
func (s *Store) StopTimer() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.TimerActive = false
	s.state.RemainingTime = 0
	return s.copyLocked()
}

// SetDraft stores the candidate's in-progress input, used when the
// countdown expires before a manual submission.
func (s *Store) SetDraft(text string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Draft = text
	return s.copyLocked()
}

// TakeDraft returns the current draft and clears it
func (s *Store) TakeDraft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.state.Draft
	s.state.Draft = ""
	return d
}

// SetFinalSummary records the generated performance summary
func (s *Store) SetFinalSummary(summary string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.FinalSummary = model.StringPtr(summary)
	return s.copyLocked()
}

// Reset collapses the session back to its initial idle state from anywhere
func (s *Store) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = initialState()
	return s.copyLocked()
}

// Restore replaces the state with a persisted snapshot, used during
// rehydration on boot.
func (s *Store) Restore(snap Snapshot) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = snap
	if s.state.Messages == nil {
		s.state.Messages = []model.ChatMessage{}
	}
	if s.state.CorrectionQueue == nil {
		s.state.CorrectionQueue = []validation.Field{}
	}
	if s.state.Questions == nil {
		s.state.Questions = []model.InterviewQuestion{}
	}
	return s.copyLocked()
}
