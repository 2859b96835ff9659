package model

// Difficulty is the difficulty level of an interview question
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TotalQuestions is the fixed number of questions per interview
const TotalQuestions = 6

// MaxQuestionScore is the per-question scoring ceiling
const MaxQuestionScore = 10

// QuestionPlan is the fixed difficulty sequence for a full interview
var QuestionPlan = [TotalQuestions]Difficulty{
	DifficultyEasy, DifficultyEasy,
	DifficultyMedium, DifficultyMedium,
	DifficultyHard, DifficultyHard,
}

// IsValid reports whether d is one of the three known difficulty levels
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// TimeLimitSeconds returns the answer time limit for the difficulty
func (d Difficulty) TimeLimitSeconds() int {
	switch d {
	case DifficultyEasy:
		return 20
	case DifficultyMedium:
		return 60
	case DifficultyHard:
		return 120
	}
	return 0
}

// InterviewQuestion is one question of a session. It is created when the
// question text is fetched and mutated exactly once when its answer is
// scored; Answer, Score and Justification stay nil until then.
type InterviewQuestion struct {
	Text          string     `json:"text" bson:"text"`
	Difficulty    Difficulty `json:"difficulty" bson:"difficulty"`
	Answer        *string    `json:"answer" bson:"answer,omitempty"`
	Score         *int       `json:"score" bson:"score,omitempty"`
	Justification *string    `json:"justification" bson:"justification,omitempty"`
}
