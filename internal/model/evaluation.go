package model

// Evaluation is the scoring result for one submitted answer
type Evaluation struct {
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}
