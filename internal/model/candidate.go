package model

import "time"

// CandidateDetails holds the fields extracted from a resume. Fields are nil
// until extracted or confirmed by the candidate.
type CandidateDetails struct {
	Name  *string `json:"name" bson:"name,omitempty"`
	Email *string `json:"email" bson:"email,omitempty"`
	Phone *string `json:"phone" bson:"phone,omitempty"`
}

// DetailsPatch is a partial update of CandidateDetails; nil fields are left
// untouched when merged.
type DetailsPatch struct {
	Name  *string
	Email *string
	Phone *string
}

// Merge applies the non-nil fields of the patch
func (d *CandidateDetails) Merge(p DetailsPatch) {
	if p.Name != nil {
		d.Name = p.Name
	}
	if p.Email != nil {
		d.Email = p.Email
	}
	if p.Phone != nil {
		d.Phone = p.Phone
	}
}

// CandidateRecord is the immutable archive entry for one finished interview.
// ID and CompletedAt are synthesized by the archive when the record is added.
type CandidateRecord struct {
	ID           string              `json:"id" bson:"_id,omitempty"`
	Details      CandidateDetails    `json:"details" bson:"details"`
	Questions    []InterviewQuestion `json:"questions" bson:"questions"`
	TotalScore   *int                `json:"totalScore" bson:"totalScore,omitempty"`
	FinalSummary *string             `json:"finalSummary" bson:"finalSummary,omitempty"`
	CompletedAt  time.Time           `json:"completedAt" bson:"completedAt"`
}

// StringPtr returns a pointer to s. Convenience for the nullable fields above.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to n
func IntPtr(n int) *int { return &n }
