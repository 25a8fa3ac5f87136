package model

import "github.com/google/uuid"

// Submission statuses. The bot only ever writes StatusPending; the other two
// are set by the external review process.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission is a proof-of-completion document in the "submissions" collection.
type Submission struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
	Proof  string `json:"proof"`
	Status string `json:"status"`
}

// GenerateID assigns a new UUID if the submission has no ID yet.
func (s *Submission) GenerateID() {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
}
