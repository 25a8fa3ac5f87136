package model

import "github.com/google/uuid"

// MinWithdrawAmount is the smallest amount (in rupees) a user may withdraw.
const MinWithdrawAmount = 50

// WithdrawalRequest is a document in the "withdraw_requests" collection.
// Requests are created with StatusPending; payout happens externally.
type WithdrawalRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
	UPI    string `json:"upi"`
	Status string `json:"status"`
}

// GenerateID assigns a new UUID if the request has no ID yet.
func (w *WithdrawalRequest) GenerateID() {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
}
