package model

// User is a document in the "users" collection, keyed by the Telegram user ID.
// It is created on first contact and never deleted.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Balance      int64  `json:"balance"`
	TotalDone    int    `json:"total_done"`
	TotalPending int    `json:"total_pending"`
}
