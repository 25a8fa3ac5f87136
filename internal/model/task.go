package model

// Task is a document in the "tasks" collection. Tasks are created by an
// external admin process; the bot only reads them.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Reward      int64  `json:"reward"`
}
