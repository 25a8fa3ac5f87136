// Package session tracks per-user conversation state for multi-step flows.
// State lives only for the lifetime of the process; an abandoned flow is
// simply overwritten the next time the user starts one.
package session

// Flow identifies which multi-step conversation a user is in the middle of.
type Flow int

const (
	// FlowNone means no conversation is in progress.
	FlowNone Flow = iota
	// FlowAwaitingProof means the next message is proof for Session.TaskID.
	FlowAwaitingProof
	// FlowAwaitingAmount means the next message is a withdrawal amount.
	FlowAwaitingAmount
	// FlowAwaitingUPI means the next message is the UPI ID for Session.Amount.
	FlowAwaitingUPI
)

// Session is the state collected so far for a user's active flow.
// A user has at most one active flow: starting a new one replaces this record.
type Session struct {
	Flow   Flow
	TaskID string
	Amount int64
}

// Store holds sessions keyed by the platform user ID.
type Store interface {
	Get(userID string) (Session, bool)
	Set(userID string, s Session)
	Clear(userID string)
}
