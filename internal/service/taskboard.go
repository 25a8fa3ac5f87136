package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rupeetasks/taskbot/internal/model"
	"github.com/rupeetasks/taskbot/internal/session"
)

var (
	// ErrInvalidAmount is returned for withdrawal input that is not a whole
	// number. The flow is kept so the user can retry without starting over.
	ErrInvalidAmount = errors.New("amount is not a valid number")
	// ErrBelowMinimum is returned for amounts under model.MinWithdrawAmount.
	ErrBelowMinimum = errors.New("amount below minimum withdrawal")
	// ErrWrongFlow is returned when a flow step is invoked for a user whose
	// session is not at that step.
	ErrWrongFlow = errors.New("no matching flow in progress")
)

// TaskBoard coordinates tasks, submissions and withdrawals over the document
// store, and owns every conversation state transition.
type TaskBoard struct {
	repo     Repository
	sessions session.Store
}

// Repository defines the document store operations the service needs.
// GetUser and GetTask return nil (with a nil error) when the document does
// not exist; callers must handle the missing case.
type Repository interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	IncrementTotalPending(ctx context.Context, userID string) error
	DeductBalance(ctx context.Context, userID string, amount int64) error
	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	CreateSubmission(ctx context.Context, submission *model.Submission) error
	ListSubmissionsByUser(ctx context.Context, userID string) ([]model.Submission, error)
	CreateWithdrawal(ctx context.Context, request *model.WithdrawalRequest) error
}

func NewTaskBoard(repo Repository, sessions session.Store) *TaskBoard {
	return &TaskBoard{
		repo:     repo,
		sessions: sessions,
	}
}

// EnsureUser creates the user document on first contact. Calling it again for
// an existing user is a no-op and returns the stored record unchanged.
func (s *TaskBoard) EnsureUser(ctx context.Context, userID, username string) (*model.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &model.User{
		ID:       userID,
		Username: username,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *TaskBoard) Tasks(ctx context.Context) ([]model.Task, error) {
	return s.repo.ListTasks(ctx)
}

func (s *TaskBoard) Submissions(ctx context.Context, userID string) ([]model.Submission, error) {
	return s.repo.ListSubmissionsByUser(ctx, userID)
}

// Wallet returns the user's balance record. A missing user is reported as
// model.ErrUserNotFound rather than assumed to exist.
func (s *TaskBoard) Wallet(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// ActiveFlow reports which flow, if any, the user is in the middle of.
func (s *TaskBoard) ActiveFlow(userID string) session.Flow {
	sess, ok := s.sessions.Get(userID)
	if !ok {
		return session.FlowNone
	}
	return sess.Flow
}

// StartSubmission begins the proof flow for the given task. Any other flow in
// progress for the user is discarded.
func (s *TaskBoard) StartSubmission(ctx context.Context, userID, taskID string) error {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return model.ErrTaskNotFound
	}

	s.sessions.Set(userID, session.Session{
		Flow:   session.FlowAwaitingProof,
		TaskID: taskID,
	})
	return nil
}

// SubmitProof records the proof for the task the user is submitting, bumps
// the user's pending counter and ends the flow.
func (s *TaskBoard) SubmitProof(ctx context.Context, userID, proof string) (*model.Submission, error) {
	sess, ok := s.sessions.Get(userID)
	if !ok || sess.Flow != session.FlowAwaitingProof {
		return nil, ErrWrongFlow
	}

	submission := &model.Submission{
		UserID: userID,
		TaskID: sess.TaskID,
		Proof:  proof,
		Status: model.StatusPending,
	}
	submission.GenerateID()

	if err := s.repo.CreateSubmission(ctx, submission); err != nil {
		return nil, err
	}
	if err := s.repo.IncrementTotalPending(ctx, userID); err != nil {
		return nil, fmt.Errorf("submission %s stored but counter not bumped: %w", submission.ID, err)
	}

	s.sessions.Clear(userID)
	return submission, nil
}

// StartWithdrawal begins the withdrawal flow, discarding any other flow.
func (s *TaskBoard) StartWithdrawal(userID string) {
	s.sessions.Set(userID, session.Session{
		Flow: session.FlowAwaitingAmount,
	})
}

// EnterAmount validates the withdrawal amount. Unparseable input keeps the
// flow alive for a retry; every other rejection resets the flow to idle.
func (s *TaskBoard) EnterAmount(ctx context.Context, userID, text string) error {
	sess, ok := s.sessions.Get(userID)
	if !ok || sess.Flow != session.FlowAwaitingAmount {
		return ErrWrongFlow
	}

	amount, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return ErrInvalidAmount
	}

	if amount < model.MinWithdrawAmount {
		s.sessions.Clear(userID)
		return ErrBelowMinimum
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		s.sessions.Clear(userID)
		return err
	}
	if user == nil {
		s.sessions.Clear(userID)
		return model.ErrUserNotFound
	}
	if user.Balance < amount {
		s.sessions.Clear(userID)
		return model.ErrInsufficientBalance
	}

	s.sessions.Set(userID, session.Session{
		Flow:   session.FlowAwaitingUPI,
		Amount: amount,
	})
	return nil
}

// EnterUPI finishes the withdrawal flow: the amount is deducted with a
// conditional update (so a balance change since EnterAmount is caught here)
// and the request is stored as pending. The UPI ID is taken verbatim.
func (s *TaskBoard) EnterUPI(ctx context.Context, userID, upi string) (*model.WithdrawalRequest, error) {
	sess, ok := s.sessions.Get(userID)
	if !ok || sess.Flow != session.FlowAwaitingUPI {
		return nil, ErrWrongFlow
	}

	if err := s.repo.DeductBalance(ctx, userID, sess.Amount); err != nil {
		s.sessions.Clear(userID)
		return nil, err
	}

	request := &model.WithdrawalRequest{
		UserID: userID,
		Amount: sess.Amount,
		UPI:    upi,
		Status: model.StatusPending,
	}
	request.GenerateID()

	if err := s.repo.CreateWithdrawal(ctx, request); err != nil {
		s.sessions.Clear(userID)
		return nil, err
	}

	s.sessions.Clear(userID)
	return request, nil
}

// SubmissionStats counts a user's submissions by status.
type SubmissionStats struct {
	Pending  int
	Approved int
	Rejected int
}

func (st SubmissionStats) Total() int {
	return st.Pending + st.Approved + st.Rejected
}

func (s *TaskBoard) Stats(ctx context.Context, userID string) (SubmissionStats, error) {
	submissions, err := s.repo.ListSubmissionsByUser(ctx, userID)
	if err != nil {
		return SubmissionStats{}, err
	}

	var stats SubmissionStats
	for _, sub := range submissions {
		switch sub.Status {
		case model.StatusApproved:
			stats.Approved++
		case model.StatusRejected:
			stats.Rejected++
		default:
			stats.Pending++
		}
	}
	return stats, nil
}
