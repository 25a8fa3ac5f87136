package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupeetasks/taskbot/internal/model"
	"github.com/rupeetasks/taskbot/internal/session"
)

type fakeRepo struct {
	users       map[string]*model.User
	tasks       map[string]model.Task
	submissions []model.Submission
	withdrawals []model.WithdrawalRequest

	createUserCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: make(map[string]*model.User),
		tasks: make(map[string]model.Task),
	}
}

func (f *fakeRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (f *fakeRepo) CreateUser(_ context.Context, user *model.User) error {
	f.createUserCalls++
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeRepo) IncrementTotalPending(_ context.Context, userID string) error {
	u, ok := f.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.TotalPending++
	return nil
}

func (f *fakeRepo) DeductBalance(_ context.Context, userID string, amount int64) error {
	u, ok := f.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	if u.Balance < amount {
		return model.ErrInsufficientBalance
	}
	u.Balance -= amount
	return nil
}

func (f *fakeRepo) ListTasks(_ context.Context) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (f *fakeRepo) GetTask(_ context.Context, id string) (*model.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeRepo) CreateSubmission(_ context.Context, submission *model.Submission) error {
	f.submissions = append(f.submissions, *submission)
	return nil
}

func (f *fakeRepo) ListSubmissionsByUser(_ context.Context, userID string) ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range f.submissions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateWithdrawal(_ context.Context, request *model.WithdrawalRequest) error {
	f.withdrawals = append(f.withdrawals, *request)
	return nil
}

func newTestBoard() (*TaskBoard, *fakeRepo) {
	repo := newFakeRepo()
	return NewTaskBoard(repo, session.NewMemoryStore()), repo
}

func TestEnsureUserFirstContact(t *testing.T) {
	board, repo := newTestBoard()

	user, err := board.EnsureUser(context.Background(), "42", "tester")
	require.NoError(t, err)
	assert.Equal(t, "42", user.ID)
	assert.Equal(t, "tester", user.Username)
	assert.Zero(t, user.Balance)
	assert.Zero(t, user.TotalDone)
	assert.Zero(t, user.TotalPending)
	assert.Equal(t, 1, repo.createUserCalls)
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	board, repo := newTestBoard()

	_, err := board.EnsureUser(context.Background(), "42", "tester")
	require.NoError(t, err)
	repo.users["42"].Balance = 150

	user, err := board.EnsureUser(context.Background(), "42", "renamed")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.createUserCalls, "second start must not overwrite the record")
	assert.Equal(t, int64(150), user.Balance)
	assert.Equal(t, "tester", user.Username)
}

func TestStartSubmissionUnknownTask(t *testing.T) {
	board, _ := newTestBoard()

	err := board.StartSubmission(context.Background(), "42", "missing")
	assert.ErrorIs(t, err, model.ErrTaskNotFound)
	assert.Equal(t, session.FlowNone, board.ActiveFlow("42"))
}

func TestSubmitProofFlow(t *testing.T) {
	board, repo := newTestBoard()
	repo.tasks["task-1"] = model.Task{ID: "task-1", Title: "Install app", Reward: 25}
	_, err := board.EnsureUser(context.Background(), "42", "tester")
	require.NoError(t, err)

	require.NoError(t, board.StartSubmission(context.Background(), "42", "task-1"))
	assert.Equal(t, session.FlowAwaitingProof, board.ActiveFlow("42"))

	submission, err := board.SubmitProof(context.Background(), "42", "screenshot-file-id")
	require.NoError(t, err)
	assert.NotEmpty(t, submission.ID)
	assert.Equal(t, "task-1", submission.TaskID)
	assert.Equal(t, "screenshot-file-id", submission.Proof)
	assert.Equal(t, model.StatusPending, submission.Status)

	require.Len(t, repo.submissions, 1)
	assert.Equal(t, 1, repo.users["42"].TotalPending)

	// The flow is over: a later message must not be treated as proof.
	assert.Equal(t, session.FlowNone, board.ActiveFlow("42"))
	_, err = board.SubmitProof(context.Background(), "42", "stray message")
	assert.ErrorIs(t, err, ErrWrongFlow)
	assert.Len(t, repo.submissions, 1)
}

func TestStartWithdrawalReplacesProofFlow(t *testing.T) {
	board, repo := newTestBoard()
	repo.tasks["task-1"] = model.Task{ID: "task-1"}

	require.NoError(t, board.StartSubmission(context.Background(), "42", "task-1"))
	board.StartWithdrawal("42")

	assert.Equal(t, session.FlowAwaitingAmount, board.ActiveFlow("42"))
	_, err := board.SubmitProof(context.Background(), "42", "too late")
	assert.ErrorIs(t, err, ErrWrongFlow)
}

func TestEnterAmount(t *testing.T) {
	tests := []struct {
		name     string
		balance  int64
		input    string
		wantErr  error
		wantFlow session.Flow
	}{
		{
			name:     "non-numeric input keeps the flow for a retry",
			balance:  200,
			input:    "abc",
			wantErr:  ErrInvalidAmount,
			wantFlow: session.FlowAwaitingAmount,
		},
		{
			name:     "below minimum resets the flow",
			balance:  200,
			input:    "30",
			wantErr:  ErrBelowMinimum,
			wantFlow: session.FlowNone,
		},
		{
			name:     "over balance resets the flow",
			balance:  20,
			input:    "100",
			wantErr:  model.ErrInsufficientBalance,
			wantFlow: session.FlowNone,
		},
		{
			name:     "valid amount advances to the UPI step",
			balance:  200,
			input:    "100",
			wantErr:  nil,
			wantFlow: session.FlowAwaitingUPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, repo := newTestBoard()
			_, err := board.EnsureUser(context.Background(), "42", "tester")
			require.NoError(t, err)
			repo.users["42"].Balance = tt.balance

			board.StartWithdrawal("42")
			err = board.EnterAmount(context.Background(), "42", tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantFlow, board.ActiveFlow("42"))
		})
	}
}

func TestEnterAmountRetryAfterParseError(t *testing.T) {
	board, repo := newTestBoard()
	_, err := board.EnsureUser(context.Background(), "42", "tester")
	require.NoError(t, err)
	repo.users["42"].Balance = 200

	board.StartWithdrawal("42")
	assert.ErrorIs(t, board.EnterAmount(context.Background(), "42", "abc"), ErrInvalidAmount)

	// The next numeric input is still evaluated against the same intent.
	require.NoError(t, board.EnterAmount(context.Background(), "42", "100"))
	assert.Equal(t, session.FlowAwaitingUPI, board.ActiveFlow("42"))
}

func TestEnterUPICreatesRequestAndDeducts(t *testing.T) {
	board, repo := newTestBoard()
	_, err := board.EnsureUser(context.Background(), "42", "tester")
	require.NoError(t, err)
	repo.users["42"].Balance = 200

	board.StartWithdrawal("42")
	require.NoError(t, board.EnterAmount(context.Background(), "42", "100"))

	request, err := board.EnterUPI(context.Background(), "42", "user@upi")
	require.NoError(t, err)
	assert.NotEmpty(t, request.ID)
	assert.Equal(t, int64(100), request.Amount)
	assert.Equal(t, "user@upi", request.UPI)
	assert.Equal(t, model.StatusPending, request.Status)

	require.Len(t, repo.withdrawals, 1)
	assert.Equal(t, int64(100), repo.users["42"].Balance)
	assert.Equal(t, session.FlowNone, board.ActiveFlow("42"))
}

func TestEnterUPIBalanceChangedSinceAmount(t *testing.T) {
	board, repo := newTestBoard()
	_, err := board.EnsureUser(context.Background(), "42", "tester")
	require.NoError(t, err)
	repo.users["42"].Balance = 200

	board.StartWithdrawal("42")
	require.NoError(t, board.EnterAmount(context.Background(), "42", "100"))

	// Balance drops between the amount check and the terminal step.
	repo.users["42"].Balance = 40

	_, err = board.EnterUPI(context.Background(), "42", "user@upi")
	assert.ErrorIs(t, err, model.ErrInsufficientBalance)
	assert.Empty(t, repo.withdrawals)
	assert.Equal(t, session.FlowNone, board.ActiveFlow("42"))
}

func TestWalletUnknownUser(t *testing.T) {
	board, _ := newTestBoard()

	_, err := board.Wallet(context.Background(), "42")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestStats(t *testing.T) {
	board, repo := newTestBoard()
	repo.submissions = []model.Submission{
		{UserID: "42", Status: model.StatusPending},
		{UserID: "42", Status: model.StatusApproved},
		{UserID: "42", Status: model.StatusApproved},
		{UserID: "42", Status: model.StatusRejected},
		{UserID: "7", Status: model.StatusPending},
	}

	stats, err := board.Stats(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, SubmissionStats{Pending: 1, Approved: 2, Rejected: 1}, stats)
	assert.Equal(t, 4, stats.Total())
}
