package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/rupeetasks/taskbot/internal/model"
)

// casRetries bounds the optimistic-update loops below. Counter bumps and
// balance deductions are guarded by an equality filter on the old value, so a
// concurrent writer shows up as zero updated rows and we re-read and retry.
const casRetries = 3

type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(url, key string) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, err
	}

	return &SupabaseRepository{
		client: client,
	}, nil
}

// GetUser returns the user document, or nil when no such user exists.
func (r *SupabaseRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	data, _, err := r.client.From("users").
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (r *SupabaseRepository) CreateUser(ctx context.Context, user *model.User) error {
	_, _, err := r.client.From("users").Insert(user, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	zap.L().Debug("user created", zap.String("user_id", user.ID))
	return nil
}

// IncrementTotalPending bumps the user's pending counter by one. The update is
// conditional on the counter still holding the value we read.
func (r *SupabaseRepository) IncrementTotalPending(ctx context.Context, userID string) error {
	for attempt := 0; attempt < casRetries; attempt++ {
		user, err := r.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return model.ErrUserNotFound
		}

		updated, err := r.updateUserWhere(userID,
			map[string]interface{}{"total_pending": user.TotalPending + 1},
			"total_pending", strconv.Itoa(user.TotalPending))
		if err != nil {
			return err
		}
		if updated {
			return nil
		}
	}
	return fmt.Errorf("increment total_pending for user %s: %w", userID, model.ErrConflict)
}

// DeductBalance subtracts amount from the user's balance if and only if the
// balance covers it at the moment of the update.
func (r *SupabaseRepository) DeductBalance(ctx context.Context, userID string, amount int64) error {
	for attempt := 0; attempt < casRetries; attempt++ {
		user, err := r.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return model.ErrUserNotFound
		}
		if user.Balance < amount {
			return model.ErrInsufficientBalance
		}

		updated, err := r.updateUserWhere(userID,
			map[string]interface{}{"balance": user.Balance - amount},
			"balance", strconv.FormatInt(user.Balance, 10))
		if err != nil {
			return err
		}
		if updated {
			return nil
		}
	}
	return fmt.Errorf("deduct balance for user %s: %w", userID, model.ErrConflict)
}

// updateUserWhere applies changes to the user row guarded by an extra equality
// filter and reports whether any row was actually updated.
func (r *SupabaseRepository) updateUserWhere(userID string, changes map[string]interface{}, guardCol, guardVal string) (bool, error) {
	data, _, err := r.client.From("users").
		Update(changes, "representation", "").
		Eq("id", userID).
		Eq(guardCol, guardVal).
		Execute()
	if err != nil {
		return false, fmt.Errorf("failed to update user: %w", err)
	}

	var updated []model.User
	if err := json.Unmarshal(data, &updated); err != nil {
		return false, fmt.Errorf("failed to parse updated user: %w", err)
	}
	return len(updated) > 0, nil
}

func (r *SupabaseRepository) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	data, _, err := r.client.From("tasks").
		Select("*", "", false).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}

	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns the task document, or nil when no such task exists.
func (r *SupabaseRepository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	data, _, err := r.client.From("tasks").
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse task: %w", err)
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return &tasks[0], nil
}

func (r *SupabaseRepository) CreateSubmission(ctx context.Context, submission *model.Submission) error {
	_, _, err := r.client.From("submissions").Insert(submission, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	zap.L().Debug("submission created",
		zap.String("submission_id", submission.ID),
		zap.String("user_id", submission.UserID),
		zap.String("task_id", submission.TaskID),
	)
	return nil
}

func (r *SupabaseRepository) ListSubmissionsByUser(ctx context.Context, userID string) ([]model.Submission, error) {
	var submissions []model.Submission
	data, _, err := r.client.From("submissions").
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}

	if err := json.Unmarshal(data, &submissions); err != nil {
		return nil, fmt.Errorf("failed to parse submissions: %w", err)
	}
	return submissions, nil
}

func (r *SupabaseRepository) CreateWithdrawal(ctx context.Context, request *model.WithdrawalRequest) error {
	_, _, err := r.client.From("withdraw_requests").Insert(request, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create withdrawal request: %w", err)
	}
	zap.L().Debug("withdrawal request created",
		zap.String("request_id", request.ID),
		zap.String("user_id", request.UserID),
		zap.Int64("amount", request.Amount),
	)
	return nil
}
