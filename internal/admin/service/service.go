package service

import (
	"context"
	"math"

	"taskflow/internal/logger"
	userModel "taskflow/internal/user/model"
	appErrors "taskflow/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserRepository is the slice of user persistence the admin flow needs.
type UserRepository interface {
	ListWithTaskCounts(ctx context.Context) ([]*userModel.AdminUserResponse, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*userModel.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// TaskCounter exposes the aggregate task counts behind the stats endpoint.
type TaskCounter interface {
	Count(ctx context.Context) (int64, error)
	CountCompleted(ctx context.Context) (int64, error)
}

// Stats is the aggregate snapshot returned by the stats endpoint.
type Stats struct {
	TotalUsers     int64 `json:"total_users"`
	TotalTasks     int64 `json:"total_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
	PendingTasks   int64 `json:"pending_tasks"`
	CompletionRate int   `json:"completion_rate"`
}

type AdminService struct {
	users UserRepository
	tasks TaskCounter
}

func NewService(users UserRepository, tasks TaskCounter) *AdminService {
	return &AdminService{users: users, tasks: tasks}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*userModel.AdminUserResponse, error) {
	return s.users.ListWithTaskCounts(ctx)
}

// DeleteUser removes a user and, through the cascade constraint, their
// tasks. Admins cannot delete their own account.
func (s *AdminService) DeleteUser(ctx context.Context, caller *userModel.User, userID uuid.UUID) error {
	if userID == caller.ID {
		return appErrors.ErrSelfDeletion
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	logger.Info("User deleted by admin",
		zap.String("user_id", userID.String()),
		zap.String("admin_id", caller.ID.String()),
		zap.String("event", "user_deleted"),
	)
	return nil
}

// GetStats aggregates user and task counts. The completion rate is 0 when
// there are no tasks.
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalTasks, err := s.tasks.Count(ctx)
	if err != nil {
		return nil, err
	}

	completedTasks, err := s.tasks.CountCompleted(ctx)
	if err != nil {
		return nil, err
	}

	rate := 0
	if totalTasks > 0 {
		rate = int(math.Round(float64(completedTasks) / float64(totalTasks) * 100))
	}

	return &Stats{
		TotalUsers:     totalUsers,
		TotalTasks:     totalTasks,
		CompletedTasks: completedTasks,
		PendingTasks:   totalTasks - completedTasks,
		CompletionRate: rate,
	}, nil
}
