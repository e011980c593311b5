package service

import (
	"context"
	"strings"

	"taskflow/internal/policy"
	"taskflow/internal/task/model"
	userModel "taskflow/internal/user/model"
	appErrors "taskflow/pkg/errors"
	"taskflow/pkg/utils"

	"github.com/google/uuid"
)

// Repository is the slice of task persistence the CRUD flow needs.
type Repository interface {
	Create(ctx context.Context, task *model.Task) error
	ListAll(ctx context.Context) ([]*model.Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Task, error)
	GetByID(ctx context.Context, taskID uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, taskID uuid.UUID) error
}

type TaskService struct {
	repo Repository
}

func NewService(repo Repository) *TaskService {
	return &TaskService{repo: repo}
}

// List returns every task for admins and only the caller's tasks
// otherwise, newest-first.
func (s *TaskService) List(ctx context.Context, caller *userModel.User) ([]*model.TaskResponse, error) {
	var (
		tasks []*model.Task
		err   error
	)
	if caller.IsAdmin() {
		tasks, err = s.repo.ListAll(ctx)
	} else {
		tasks, err = s.repo.ListByOwner(ctx, caller.ID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]*model.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, task.ToResponse())
	}
	return responses, nil
}

func (s *TaskService) Get(ctx context.Context, caller *userModel.User, taskID uuid.UUID) (*model.TaskResponse, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(caller, task.UserID) {
		return nil, appErrors.ErrForbidden
	}
	return task.ToResponse(), nil
}

// Create stores a task owned by the caller. Ownership cannot be spoofed:
// the owner is always taken from the authenticated identity.
func (s *TaskService) Create(ctx context.Context, caller *userModel.User, request *model.CreateTaskRequest) (*model.TaskResponse, error) {
	request.Title = strings.TrimSpace(request.Title)
	if err := utils.ValidateStruct(request); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Title is required and must be under 100 chars", err)
	}

	task := &model.Task{
		Title:       request.Title,
		Description: request.Description,
		UserID:      caller.ID,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task.ToResponse(), nil
}

// Update applies a partial patch; fields absent from the request keep
// their prior values.
func (s *TaskService) Update(ctx context.Context, caller *userModel.User, taskID uuid.UUID, request *model.UpdateTaskRequest) (*model.TaskResponse, error) {
	if request.Title != nil {
		trimmed := strings.TrimSpace(*request.Title)
		if trimmed == "" {
			return nil, appErrors.NewAppError("VALIDATION_ERROR", "Title is required and must be under 100 chars", nil)
		}
		request.Title = &trimmed
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Title must be under 100 chars", err)
	}

	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(caller, task.UserID) {
		return nil, appErrors.ErrForbidden
	}

	if request.Title != nil {
		task.Title = *request.Title
	}
	if request.Description != nil {
		task.Description = request.Description
	}
	if request.Completed != nil {
		task.Completed = *request.Completed
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task.ToResponse(), nil
}

func (s *TaskService) Delete(ctx context.Context, caller *userModel.User, taskID uuid.UUID) error {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !policy.CanAccess(caller, task.UserID) {
		return appErrors.ErrForbidden
	}

	return s.repo.Delete(ctx, taskID)
}
