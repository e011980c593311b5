package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskflow/internal/database"
	"taskflow/internal/task/model"
	appErrors "taskflow/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *database.Database
}

func NewRepository(db *database.Database) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	task.ID = uuid.New()
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()

	if err := r.db.DB.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// ListAll returns every task newest-first with the owner loaded, for
// admin visibility.
func (r *TaskRepository) ListAll(ctx context.Context) ([]*model.Task, error) {
	var tasks []*model.Task
	err := r.db.DB.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&tasks).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListByOwner returns the given user's tasks newest-first.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Task, error) {
	var tasks []*model.Task
	err := r.db.DB.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tasks).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, taskID uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.DB.WithContext(ctx).
		Preload("User").
		First(&task, "id = ?", taskID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"completed":   task.Completed,
			"updated_at":  task.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, taskID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Delete(&model.Task{}, "id = ?", taskID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.DB.WithContext(ctx).Model(&model.Task{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

func (r *TaskRepository) CountCompleted(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&model.Task{}).
		Where("completed = ?", true).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	return count, nil
}
