package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskflow/internal/database"
	"taskflow/internal/user/model"
	appErrors "taskflow/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *database.Database
}

func NewRepository(db *database.Database) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := r.db.DB.WithContext(ctx).Create(user).Error; err != nil {
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "duplicate key") {
			if strings.Contains(errStr, "phone") {
				return appErrors.ErrPhoneExists
			}
			return appErrors.ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).Where("phone_number = ?", phone).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).First(&user, "id = ?", userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// SetResetCode stores the short numeric code and its absolute expiry,
// superseding any code issued earlier.
func (r *UserRepository) SetResetCode(ctx context.Context, userID uuid.UUID, code string, expires time.Time) error {
	result := r.db.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_code":         code,
			"reset_code_expires": expires,
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to store reset code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrUserNotFound
	}
	return nil
}

// GetByActiveResetCode finds the user holding the given code with an
// expiry strictly in the future. The lookup is code-driven, not
// email-driven.
func (r *UserRepository) GetByActiveResetCode(ctx context.Context, code string) (*model.User, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).
		Where("reset_code = ? AND reset_code_expires > ?", code, time.Now()).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrResetCodeInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up reset code: %w", err)
	}
	return &user, nil
}

// ConsumeResetCode writes the new password hash and clears the code and
// expiry in a single compare-and-clear update. If a concurrent reset
// consumed the code first, zero rows match and ErrResetCodeInvalid is
// returned.
func (r *UserRepository) ConsumeResetCode(ctx context.Context, userID uuid.UUID, code, passwordHash string) error {
	result := r.db.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND reset_code = ?", userID, code).
		Updates(map[string]interface{}{
			"password_hashed":    passwordHash,
			"reset_code":         nil,
			"reset_code_expires": nil,
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to consume reset code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrResetCodeInvalid
	}
	return nil
}

// UpdatePassword sets a new hash and clears any outstanding reset code.
// Used by the token path, which is verified cryptographically and does
// not depend on the stored code.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result := r.db.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hashed":    passwordHash,
			"reset_code":         nil,
			"reset_code_expires": nil,
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrUserNotFound
	}
	return nil
}

// ListWithTaskCounts returns all users newest-first with their task
// counts, for the admin listing. Password hashes and reset fields never
// leave this query.
func (r *UserRepository) ListWithTaskCounts(ctx context.Context) ([]*model.AdminUserResponse, error) {
	var users []*model.AdminUserResponse
	err := r.db.DB.WithContext(ctx).Model(&model.User{}).
		Select("users.id, users.email, users.phone_number, users.role, users.created_at, count(tasks.id) AS task_count").
		Joins("LEFT JOIN tasks ON tasks.user_id = users.id").
		Group("users.id").
		Order("users.created_at DESC").
		Scan(&users).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Delete(&model.User{}, "id = ?", userID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.DB.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
