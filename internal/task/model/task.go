package model

import (
	"time"

	userModel "taskflow/internal/user/model"

	"github.com/google/uuid"
)

// Task is an owner-scoped record: only the owning user or an admin may
// read or mutate it. The User association exists for the cascade foreign
// key and for surfacing the owner's email in admin listings.
type Task struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string          `gorm:"size:100;not null" json:"title"`
	Description *string         `json:"description,omitempty"`
	Completed   bool            `gorm:"not null;default:false" json:"completed"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *userModel.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
