package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the credential store record. ResetCode and ResetCodeExpires are
// both set or both null: they are written together by forgot-password and
// cleared together when a reset succeeds.
type User struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber      *string    `gorm:"uniqueIndex" json:"phone_number,omitempty"`
	PasswordHashed   string     `gorm:"not null" json:"-"`
	Role             string     `gorm:"not null;default:user" json:"role"`
	ResetCode        *string    `gorm:"size:6" json:"-"`
	ResetCodeExpires *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
