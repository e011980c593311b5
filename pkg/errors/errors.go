package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrUnauthorized            = errors.New("unauthorized access")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrForbidden               = errors.New("forbidden")

	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrPhoneExists     = errors.New("phone number already exists")
	ErrSelfDeletion    = errors.New("cannot delete your own account")
	ErrInvalidUserRole = errors.New("invalid user role")

	ErrTaskNotFound = errors.New("task not found")

	ErrInvalidResetMethod = errors.New("invalid method")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
	ErrResetTokenMismatch = errors.New("invalid reset token")
	ErrResetCodeInvalid   = errors.New("invalid or expired reset code")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
