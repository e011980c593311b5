package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/logger"
	"taskflow/internal/notification"
	"taskflow/internal/user/model"
	appErrors "taskflow/pkg/errors"
	"taskflow/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	resetMethodEmail = "email"
	resetMethodSMS   = "sms"

	resetCodeTTL = 10 * time.Minute
)

// Repository is the slice of user persistence the auth flow needs.
type Repository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	SetResetCode(ctx context.Context, userID uuid.UUID, code string, expires time.Time) error
	GetByActiveResetCode(ctx context.Context, code string) (*model.User, error)
	ConsumeResetCode(ctx context.Context, userID uuid.UUID, code, passwordHash string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

type UserService struct {
	repo     Repository
	notifier notification.Notifier
	config   *config.Config
}

func NewService(repo Repository, notifier notification.Notifier, cfg *config.Config) *UserService {
	return &UserService{
		repo:     repo,
		notifier: notifier,
		config:   cfg,
	}
}

func (s *UserService) Register(ctx context.Context, request *model.RegisterRequest) (*model.AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	existingUser, err := s.repo.GetByEmail(ctx, request.Email)
	if err != nil && !errors.Is(err, appErrors.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		logger.Warn("Registration attempt with existing email",
			zap.String("email", request.Email),
			zap.String("event", "registration_failed_duplicate_email"),
		)
		return nil, appErrors.ErrEmailExists
	}

	if request.PhoneNumber != nil && *request.PhoneNumber != "" {
		existingPhone, err := s.repo.GetByPhone(ctx, *request.PhoneNumber)
		if err != nil && !errors.Is(err, appErrors.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to check existing phone: %w", err)
		}
		if existingPhone != nil {
			return nil, appErrors.ErrPhoneExists
		}
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Only an explicit admin request yields the elevated role.
	role := model.RoleUser
	if request.Role == model.RoleAdmin {
		role = model.RoleAdmin
	}

	user := &model.User{
		Email:          request.Email,
		PhoneNumber:    request.PhoneNumber,
		PasswordHashed: hashedPassword,
		Role:           role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, s.config.JWT.Secret, s.config.JWT.ExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", user.Role),
		zap.String("event", "user_registered"),
	)

	return &model.AuthResponse{
		User:  user.ToResponse(),
		Token: token,
	}, nil
}

func (s *UserService) Login(ctx context.Context, request *model.LoginRequest) (*model.AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	// Unknown email and wrong password share one error so the endpoint
	// cannot be used to enumerate accounts.
	user, err := s.repo.GetByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, appErrors.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHashed, request.Password) {
		logger.Warn("Login failed",
			zap.String("email", request.Email),
			zap.String("event", "login_failed"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, s.config.JWT.Secret, s.config.JWT.ExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.AuthResponse{
		User:  user.ToResponse(),
		Token: token,
	}, nil
}

// ForgotPassword issues a signed reset token (email links) and a 6-digit
// code with a 10-minute expiry, persists the code, and dispatches it over
// the chosen channel. Outside production the token or code is echoed in
// the result for development convenience.
func (s *UserService) ForgotPassword(ctx context.Context, request *model.ForgotPasswordRequest) (*model.ForgotPasswordResult, error) {
	if request.Contact == "" {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Contact information is required", nil)
	}

	var (
		user *model.User
		err  error
	)
	switch request.Method {
	case resetMethodEmail:
		user, err = s.repo.GetByEmail(ctx, request.Contact)
	case resetMethodSMS:
		user, err = s.repo.GetByPhone(ctx, request.Contact)
	default:
		return nil, appErrors.ErrInvalidResetMethod
	}
	if err != nil {
		return nil, err
	}

	resetToken, err := utils.GenerateToken(user.ID, s.config.JWT.Secret, s.config.JWT.ExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reset token: %w", err)
	}

	resetCode, err := utils.GenerateResetCode()
	if err != nil {
		return nil, err
	}

	expires := time.Now().Add(resetCodeTTL)
	if err := s.repo.SetResetCode(ctx, user.ID, resetCode, expires); err != nil {
		return nil, err
	}

	result := &model.ForgotPasswordResult{}
	switch request.Method {
	case resetMethodEmail:
		resetLink := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
			s.config.Frontend.BaseURL, resetToken, url.QueryEscape(request.Contact))
		if err := s.notifier.SendPasswordResetEmail(ctx, request.Contact, resetLink, resetCode); err != nil {
			logger.Error("Failed to dispatch reset email",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
		}
		result.Message = "Reset link sent to your email"
		if !s.config.IsProduction() {
			result.ResetToken = resetToken
		}
	case resetMethodSMS:
		if err := s.notifier.SendPasswordResetSMS(ctx, request.Contact, resetCode); err != nil {
			logger.Error("Failed to dispatch reset SMS",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
		}
		result.Message = "Reset code sent to your phone"
		if !s.config.IsProduction() {
			result.ResetCode = resetCode
		}
	}

	logger.Info("Password reset issued",
		zap.String("user_id", user.ID.String()),
		zap.String("method", request.Method),
		zap.String("event", "password_reset_issued"),
	)

	return result, nil
}

// ResetPassword consumes one of the two reset proofs and sets the new
// password. Verification is dispatched to a strategy per proof kind.
func (s *UserService) ResetPassword(ctx context.Context, request *model.ResetPasswordRequest) error {
	if err := utils.ValidateStruct(request); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "New password is required", err)
	}

	verifier, err := s.selectResetVerifier(request)
	if err != nil {
		return err
	}

	user, err := verifier.verify(ctx)
	if err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := verifier.consume(ctx, user, hashedPassword); err != nil {
		return err
	}

	logger.Info("Password reset completed",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_reset_completed"),
	)

	return nil
}

// resetVerifier is one of two strategies proving a reset request: a
// signed token paired with the account email, or the stored numeric code.
type resetVerifier interface {
	verify(ctx context.Context) (*model.User, error)
	consume(ctx context.Context, user *model.User, passwordHash string) error
}

func (s *UserService) selectResetVerifier(request *model.ResetPasswordRequest) (resetVerifier, error) {
	switch {
	case request.Token != "" && request.Email != "":
		return &tokenReset{svc: s, token: request.Token, email: request.Email}, nil
	case request.Code != "":
		return &codeReset{svc: s, code: request.Code}, nil
	default:
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Code or token is required", nil)
	}
}

// tokenReset verifies the email-link path: the token must carry a valid
// signature and expiry, and the embedded identity's stored email must
// match the supplied one. The token is stateless, so consumption is a
// plain password update (which also clears any outstanding code).
type tokenReset struct {
	svc   *UserService
	token string
	email string
}

func (v *tokenReset) verify(ctx context.Context) (*model.User, error) {
	claims, err := utils.ValidateToken(v.token, v.svc.config.JWT.Secret)
	if err != nil {
		return nil, appErrors.ErrResetTokenInvalid
	}

	user, err := v.svc.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, appErrors.ErrUserNotFound) {
			return nil, appErrors.ErrResetTokenMismatch
		}
		return nil, err
	}
	if user.Email != v.email {
		return nil, appErrors.ErrResetTokenMismatch
	}

	return user, nil
}

func (v *tokenReset) consume(ctx context.Context, user *model.User, passwordHash string) error {
	return v.svc.repo.UpdatePassword(ctx, user.ID, passwordHash)
}

// codeReset verifies the SMS path: the stored code must match and its
// expiry must be strictly in the future. Consumption is a compare-and-
// clear update so a code is usable at most once even under concurrency.
type codeReset struct {
	svc  *UserService
	code string
}

func (v *codeReset) verify(ctx context.Context) (*model.User, error) {
	return v.svc.repo.GetByActiveResetCode(ctx, v.code)
}

func (v *codeReset) consume(ctx context.Context, user *model.User, passwordHash string) error {
	return v.svc.repo.ConsumeResetCode(ctx, user.ID, v.code, passwordHash)
}
