package notification

import (
	"context"
	"fmt"

	"taskflow/internal/config"
	"taskflow/internal/logger"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Service sends reset email over SMTP when configured and falls back to
// console logging otherwise. SMS has no provider integration and is
// always console-logged.
type Service struct {
	smtp config.SMTPConfig
}

func NewService(cfg *config.Config) *Service {
	return &Service{smtp: cfg.SMTP}
}

func (s *Service) SendPasswordResetEmail(ctx context.Context, to, resetLink, resetCode string) error {
	if s.smtp.Host == "" || s.smtp.From == "" {
		logger.Info("Password reset email (console delivery)",
			zap.String("to", to),
			zap.String("reset_link", resetLink),
			zap.String("reset_code", resetCode),
		)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.smtp.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Password Reset Request")
	m.SetBody("text/html", buildResetEmailBody(resetLink, resetCode))

	d := gomail.NewDialer(s.smtp.Host, s.smtp.Port, s.smtp.User, s.smtp.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	logger.Info("Password reset email sent", zap.String("to", to))
	return nil
}

func (s *Service) SendPasswordResetSMS(ctx context.Context, phoneNumber, resetCode string) error {
	logger.Info("Password reset SMS (console delivery)",
		zap.String("to", phoneNumber),
		zap.String("message", fmt.Sprintf(
			"Your password reset code is: %s. Valid for 10 minutes. If you didn't request this, please ignore.",
			resetCode,
		)),
	)
	return nil
}

func buildResetEmailBody(resetLink, resetCode string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 600px; margin: 0 auto; padding: 16px;">
    <h2>Password Reset Request</h2>
    <p>You requested a password reset.</p>
    <p><strong>Reset Link:</strong> <a href="%s">%s</a></p>
    <p><strong>Reset Code:</strong> <code>%s</code></p>
    <p style="color: #6B7280; font-size: 14px;">This code expires in 10 minutes.
    If you didn't request this, please ignore this email.</p>
  </div>
</body>
</html>`, resetLink, resetLink, resetCode)
}
