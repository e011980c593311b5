package notification

import "context"

// Notifier dispatches password-reset messages over an out-of-band
// channel. Dispatch is fire-and-forget from the caller's point of view:
// the auth flow logs failures but never surfaces them, so a requester
// cannot learn whether a contact address is deliverable.
type Notifier interface {
	SendPasswordResetEmail(ctx context.Context, to, resetLink, resetCode string) error
	SendPasswordResetSMS(ctx context.Context, phoneNumber, resetCode string) error
}
