package model

type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	Role        string  `json:"role" validate:"omitempty,user_role"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest selects the out-of-band channel: "email" sends a
// signed reset link plus the code, "sms" sends the code alone.
type ForgotPasswordRequest struct {
	Method  string `json:"method" validate:"required"`
	Contact string `json:"contact" validate:"required"`
}

// ResetPasswordRequest carries one of two proofs: a signed token paired
// with the account email, or the short numeric code from the SMS path.
type ResetPasswordRequest struct {
	Code        string `json:"code"`
	Token       string `json:"token"`
	Email       string `json:"email"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}
