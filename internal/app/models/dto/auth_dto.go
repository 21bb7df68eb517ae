package dto

// SignUpRequest represents the sign-up form fields
type SignUpRequest struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// SignInRequest represents the sign-in form fields
type SignInRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// ForgotPasswordRequest represents the forgot-password form fields
type ForgotPasswordRequest struct {
	Email string `form:"email" binding:"required,email"`
}

// ResetPasswordRequest represents the reset-password form fields.
// The token itself travels in the URL path, not the body.
type ResetPasswordRequest struct {
	Password string `form:"password" binding:"required"`
}
