// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/unionhq/union/internal/app/models/dto"
	"github.com/unionhq/union/internal/app/services"
	"github.com/unionhq/union/internal/middleware"
	"github.com/unionhq/union/internal/pkg/apperrors"
)

// AuthController handles sign-up, sign-in, sign-out and the password-reset
// flow. Every failure is converted into a re-rendered view with a
// human-readable message; nothing propagates as an uncaught fault.
type AuthController struct {
	authService  *services.AuthService
	sessions     *services.SessionService
	cookieSecure bool
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, sessions *services.SessionService, cookieSecure bool, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:  authService,
		sessions:     sessions,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// Home renders the home page
func (c *AuthController) Home(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "home.tmpl", gin.H{})
}

// ShowSignUp renders the sign-up form
func (c *AuthController) ShowSignUp(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "signup.tmpl", gin.H{"error": nil})
}

// SignUp handles the sign-up form submission
func (c *AuthController) SignUp(ctx *gin.Context) {
	var req dto.SignUpRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid sign-up form")
		ctx.HTML(http.StatusBadRequest, "signup.tmpl", gin.H{"error": dto.BindingErrorMessage(err, "Name, email and password are required!")})
		return
	}

	_, err := c.authService.SignUp(ctx.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			ctx.HTML(http.StatusOK, "signup.tmpl", gin.H{"error": "Email already exists!"})
			return
		}
		c.logger.Error().Err(err).Msg("Error during sign-up")
		ctx.HTML(http.StatusInternalServerError, "signup.tmpl", gin.H{"error": "An error occurred during sign-up!"})
		return
	}

	c.logger.Info().Str("email", req.Email).Msg("User signed up")
	ctx.Redirect(http.StatusSeeOther, "/signin")
}

// ShowSignIn renders the sign-in form
func (c *AuthController) ShowSignIn(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "signin.tmpl", gin.H{"error": nil})
}

// SignIn handles the sign-in form submission. On success it establishes a
// session and redirects: to the submission view when an admission record
// already exists, to the admission form otherwise.
func (c *AuthController) SignIn(ctx *gin.Context) {
	var req dto.SignInRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid sign-in form")
		ctx.HTML(http.StatusBadRequest, "signin.tmpl", gin.H{"error": dto.BindingErrorMessage(err, "Email and password are required!")})
		return
	}

	user, hasAdmission, err := c.authService.SignIn(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			ctx.HTML(http.StatusOK, "signin.tmpl", gin.H{"error": "Invalid credentials!"})
			return
		}
		c.logger.Error().Err(err).Msg("Error during sign-in")
		ctx.HTML(http.StatusInternalServerError, "signin.tmpl", gin.H{"error": "An error occurred during sign-in!"})
		return
	}

	sessionID, err := c.sessions.Establish(ctx.Request.Context(), user.Identity())
	if err != nil {
		c.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to establish session")
		ctx.HTML(http.StatusInternalServerError, "signin.tmpl", gin.H{"error": "An error occurred during sign-in!"})
		return
	}

	c.setSessionCookie(ctx, sessionID, int(c.sessions.TTL().Seconds()))
	c.logger.Info().Int64("userID", user.ID).Msg("User signed in")

	if hasAdmission {
		ctx.Redirect(http.StatusSeeOther, "/submission-data")
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/admission-form")
}

// ShowForgotPassword renders the forgot-password form
func (c *AuthController) ShowForgotPassword(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "forgot-password.tmpl", gin.H{"error": nil})
}

// ForgotPassword issues a reset token and redirects to the reset page
// addressed by it.
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid forgot-password form")
		ctx.HTML(http.StatusBadRequest, "forgot-password.tmpl", gin.H{"error": dto.BindingErrorMessage(err, "Email is required!")})
		return
	}

	token, err := c.authService.ForgotPassword(ctx.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			ctx.HTML(http.StatusOK, "forgot-password.tmpl", gin.H{"error": "Email not found!"})
			return
		}
		c.logger.Error().Err(err).Msg("Error during forgot-password")
		ctx.HTML(http.StatusInternalServerError, "forgot-password.tmpl", gin.H{"error": "An error occurred during the reset process!"})
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/reset-password/"+token)
}

// ShowResetPassword validates the token from the URL path and renders the
// reset form. An invalid or expired token renders the error state with no
// token, so the form cannot be submitted.
func (c *AuthController) ShowResetPassword(ctx *gin.Context) {
	token := ctx.Param("token")

	_, err := c.authService.ValidateResetToken(ctx.Request.Context(), token)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenExpired) {
			c.logger.Warn().Err(err).Msg("Reset token rejected")
			ctx.HTML(http.StatusOK, "reset-password.tmpl", gin.H{"error": "Invalid or expired token!", "token": nil})
			return
		}
		c.logger.Error().Err(err).Msg("Error validating reset token")
		ctx.HTML(http.StatusInternalServerError, "reset-password.tmpl", gin.H{"error": "An error occurred while validating the reset token!", "token": nil})
		return
	}

	ctx.HTML(http.StatusOK, "reset-password.tmpl", gin.H{"error": nil, "token": token})
}

// ResetPassword applies the new password under the same dual validation as
// ShowResetPassword. On failure the view is re-rendered with the token
// echoed back, matching the page the form was submitted from.
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	token := ctx.Param("token")

	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid reset-password form")
		ctx.HTML(http.StatusBadRequest, "reset-password.tmpl", gin.H{"error": dto.BindingErrorMessage(err, "Password is required!"), "token": token})
		return
	}

	if err := c.authService.ResetPassword(ctx.Request.Context(), token, req.Password); err != nil {
		if apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenExpired) {
			c.logger.Warn().Err(err).Msg("Reset token rejected")
			ctx.HTML(http.StatusOK, "reset-password.tmpl", gin.H{"error": "Invalid or expired token!", "token": token})
			return
		}
		c.logger.Error().Err(err).Msg("Error resetting password")
		ctx.HTML(http.StatusInternalServerError, "reset-password.tmpl", gin.H{"error": "An error occurred while resetting the password!", "token": token})
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/signin")
}

// SignOut destroys the session and redirects home. Destruction is best
// effort: a failure is logged but never blocks the redirect.
func (c *AuthController) SignOut(ctx *gin.Context) {
	sessionID, err := ctx.Cookie(middleware.SessionCookieName)
	if err == nil && sessionID != "" {
		if err := c.sessions.Destroy(ctx.Request.Context(), sessionID); err != nil {
			c.logger.Error().Err(err).Msg("Error destroying session")
		}
	}

	c.setSessionCookie(ctx, "", -1)
	ctx.Redirect(http.StatusFound, "/home")
}

func (c *AuthController) setSessionCookie(ctx *gin.Context, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookieName, value, maxAge, "/", "", c.cookieSecure, true)
}
