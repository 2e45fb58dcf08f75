package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService  services.AuthServicer
	auditService services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthServicer, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{authService: authService, auditService: auditService}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// VerifyOTPRequest represents the OTP verification payload
type VerifyOTPRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	OTP    string `json:"otp" binding:"required,otp_code"`
}

// SigninRequest represents the signin request payload
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest represents the forgot-password payload
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents the reset-password payload
type ResetPasswordRequest struct {
	UserID      uint   `json:"userId" binding:"required"`
	OTP         string `json:"otp" binding:"required,otp_code"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128"`
}

// ChangePasswordRequest represents the change-password payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=128"`
}

// VerifyChangePasswordRequest represents the change-password confirmation payload.
// The new password travels only in the initial change-password request; the
// confirmation carries just the OTP.
type VerifyChangePasswordRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	OTP    string `json:"otp" binding:"required,otp_code"`
}

// UserResponse represents the public user fields in responses
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Signup handles user registration
// @Summary     Sign up a new user
// @Description Create a user and send a verification OTP to their email
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SignupRequest true "User signup data"
// @Success     201 {object} map[string]interface{} "User created, OTP sent"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Username or email already taken"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.authService.Signup(req.Username, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "SIGNUP", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created. Please verify the OTP sent to your email.",
		"userId":  user.ID,
	})
}

// VerifyOTP handles signup OTP verification
// @Summary     Verify a signup OTP
// @Description Consume the pending OTP and return a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body VerifyOTPRequest true "User ID and OTP"
// @Success     200 {object} AuthResponse "Verified, token issued"
// @Failure     400 {object} ErrorResponse "Invalid or expired OTP"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.authService.VerifyOTP(req.UserID, req.OTP)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(user.ID, "VERIFY_OTP", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Signin handles user login
// @Summary     Sign in
// @Description Authenticate with email and password, no OTP step
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SigninRequest true "User credentials"
// @Success     200 {object} AuthResponse "Authenticated, token issued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.authService.Signin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(user.ID, "SIGNIN", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// ForgotPassword starts the password reset flow
// @Summary     Request a password reset OTP
// @Description Issue and email a reset OTP for the given address
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ForgotPasswordRequest true "Account email"
// @Success     200 {object} map[string]interface{} "OTP sent"
// @Failure     404 {object} ErrorResponse "Unknown email"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.authService.ForgotPassword(req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "FORGOT_PASSWORD", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{
		"message": "OTP sent to your email",
		"userId":  user.ID,
	})
}

// ResetPassword completes the password reset flow
// @Summary     Reset password with an OTP
// @Description Consume the reset OTP and set a new password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ResetPasswordRequest true "User ID, OTP, new password"
// @Success     200 {object} map[string]interface{} "Password reset"
// @Failure     400 {object} ErrorResponse "Invalid or expired OTP"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.authService.ResetPassword(req.UserID, req.OTP, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(req.UserID, "RESET_PASSWORD", "user", req.UserID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// ChangePassword starts the authenticated password change flow
// @Summary     Request a password change
// @Description Verify the current password, stash the new one server-side, and email an OTP
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChangePasswordRequest true "Current and new password"
// @Success     200 {object} map[string]interface{} "OTP sent for confirmation"
// @Failure     401 {object} ErrorResponse "Wrong current password"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.authService.RequestPasswordChange(userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "CHANGE_PASSWORD_REQUEST", "user", user.ID, c.ClientIP(), nil)

	// The pending password stays server-side; only the OTP leaves the system.
	c.JSON(http.StatusOK, gin.H{
		"message": "OTP sent to your email for verification",
		"userId":  user.ID,
	})
}

// VerifyChangePassword completes the password change flow
// @Summary     Confirm a password change with an OTP
// @Description Consume the OTP and promote the pending password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body VerifyChangePasswordRequest true "User ID and OTP"
// @Success     200 {object} map[string]interface{} "Password changed"
// @Failure     400 {object} ErrorResponse "Invalid or expired OTP"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/verify-change-password [post]
func (h *AuthHandler) VerifyChangePassword(c *gin.Context) {
	var req VerifyChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.authService.ConfirmPasswordChange(req.UserID, req.OTP); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(req.UserID, "CHANGE_PASSWORD_CONFIRM", "user", req.UserID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
