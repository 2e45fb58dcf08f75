package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/mail"
	"fintrack/internal/models"
	"fintrack/internal/otp"
)

// authService orchestrates signup, OTP verification, signin, and the
// password reset/change flows.
type authService struct {
	db       *gorm.DB
	notifier mail.Notifier
}

// NewAuthService creates a new AuthServicer.
func NewAuthService(db *gorm.DB, notifier mail.Notifier) AuthServicer {
	return &authService{db: db, notifier: notifier}
}

// Signup registers a new user and issues a verification OTP.
func (s *authService) Signup(username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username, email and password are required")
	}
	email = strings.ToLower(email)

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateUser
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	code, expires, err := otp.Generate()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		Password:     string(hashed),
		OTPCode:      code,
		OTPExpiresAt: &expires,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.sendOTP(user, code)
	return user, nil
}

// VerifyOTP validates and consumes a pending OTP for the given user.
func (s *authService) VerifyOTP(userID uint, code string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, apperrors.ErrOTPInvalidOrExpired
	}

	if err := checkOTP(user, code); err != nil {
		return nil, err
	}

	if err := s.clearOTP(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signin authenticates by email and password.
func (s *authService) Signin(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user, nil
}

// ForgotPassword issues a fresh OTP for a password reset and emails it.
func (s *authService) ForgotPassword(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	code, expires, err := otp.Generate()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Issuing a reset OTP abandons any in-flight password change, so the
	// new code can never promote a stale pending hash.
	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"otp_code":         code,
		"otp_expires_at":   expires,
		"pending_password": "",
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.sendOTP(&user, code)
	return &user, nil
}

// ResetPassword consumes the reset OTP and replaces the password hash.
func (s *authService) ResetPassword(userID uint, code, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return apperrors.ErrOTPInvalidOrExpired
	}

	if err := checkOTP(user, code); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(user).Updates(map[string]interface{}{
		"password":         string(hashed),
		"otp_code":         "",
		"otp_expires_at":   nil,
		"pending_password": "",
	}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RequestPasswordChange verifies the current password, stores the hash of
// the requested new password server-side, and issues a confirmation OTP.
// The new password is never echoed back to the caller.
func (s *authService) RequestPasswordChange(userID uint, currentPassword, newPassword string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidCredentials, "Current password is incorrect")
	}

	pending, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	code, expires, err := otp.Generate()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(user).Updates(map[string]interface{}{
		"otp_code":         code,
		"otp_expires_at":   expires,
		"pending_password": string(pending),
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.sendOTP(user, code)
	return user, nil
}

// ConfirmPasswordChange consumes the OTP and promotes the pending hash.
func (s *authService) ConfirmPasswordChange(userID uint, code string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return apperrors.ErrOTPInvalidOrExpired
	}

	if err := checkOTP(user, code); err != nil {
		return err
	}
	if user.PendingPassword == "" {
		return apperrors.ErrNoPendingPassword
	}

	if err := s.db.Model(user).Updates(map[string]interface{}{
		"password":         user.PendingPassword,
		"pending_password": "",
		"otp_code":         "",
		"otp_expires_at":   nil,
	}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *authService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// checkOTP applies the shared OTP policy: invalid if absent, invalid once
// the current time reaches the expiry, invalid on string mismatch.
func checkOTP(user *models.User, code string) error {
	if !user.HasPendingOTP() || !time.Now().Before(*user.OTPExpiresAt) {
		return apperrors.ErrOTPInvalidOrExpired
	}
	if user.OTPCode != code {
		return apperrors.ErrOTPMismatch
	}
	return nil
}

// clearOTP removes a consumed OTP so the same code cannot be replayed.
// Any abandoned pending password goes with it; a pending hash only survives
// as long as its own confirmation OTP.
func (s *authService) clearOTP(user *models.User) error {
	if err := s.db.Model(user).Updates(map[string]interface{}{
		"otp_code":         "",
		"otp_expires_at":   nil,
		"pending_password": "",
	}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.OTPCode = ""
	user.OTPExpiresAt = nil
	user.PendingPassword = ""
	return nil
}

// sendOTP dispatches the code by email. Delivery failure is logged and
// swallowed; the flow continues and the user can retry via forgot-password.
func (s *authService) sendOTP(user *models.User, code string) {
	if err := s.notifier.SendOTP(user.Email, code); err != nil {
		logger.Get().Errorw("failed to send OTP email",
			"error", err,
			"user_id", user.ID,
			"email", user.Email,
		)
	}
}
