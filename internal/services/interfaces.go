package services

import (
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// AuthServicer defines the contract for authentication and account flows.
//
// Every operation is a single request/response exchange against the shared
// store; there is no in-process coordination. Concurrent requests racing on
// the same user's OTP or password fields are last-write-wins.
type AuthServicer interface {
	// Signup creates the user with a hashed password and a fresh OTP,
	// and dispatches the code to the user's email address.
	Signup(username, email, password string) (*models.User, error)
	// VerifyOTP validates and consumes a pending signup/signin OTP.
	VerifyOTP(userID uint, code string) (*models.User, error)
	// Signin checks credentials. No OTP step is involved.
	Signin(email, password string) (*models.User, error)
	// ForgotPassword issues and emails a fresh OTP for password reset.
	ForgotPassword(email string) (*models.User, error)
	// ResetPassword consumes the OTP and replaces the password hash.
	ResetPassword(userID uint, code, newPassword string) error
	// RequestPasswordChange verifies the current password, stashes the
	// hash of the new one server-side, and issues an OTP.
	RequestPasswordChange(userID uint, currentPassword, newPassword string) (*models.User, error)
	// ConfirmPasswordChange consumes the OTP and promotes the pending hash.
	ConfirmPasswordChange(userID uint, code string) error
	// GetUserByID resolves a token identity to a live user record.
	GetUserByID(id uint) (*models.User, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
// Date and amount bounds are inclusive.
type TransactionFilter struct {
	Type      *models.TransactionType
	StartDate *time.Time
	EndDate   *time.Time
	MinAmount *int64
	MaxAmount *int64
}

// TransactionSort selects the ordering of a transaction listing.
// Field names use the API's camelCase vocabulary; the service maps them
// to columns. The zero value means createdAt descending.
type TransactionSort struct {
	Field string
	Desc  bool
}

// TypeSummary aggregates one transaction type.
type TypeSummary struct {
	Total int64 `json:"total"`
	Count int64 `json:"count"`
}

// Summary is the per-type aggregate plus derived balance for one user.
type Summary struct {
	Income  TypeSummary `json:"income"`
	Expense TypeSummary `json:"expense"`
	Balance int64       `json:"balance"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, transactionType models.TransactionType, description string, amount int64) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter, sort TransactionSort) ([]models.Transaction, pagination.PageMeta, error)
	GetSummary(userID uint) (*Summary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
