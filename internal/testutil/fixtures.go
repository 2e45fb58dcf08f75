package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a verified user with a hashed password and
// unique username/email. The fixture password is "password123".
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithEmail(t, db, fmt.Sprintf("user%d", n), fmt.Sprintf("user%d@test.com", n))
}

// CreateTestUserWithEmail creates a user with the given username and email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestUserWithOTP creates a user with a pending OTP expiring at the
// given time.
func CreateTestUserWithOTP(t *testing.T, db *gorm.DB, code string, expiresAt time.Time) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	if err := db.Model(user).Updates(map[string]interface{}{
		"otp_code":       code,
		"otp_expires_at": expiresAt,
	}).Error; err != nil {
		t.Fatalf("failed to set OTP on test user: %v", err)
	}
	user.OTPCode = code
	user.OTPExpiresAt = &expiresAt
	return user
}

// CreateTestTransaction creates a transaction of the given type and amount (in cents).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:      amount,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestTransactionAt creates a transaction with a specific creation time.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, amount int64, createdAt time.Time) *models.Transaction {
	t.Helper()

	tx := CreateTestTransaction(t, db, userID, txType, amount)
	if err := db.Model(tx).Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("failed to backdate test transaction: %v", err)
	}
	tx.CreatedAt = createdAt
	return tx
}
