package models

import "time"

// User represents the user model in the database.
//
// OTPCode and OTPExpiresAt are set only between OTP issuance and
// consumption or expiry; both are cleared on successful verification.
// PendingPassword holds the bcrypt hash of a requested new password while
// a change-password OTP is outstanding. It is never serialized.
type User struct {
	Base
	Username        string     `gorm:"uniqueIndex;not null" json:"username"`
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	Password        string     `gorm:"not null" json:"-"`
	OTPCode         string     `gorm:"size:6" json:"-"`
	OTPExpiresAt    *time.Time `json:"-"`
	PendingPassword string     `json:"-"`

	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}

// HasPendingOTP reports whether the user currently has an unconsumed OTP.
func (u *User) HasPendingOTP() bool {
	return u.OTPCode != "" && u.OTPExpiresAt != nil
}
