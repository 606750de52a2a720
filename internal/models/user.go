package models

import (
	"time"
)

// Registration states for a user record. A phone is pre-registered by an
// admin before the account holder completes self-registration.
const (
	StatusPreRegistered = "pre_registered"
	StatusRegistered    = "registered"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a member account keyed by phone number.
type User struct {
	BaseModel
	FullName     string `json:"full_name"`
	Email        string `gorm:"index" json:"email"`
	Phone        string `gorm:"uniqueIndex" json:"phone"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"default:user" json:"role"`
	Status       string `gorm:"default:pre_registered" json:"status"`

	// Single active OTP per user.
	OTPCode    string     `json:"-"`
	OTPExpires *time.Time `json:"-"`

	// Token-based password reset (stored hashed).
	ResetTokenHash    string     `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`

	TwoFactorSecret string `json:"-"`
}
