package domain

import "time"

// OTPVerified is the sentinel stored in the otp attribute after a successful
// verification. It authorizes exactly one subsequent password reset and
// carries no expiry.
const OTPVerified = "VERIFIED"

type User struct {
	UserID          string    `json:"id" dynamodbav:"user_id"`
	Name            string    `json:"name" dynamodbav:"name"`
	Email           string    `json:"email" dynamodbav:"email"`
	Phone           string    `json:"phone" dynamodbav:"phone"`
	PasswordHash    string    `json:"-" dynamodbav:"password_hash"`
	Role            string    `json:"role" dynamodbav:"role"`
	IsEmailVerified bool      `json:"is_email_verified" dynamodbav:"is_email_verified"`
	IsPhoneVerified bool      `json:"is_phone_verified" dynamodbav:"is_phone_verified"`
	OTP             *string   `json:"-" dynamodbav:"otp"`
	OTPExpiry       *int64    `json:"-" dynamodbav:"otp_expiry"` // Unix seconds; set iff OTP is a pending code
	CreatedAt       time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updated" dynamodbav:"updated_at"`
}

// HasPendingOTP reports whether the user holds an unexpired pending code.
// The VERIFIED sentinel is not a pending code.
func (u *User) HasPendingOTP(now time.Time) bool {
	if u.OTP == nil || u.OTPExpiry == nil || *u.OTP == OTPVerified {
		return false
	}
	return now.Unix() < *u.OTPExpiry
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Phone    string `json:"phone" validate:"required,e164"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6,max=128"`
}
