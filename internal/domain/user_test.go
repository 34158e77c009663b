package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasPendingOTP(t *testing.T) {
	now := time.Now()
	code := "123456"
	future := now.Add(4 * time.Minute).Unix()
	past := now.Add(-time.Minute).Unix()
	sentinel := OTPVerified

	cases := []struct {
		name string
		user User
		want bool
	}{
		{"no otp", User{}, false},
		{"pending unexpired", User{OTP: &code, OTPExpiry: &future}, true},
		{"pending expired", User{OTP: &code, OTPExpiry: &past}, false},
		{"verified sentinel", User{OTP: &sentinel}, false},
		{"verified sentinel with stale expiry", User{OTP: &sentinel, OTPExpiry: &future}, false},
		{"code without expiry", User{OTP: &code}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.user.HasPendingOTP(now))
		})
	}
}
