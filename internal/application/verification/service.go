package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-account-api/internal/domain"
	"github.com/go-account-api/internal/infrastructure/smtp"
	"github.com/go-account-api/internal/infrastructure/sns"
	"github.com/go-account-api/internal/pkg/otp"
	"github.com/go-account-api/internal/pkg/password"
)

type SendEmailOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SendPhoneOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

type ForgotPasswordRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,e164"`
}

type VerifyOTPRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,e164"`
	OTP   string  `json:"otp" validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,e164"`
	NewPassword string  `json:"new_password" validate:"required,min=6,max=128"`
}

// IssueResult reports where a code went and whether the notification send
// succeeded. Sent=false with a nil error means the code is committed and the
// client may retry delivery without a reissue.
type IssueResult struct {
	Channel domain.Channel `json:"channel"`
	Sent    bool           `json:"sent"`
}

// Service is the OTP state machine. Each user is in one of three states:
// no OTP, a pending code with expiry, or the VERIFIED sentinel that gates a
// single password reset.
type Service interface {
	SendEmailOTP(ctx context.Context, req SendEmailOTPRequest) (*IssueResult, error)
	SendPhoneOTP(ctx context.Context, req SendPhoneOTPRequest) (*IssueResult, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*IssueResult, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	SetOTP(ctx context.Context, userID, code string, expiresAt int64) error
	ConfirmOTP(ctx context.Context, userID, expectedCode string, channel domain.Channel) error
	ResetPassword(ctx context.Context, userID, passwordHash string) error
}

type service struct {
	repo        userStore
	mailer      smtp.Mailer
	smsSender   sns.SMSSender
	hasher      *password.Hasher
	otpTTL      time.Duration
	sendTimeout time.Duration
}

type ServiceDeps struct {
	UserRepo    userStore
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	Hasher      *password.Hasher
	OTPTTL      time.Duration
	SendTimeout time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:        deps.UserRepo,
		mailer:      deps.Mailer,
		smsSender:   deps.SMSSender,
		hasher:      deps.Hasher,
		otpTTL:      deps.OTPTTL,
		sendTimeout: deps.SendTimeout,
	}
}

func (s *service) SendEmailOTP(ctx context.Context, req SendEmailOTPRequest) (*IssueResult, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return s.issue(ctx, u, domain.ChannelEmail)
}

func (s *service) SendPhoneOTP(ctx context.Context, req SendPhoneOTPRequest) (*IssueResult, error) {
	u, err := s.repo.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return s.issue(ctx, u, domain.ChannelPhone)
}

func (s *service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*IssueResult, error) {
	u, channel, err := s.resolve(ctx, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, u, channel)
}

// issue generates a fresh code and stores PENDING(code, now+ttl)
// unconditionally; reissuing always invalidates the previous code. The state
// is committed before the send is attempted, so a failed notification leaves
// a valid code behind (at-least-issued).
func (s *service) issue(ctx context.Context, u *domain.User, channel domain.Channel) (*IssueResult, error) {
	code, err := otp.Generate()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(s.otpTTL).Unix()
	if err := s.repo.SetOTP(ctx, u.UserID, code, expiresAt); err != nil {
		return nil, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	msg := fmt.Sprintf("Your OTP code is %s. It will expire in %d minutes.", code, int(s.otpTTL.Minutes()))

	var sendErr error
	if channel == domain.ChannelEmail {
		sendErr = s.mailer.SendEmail(sendCtx, u.Email, "Your OTP Code", msg)
	} else if s.smsSender == nil {
		sendErr = errors.New("sms sender not configured")
	} else {
		sendErr = s.smsSender.SendSMS(sendCtx, u.Phone, msg)
	}
	if sendErr != nil {
		// The code is already committed; report the failure but don't roll back.
		slog.Warn("otp notification send failed", "user_id", u.UserID, "channel", channel, "err", sendErr)
		return &IssueResult{Channel: channel, Sent: false}, nil
	}
	return &IssueResult{Channel: channel, Sent: true}, nil
}

func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) error {
	u, channel, err := s.resolve(ctx, req.Email, req.Phone)
	if err != nil {
		return err
	}
	now := time.Now()
	if !u.HasPendingOTP(now) || *u.OTP != req.OTP {
		// Wrong code and expired code are indistinguishable to the caller.
		return fmt.Errorf("invalid or expired OTP: %w", domain.ErrBadRequest)
	}
	if err := s.repo.ConfirmOTP(ctx, u.UserID, req.OTP, channel); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// A reissue raced this verify; the observed code is superseded.
			return fmt.Errorf("invalid or expired OTP: %w", domain.ErrBadRequest)
		}
		return err
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	u, _, err := s.resolve(ctx, req.Email, req.Phone)
	if err != nil {
		return err
	}
	if u.OTP == nil || *u.OTP != domain.OTPVerified {
		return fmt.Errorf("verification required: %w", domain.ErrForbidden)
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	// The conditional write re-checks the sentinel, so two concurrent resets
	// can't both consume it.
	return s.repo.ResetPassword(ctx, u.UserID, hash)
}

// resolve looks up the user by exactly one of email or phone.
func (s *service) resolve(ctx context.Context, email, phone *string) (*domain.User, domain.Channel, error) {
	switch {
	case email != nil && phone != nil:
		return nil, "", fmt.Errorf("provide either email or phone, not both: %w", domain.ErrBadRequest)
	case email != nil:
		u, err := s.repo.GetByEmail(ctx, *email)
		if err != nil {
			return nil, "", fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return u, domain.ChannelEmail, nil
	case phone != nil:
		u, err := s.repo.GetByPhone(ctx, *phone)
		if err != nil {
			return nil, "", fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return u, domain.ChannelPhone, nil
	default:
		return nil, "", fmt.Errorf("either email or phone is required: %w", domain.ErrBadRequest)
	}
}
