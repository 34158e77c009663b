package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-account-api/internal/application/verification"
	"github.com/go-account-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerificationService struct{ mock.Mock }

func (m *mockVerificationService) SendEmailOTP(ctx context.Context, req verification.SendEmailOTPRequest) (*verification.IssueResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*verification.IssueResult)
	return result, args.Error(1)
}

func (m *mockVerificationService) SendPhoneOTP(ctx context.Context, req verification.SendPhoneOTPRequest) (*verification.IssueResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*verification.IssueResult)
	return result, args.Error(1)
}

func (m *mockVerificationService) ForgotPassword(ctx context.Context, req verification.ForgotPasswordRequest) (*verification.IssueResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*verification.IssueResult)
	return result, args.Error(1)
}

func (m *mockVerificationService) VerifyOTP(ctx context.Context, req verification.VerifyOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockVerificationService) ResetPassword(ctx context.Context, req verification.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func TestSendOTPEmailHandler_ReportsSentFlag(t *testing.T) {
	svc := &mockVerificationService{}
	svc.On("SendEmailOTP", mock.Anything, verification.SendEmailOTPRequest{Email: "a@x.com"}).
		Return(&verification.IssueResult{Channel: domain.ChannelEmail, Sent: false}, nil)

	h := NewVerificationHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/send-otp-email", jsonBody(t, map[string]string{"email": "a@x.com"}))
	rec := httptest.NewRecorder()
	h.SendOTPEmail(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp OTPEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Sent)
}

func TestSendOTPEmailHandler_UnknownUser(t *testing.T) {
	svc := &mockVerificationService{}
	svc.On("SendEmailOTP", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	h := NewVerificationHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/send-otp-email", jsonBody(t, map[string]string{"email": "a@x.com"}))
	rec := httptest.NewRecorder()
	h.SendOTPEmail(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendOTPPhoneHandler_RejectsBadPhone(t *testing.T) {
	svc := &mockVerificationService{}
	h := NewVerificationHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/send-otp-phone", jsonBody(t, map[string]string{"phone": "5551234567"}))
	rec := httptest.NewRecorder()
	h.SendOTPPhone(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "SendPhoneOTP", mock.Anything, mock.Anything)
}

func TestVerifyOTPHandler_Success(t *testing.T) {
	svc := &mockVerificationService{}
	svc.On("VerifyOTP", mock.Anything, mock.MatchedBy(func(req verification.VerifyOTPRequest) bool {
		return req.Email != nil && *req.Email == "a@x.com" && req.OTP == "123456"
	})).Return(nil)

	h := NewVerificationHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/verify-otp", jsonBody(t, map[string]string{
		"email": "a@x.com",
		"otp":   "123456",
	}))
	rec := httptest.NewRecorder()
	h.VerifyOTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestVerifyOTPHandler_RejectsShortCode(t *testing.T) {
	svc := &mockVerificationService{}
	h := NewVerificationHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/verify-otp", jsonBody(t, map[string]string{
		"email": "a@x.com",
		"otp":   "123",
	}))
	rec := httptest.NewRecorder()
	h.VerifyOTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "VerifyOTP", mock.Anything, mock.Anything)
}

func TestVerifyOTPHandler_InvalidCode(t *testing.T) {
	svc := &mockVerificationService{}
	svc.On("VerifyOTP", mock.Anything, mock.Anything).Return(domain.ErrBadRequest)

	h := NewVerificationHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/verify-otp", jsonBody(t, map[string]string{
		"email": "a@x.com",
		"otp":   "654321",
	}))
	rec := httptest.NewRecorder()
	h.VerifyOTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetPasswordHandler_RequiresVerification(t *testing.T) {
	svc := &mockVerificationService{}
	svc.On("ResetPassword", mock.Anything, mock.Anything).Return(domain.ErrForbidden)

	h := NewVerificationHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/reset-password", jsonBody(t, map[string]string{
		"email":        "a@x.com",
		"new_password": "secret2",
	}))
	rec := httptest.NewRecorder()
	h.ResetPassword(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestForgotPasswordHandler_Success(t *testing.T) {
	svc := &mockVerificationService{}
	svc.On("ForgotPassword", mock.Anything, mock.MatchedBy(func(req verification.ForgotPasswordRequest) bool {
		return req.Email != nil && *req.Email == "a@x.com" && req.Phone == nil
	})).Return(&verification.IssueResult{Channel: domain.ChannelEmail, Sent: true}, nil)

	h := NewVerificationHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/forgot-password", jsonBody(t, map[string]string{"email": "a@x.com"}))
	rec := httptest.NewRecorder()
	h.ForgotPassword(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp OTPEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Sent)
}
