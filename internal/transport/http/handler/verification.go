package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-account-api/internal/application/verification"
	"github.com/go-account-api/internal/pkg/validate"
)

// VerificationHandler handles OTP issuance, verification and password reset.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) SendOTPEmail(w http.ResponseWriter, r *http.Request) {
	var req verification.SendEmailOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	result, err := h.svc.SendEmailOTP(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OTPEnvelope{Message: "OTP sent to email", Sent: result.Sent})
}

func (h *VerificationHandler) SendOTPPhone(w http.ResponseWriter, r *http.Request) {
	var req verification.SendPhoneOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	result, err := h.svc.SendPhoneOTP(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OTPEnvelope{Message: "OTP sent to phone", Sent: result.Sent})
}

func (h *VerificationHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req verification.ForgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	result, err := h.svc.ForgotPassword(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OTPEnvelope{Message: "OTP sent", Sent: result.Sent})
}

func (h *VerificationHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verification.VerifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.svc.VerifyOTP(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP verified successfully"})
}

func (h *VerificationHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req verification.ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password reset successfully"})
}

// decodeAndValidate decodes the JSON body into dst and runs tag validation,
// writing the 400 itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
