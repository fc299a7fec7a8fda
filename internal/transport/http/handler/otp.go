package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bomberman-api/internal/application/registration"
	"github.com/bomberman-api/internal/domain"
)

// OTPHandler handles the two-step email registration endpoints.
type OTPHandler struct {
	svc registration.Service
}

func NewOTPHandler(svc registration.Service) *OTPHandler { return &OTPHandler{svc: svc} }

func (h *OTPHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	const missing = "Email is required."
	var req domain.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, missing, err)
		return
	}
	err := h.svc.SendOTP(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "OTP sent to your email."})
	case errors.Is(err, domain.ErrMissingInput):
		fail(w, r, http.StatusBadRequest, missing, err)
	case errors.Is(err, domain.ErrConflict):
		fail(w, r, http.StatusConflict, "An account with this email already exists.", err)
	default:
		fail(w, r, http.StatusInternalServerError, "Server error while sending OTP.", err)
	}
}

func (h *OTPHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	const missing = "Email, password, and OTP are required."
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, missing, err)
		return
	}
	_, err := h.svc.VerifyAndRegister(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, Envelope{Success: true, Message: "Account created successfully!"})
	case errors.Is(err, domain.ErrMissingInput):
		fail(w, r, http.StatusBadRequest, missing, err)
	case errors.Is(err, domain.ErrInvalidOTP):
		fail(w, r, http.StatusBadRequest, "Invalid OTP. Please request a new one.", err)
	case errors.Is(err, domain.ErrInvalidOrExpiredOTP):
		fail(w, r, http.StatusBadRequest, "Invalid or expired OTP.", err)
	case errors.Is(err, domain.ErrInvalidInput):
		fail(w, r, http.StatusBadRequest, "Password is too long.", err)
	case errors.Is(err, domain.ErrConflict):
		fail(w, r, http.StatusConflict, "An account with this email already exists.", err)
	default:
		fail(w, r, http.StatusInternalServerError, "Server error during registration.", err)
	}
}
