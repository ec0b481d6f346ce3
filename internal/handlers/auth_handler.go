package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fastx/backend/internal/middleware"
	"github.com/fastx/backend/internal/models"
	"github.com/fastx/backend/internal/services"
)

// AuthHandler exposes the auth service over HTTP.
type AuthHandler struct {
	svc       *services.AuthService
	validator *validator.Validate
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{
		svc:       svc,
		validator: validator.New(),
	}
}

// RegisterRequest represents the registration payload
// @Description Registration request structure
type RegisterRequest struct {
	FirstName   string `json:"firstName" validate:"required,min=2,max=50" example:"Jane"`
	SurName     string `json:"surName" validate:"required,min=2,max=50" example:"Doe"`
	Email       string `json:"email" validate:"required,email" example:"jane@example.com"`
	Address     string `json:"address" validate:"omitempty,max=120" example:"1 Marina Rd"`
	City        string `json:"city" validate:"omitempty,max=60" example:"Lagos"`
	PhoneNumber string `json:"phoneNumber" validate:"required,e164" example:"+2348012345678"`
	Password    string `json:"password" validate:"required,min=8" example:"password1"`
}

// LoginRequest represents the login payload
// @Description Login request structure
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"jane@example.com"`
	Password string `json:"password" validate:"required,min=8" example:"password1"`
}

// OTPRequest carries a submitted one-time code
type OTPRequest struct {
	OTP string `json:"otp" validate:"required,numeric" example:"4821"`
}

// EmailRequest carries a bare email address
type EmailRequest struct {
	Email string `json:"email" validate:"required,email" example:"jane@example.com"`
}

// NewPasswordRequest carries the replacement password
type NewPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=8" example:"password2"`
}

// UnlockRequest carries the unlock credentials
type UnlockRequest struct {
	Email string `json:"email" validate:"required,email" example:"jane@example.com"`
	OTP   string `json:"otp" validate:"required,numeric" example:"4821"`
}

// RiderDocsRequest carries the delivery-partner vehicle profile
type RiderDocsRequest struct {
	VehicleType   string    `json:"vehicleType" validate:"required" example:"motorcycle"`
	Color         string    `json:"color" validate:"required" example:"red"`
	Model         string    `json:"model" validate:"required" example:"Honda CB125"`
	ChassisNumber string    `json:"chassisNumber" validate:"required" example:"JH2SC5900FM200123"`
	PlateNumber   string    `json:"plateNumber" validate:"required" example:"LAG-334-XY"`
	OwnedSince    time.Time `json:"ownedSince" validate:"required"`
}

// AuthResponse is the token-plus-account payload
// @Description Authentication response structure
type AuthResponse struct {
	Message     string         `json:"message"`
	AccessToken string         `json:"accessToken"`
	User        models.Summary `json:"user"`
}

// MessageResponse is a bare message payload
type MessageResponse struct {
	Message string `json:"message"`
}

func (h *AuthHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576) // 1 MB

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.WriteError(w, services.NewError(services.KindValidation, "invalid request"))
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		services.WriteError(w, services.NewError(services.KindValidation,
			"request body must only contain a single JSON object"))
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		log.Printf("[AUTH] validation failed: %v", err)
		services.WriteError(w, services.NewError(services.KindValidation, "validation failed"))
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Register handles new user registration
// @Summary Register a new user
// @Description Create an unconfirmed account and mail its confirmation OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} AuthResponse "Registration successful"
// @Failure 400 {object} services.Error "Invalid request"
// @Failure 409 {object} services.Error "Email or phone already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Registration attempt from IP: %s", r.RemoteAddr)

	var req RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.svc.Register(r.Context(), services.RegisterInput{
		FirstName:   req.FirstName,
		SurName:     req.SurName,
		Email:       req.Email,
		Address:     req.Address,
		City:        req.City,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		services.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Message:     "User registered successfully",
		AccessToken: result.AccessToken,
		User:        result.Account,
	})
}

// ResendOTP re-sends the confirmation code
// @Summary Resend confirmation OTP
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 409 {object} services.Error "Already confirmed"
// @Router /auth/resend_otp [get]
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	message, err := h.svc.ResendConfirmOTP(r.Context(), middleware.AccountID(r))
	if err != nil {
		services.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: message})
}

// Confirm verifies the registration OTP
// @Summary Confirm account with OTP
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body OTPRequest true "OTP"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} services.Error "Invalid OTP"
// @Router /auth/confirm [put]
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req OTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	summary, err := h.svc.ConfirmAccount(r.Context(), middleware.AccountID(r), req.OTP)
	if err != nil {
		services.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Message: "OTP verified successfully and user is confirmed",
		User:    *summary,
	})
}

// Login authenticates a user
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} services.Error "Invalid credentials with remaining attempts"
// @Failure 403 {object} services.Error "Account locked"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Login attempt from IP: %s", r.RemoteAddr)

	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		services.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Message:     "User login successfully",
		AccessToken: result.AccessToken,
		User:        result.Account,
	})
}

// ForgotPassword starts the password-reset flow
// @Summary Request a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailRequest true "Email"
// @Success 200 {object} AuthResponse "Reset token issued"
// @Failure 404 {object} services.Error "User not found"
// @Router /auth/forgot_password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.svc.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		services.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Message:     "Mail sent successfully",
		AccessToken: token,
	})
}

// ValidateResetOTP verifies the reset code
// @Summary Validate the password-reset OTP
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body OTPRequest true "OTP"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} services.Error "Invalid OTP"
// @Router /auth/validate_otp [put]
func (h *AuthHandler) ValidateResetOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.ValidateResetOTP(r.Context(), middleware.AccountID(r), req.OTP); err != nil {
		services.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "OTP verified successfully"})
}

// ResetPassword sets the new password
// @Summary Set a new password after OTP validation
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body NewPasswordRequest true "New password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} services.Error "OTP not verified"
// @Router /auth/reset_password [put]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req NewPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.SetNewPassword(r.Context(), middleware.AccountID(r), req.NewPassword); err != nil {
		services.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Password reset successfully, kindly login"})
}

// RegisterRiderDocs upgrades a confirmed account to delivery partner
// @Summary Submit delivery-partner vehicle documents
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RiderDocsRequest true "Vehicle profile"
// @Success 201 {object} models.DeliveryPartner
// @Failure 409 {object} services.Error "Account not confirmed or profile exists"
// @Router /auth/register/rider_docs [post]
func (h *AuthHandler) RegisterRiderDocs(w http.ResponseWriter, r *http.Request) {
	var req RiderDocsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	partner, err := h.svc.RegisterRider(r.Context(), middleware.AccountID(r), services.RiderInput{
		VehicleType:   req.VehicleType,
		Color:         req.Color,
		Model:         req.Model,
		ChassisNumber: req.ChassisNumber,
		PlateNumber:   req.PlateNumber,
		OwnedSince:    req.OwnedSince,
	})
	if err != nil {
		services.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, partner)
}

// ResendUnlockOTP re-sends the unlock code for a locked account
// @Summary Resend unlock OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailRequest true "Email"
// @Success 200 {object} MessageResponse
// @Failure 409 {object} services.Error "Account not locked"
// @Router /auth/resend_otp_unlock [put]
func (h *AuthHandler) ResendUnlockOTP(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.ResendUnlockOTP(r.Context(), req.Email); err != nil {
		services.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Mail sent successfully"})
}

// UnlockAccount verifies the unlock OTP
// @Summary Unlock a locked account with its OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body UnlockRequest true "Email and OTP"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} services.Error "Invalid OTP"
// @Router /auth/unlock_account [put]
func (h *AuthHandler) UnlockAccount(w http.ResponseWriter, r *http.Request) {
	var req UnlockRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.UnlockAccount(r.Context(), req.Email, req.OTP); err != nil {
		services.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Account successfully unlocked"})
}

// Logout blacklists the presented access token
// @Summary Logout and invalidate the access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Router /auth/logout [get]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), middleware.BearerToken(r)); err != nil {
		services.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// GetAccount returns the authenticated user's account
// @Summary Get the caller's account summary
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Summary
// @Failure 404 {object} services.Error "User not found"
// @Router /auth/account [get]
func (h *AuthHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetAccount(middleware.AccountID(r))
	if err != nil {
		services.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
