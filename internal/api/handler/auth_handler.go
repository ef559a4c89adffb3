package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madinti/madinti-api/internal/api/middleware"
	"github.com/madinti/madinti-api/internal/api/response"
	"github.com/madinti/madinti-api/internal/core/domain"
	"github.com/madinti/madinti-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	userService ports.UserService
}

func NewAuthHandler(authService ports.AuthService, userService ports.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

type registerRequest struct {
	CINNumber   string `json:"cinNumber" validate:"required,max=32"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=32"`
	FullName    string `json:"fullName,omitempty" validate:"max=128"`
}

type verifyOTPRequest struct {
	UserID  string `json:"userId" validate:"required"`
	OTPCode string `json:"otpCode" validate:"required"`
}

type loginRequest struct {
	CINNumber string `json:"cinNumber" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type resendOTPRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type challengeResponse struct {
	UserID    string `json:"userId"`
	ExpiresIn int    `json:"expiresIn"`
}

type resendResponse struct {
	ExpiresIn int `json:"expiresIn"`
}

type sessionResponse struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	User         domain.UserView `json:"user"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type meResponse struct {
	User domain.UserView `json:"user"`
}

type sessionStateResponse struct {
	Authenticated bool        `json:"authenticated"`
	UserID        string      `json:"userId,omitempty"`
	Role          domain.Role `json:"role,omitempty"`
}

// Register creates a citizen account pending phone verification.
//
// @Summary      Register a citizen
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "CIN, phone number and optional full name"
// @Success      201   {object}  response.Envelope{data=challengeResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ch, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		CINNumber:   req.CINNumber,
		PhoneNumber: req.PhoneNumber,
		FullName:    req.FullName,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, "OTP sent to your phone number",
		challengeResponse{UserID: ch.UserID, ExpiresIn: ch.ExpiresIn})
}

// VerifyOTP confirms a phone number and opens a session.
//
// @Summary      Verify an OTP code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "User id and the 6-digit code"
// @Success      200   {object}  response.Envelope{data=sessionResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Failure      429   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.VerifyOTP(c.Request().Context(), req.UserID, req.OTPCode)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "Phone verified successfully", toSession(res))
}

// Login starts a passwordless login for an existing citizen.
//
// @Summary      Log in with a CIN
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "CIN number"
// @Success      200   {object}  response.Envelope{data=challengeResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ch, err := h.authService.Login(c.Request().Context(), req.CINNumber)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "OTP sent to your registered phone number",
		challengeResponse{UserID: ch.UserID, ExpiresIn: ch.ExpiresIn})
}

// Refresh exchanges a refresh token for a new access token.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  response.Envelope{data=refreshResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	access, err := h.authService.RefreshAccessToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "", refreshResponse{AccessToken: access})
}

// ResendOTP issues a fresh code, invalidating the previous one.
//
// @Summary      Resend an OTP code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resendOTPRequest  true  "User id"
// @Success      200   {object}  response.Envelope{data=resendResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req resendOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ch, err := h.authService.ResendOTP(c.Request().Context(), req.UserID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "New OTP sent", resendResponse{ExpiresIn: ch.ExpiresIn})
}

// AdminLogin authenticates dashboard staff.
//
// @Summary      Staff login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      adminLoginRequest  true  "Email and password"
// @Success      200   {object}  response.Envelope{data=sessionResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /auth/admin-login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req adminLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.AdminLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "Login successful", toSession(res))
}

// Me returns the caller's public profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=meResponse}
// @Failure      401  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "", meResponse{User: user.View()})
}

// Session reports whether the request carries a valid access token.
//
// @Summary      Session state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Envelope{data=sessionStateResponse}
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return response.Success(c, http.StatusOK, "", sessionStateResponse{})
	}
	return response.Success(c, http.StatusOK, "", sessionStateResponse{
		Authenticated: true,
		UserID:        claims.UserID,
		Role:          claims.Role,
	})
}

func toSession(res *ports.AuthResult) sessionResponse {
	return sessionResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         res.User.View(),
	}
}
