// Account HTTP handlers.
//
// This file exposes the public endpoints:
//   - POST /register         (create account, returns token)
//   - POST /login            (returns token)
//   - POST /forgot-password  (issues a reset link)
//   - POST /reset-password   (consumes a reset token)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-doubts-backend/internal/services"
)

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	Username string  `json:"username" example:"alice"`
	Password string  `json:"password" example:"s3cret"`
	Email    string  `json:"email"    example:"alice@campus.edu"`
	Branch   *string `json:"branch"   example:"CSE"`
}

// LoginRequest is the JSON payload for logging in.
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"s3cret"`
}

// ForgotPasswordRequest is the JSON payload for requesting a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"alice@campus.edu"`
}

// ForgotPasswordResponse carries the generated reset link.
type ForgotPasswordResponse struct {
	Message   string `json:"message"   example:"Password reset link generated"`
	ResetLink string `json:"resetLink" example:"http://127.0.0.1:5500/client/reset-password.html?token=ab12"`
}

// ResetPasswordRequest is the JSON payload for setting a new password.
type ResetPasswordRequest struct {
	Token       string `json:"token"       example:"ab12"`
	NewPassword string `json:"newPassword" example:"n3w-s3cret"`
}

// Register godoc
// @ID          register
// @Summary     Create an account
// @Description Registers a user and returns a bearer token with the public user fields.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.RegisterRequest  true  "Account"
// @Success     201   {object}  services.AuthResult
// @Failure     400   {object}  handlers.ErrorResponse  "All fields required"
// @Failure     409   {object}  handlers.ErrorResponse  "Username or email already exists"
// @Failure     500   {object}  handlers.ErrorResponse  "Registration failed"
// @Router      /register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Branch:   req.Branch,
	})
	if err != nil {
		h.failWith(c, err, ErrCodeRegisterFailed, "Registration failed")
		return
	}
	ok(c, http.StatusCreated, res)
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LoginRequest  true  "Credentials"
// @Success     200   {object}  services.AuthResult
// @Failure     400   {object}  handlers.ErrorResponse  "All fields required"
// @Failure     401   {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     500   {object}  handlers.ErrorResponse  "Login failed"
// @Router      /login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.failWith(c, err, ErrCodeLoginFailed, "Login failed")
		return
	}
	ok(c, http.StatusOK, res)
}

// ForgotPassword godoc
// @ID          forgotPassword
// @Summary     Request a password reset link
// @Description Stores a single-use reset token and returns the link that embeds it. No email is sent.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.ForgotPasswordRequest  true  "Account email"
// @Success     200   {object}  handlers.ForgotPasswordResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Email is required"
// @Failure     404   {object}  handlers.ErrorResponse  "Email not found"
// @Failure     500   {object}  handlers.ErrorResponse  "Failed to process forgot password"
// @Router      /forgot-password [post]
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	link, err := h.auth.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		h.failWith(c, err, ErrCodeResetFailed, "Failed to process forgot password")
		return
	}
	ok(c, http.StatusOK, ForgotPasswordResponse{
		Message:   "Password reset link generated",
		ResetLink: link,
	})
}

// ResetPassword godoc
// @ID          resetPassword
// @Summary     Set a new password with a reset token
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.ResetPasswordRequest  true  "Token and new password"
// @Success     200   {object}  handlers.MessageResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Invalid or expired token"
// @Failure     500   {object}  handlers.ErrorResponse  "Failed to reset password"
// @Router      /reset-password [post]
func (h *Handlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		h.failWith(c, err, ErrCodeResetFailed, "Failed to reset password")
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "Password reset successfully"})
}
