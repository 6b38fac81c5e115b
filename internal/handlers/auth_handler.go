package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	ucAuth "github.com/BruksfildServices01/psi-scheduler/internal/usecase/auth"
)

// ======================================================
// HANDLER
// ======================================================

type AuthHandler struct {
	login    *ucAuth.Login
	register *ucAuth.Register
	refresh  *ucAuth.Refresh
	logout   *ucAuth.Logout
	forgot   *ucAuth.ForgotPassword
	reset    *ucAuth.ResetPassword
}

func NewAuthHandler(
	login *ucAuth.Login,
	register *ucAuth.Register,
	refresh *ucAuth.Refresh,
	logout *ucAuth.Logout,
	forgot *ucAuth.ForgotPassword,
	reset *ucAuth.ResetPassword,
) *AuthHandler {
	return &AuthHandler{
		login:    login,
		register: register,
		refresh:  refresh,
		logout:   logout,
		forgot:   forgot,
		reset:    reset,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
	CRP       string `json:"crp"`
	BirthDate string `json:"birth_date"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ======================================================
// ENDPOINTS
// ======================================================

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email and password are required.")
		return
	}

	session, err := h.login.Execute(c.Request.Context(), ucAuth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Origin:   originOf(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Name, email and password are required.")
		return
	}

	role := req.Role
	if role == "" {
		role = "patient"
	}

	session, err := h.register.Execute(c.Request.Context(), ucAuth.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
		Phone:     req.Phone,
		Specialty: req.Specialty,
		CRP:       req.CRP,
		BirthDate: req.BirthDate,
		Origin:    originOf(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		httperr.UnauthorizedResponse(c, "invalid_refresh_token", "Refresh token is required.")
		return
	}

	session, err := h.refresh.Execute(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Logout always answers 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	_ = c.ShouldBindJSON(&req)

	if req.RefreshToken != "" {
		if err := h.logout.Execute(c.Request.Context(), req.RefreshToken); err != nil {
			_ = c.Error(err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email is required.")
		return
	}

	if err := h.forgot.Execute(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a reset link was sent."})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Token and new password are required.")
		return
	}

	err := h.reset.Execute(c.Request.Context(), ucAuth.ResetPasswordInput{
		Token:           req.Token,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated."})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
