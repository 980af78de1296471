package handler

import (
	"context"
	"net/http"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/Payphone-Digital/addressbook/internal/dto"
	ctxutil "github.com/Payphone-Digital/addressbook/pkg/context"
	"github.com/Payphone-Digital/addressbook/pkg/logger"
	"github.com/Payphone-Digital/addressbook/pkg/validation"
	"github.com/gin-gonic/gin"
)

// AuthService is implemented by service.AuthService
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (string, error)
	ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func bindJSON(c *gin.Context, ctx context.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		details := validation.Messages(err)
		logger.WarnWithContext(ctx, "Invalid request body").
			Any("details", details).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, details))
		return false
	}
	return true
}

func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, constants.ModuleHandler, "Register")

	var req dto.RegisterRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	if err := h.authService.Register(ctx, req); err != nil {
		logger.WarnWithContext(ctx, "Registration failed").
			String("email", req.Email).
			Err(err).
			Log()
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgUserRegistered))
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, constants.ModuleHandler, "Login")

	var req dto.LoginRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	token, err := h.authService.Login(ctx, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildTokenResponse(token))
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, constants.ModuleHandler, "ForgotPassword")

	var req dto.ForgotPasswordRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	if err := h.authService.ForgotPassword(ctx, req); err != nil {
		logger.WarnWithContext(ctx, "Forgot password failed").
			String("email", req.Email).
			Err(err).
			Log()
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgResetEmailSent))
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, constants.ModuleHandler, "ResetPassword")

	var req dto.ResetPasswordRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	if err := h.authService.ResetPassword(ctx, req); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgPasswordReset))
}

// ProtectedData answers only for requests that passed the JWT middleware
func (h *AuthHandler) ProtectedData(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, constants.ModuleHandler, "ProtectedData")

	logger.DebugWithContext(ctx, "Protected data served").
		String("email", c.GetString(constants.GinKeyUserEmail)).
		Log()

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgProtectedData))
}
