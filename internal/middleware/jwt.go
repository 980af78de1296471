package middleware

import (
	"net/http"
	"strings"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/Payphone-Digital/addressbook/internal/service"
	ctxutil "github.com/Payphone-Digital/addressbook/pkg/context"
	"github.com/Payphone-Digital/addressbook/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenValidator is implemented by service.JWTService
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

type JWTMiddleware struct {
	validator TokenValidator
}

func NewJWTMiddleware(validator TokenValidator) *JWTMiddleware {
	return &JWTMiddleware{validator: validator}
}

// RequireAuth validates the bearer token and exposes the caller's identity
// both as gin keys and on the request context.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader(constants.HeaderAuthorization))
		if !ok {
			logger.GetLogger().Warn("Missing or malformed Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			unauthorized(c)
			return
		}

		claims, err := m.validator.ValidateToken(tokenString)
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			unauthorized(c)
			return
		}

		c.Set(constants.GinKeyUserID, claims.UserID)
		c.Set(constants.GinKeyUserEmail, claims.Email)
		c.Set(constants.GinKeyUserName, claims.Name)

		ctx := ctxutil.WithUserID(c.Request.Context(), claims.UserID)
		ctx = ctxutil.WithUserEmail(ctx, claims.Email)
		c.Request = c.Request.WithContext(ctx)

		logger.GetLogger().Debug("User authenticated successfully",
			zap.Uint("user_id", claims.UserID),
			zap.String("path", c.Request.URL.Path))

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
}
