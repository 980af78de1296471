package middleware

import (
	"time"

	"github.com/Payphone-Digital/addressbook/config"
	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured origins. A single "*" opens the API to any
// origin, in which case credentials are not allowed.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", constants.HeaderContentType, constants.HeaderAuthorization, constants.HeaderXRequestID},
		ExposeHeaders: []string{constants.HeaderXRequestID},
		MaxAge:        12 * time.Hour,
	}

	if len(cfg.AllowOrigins) == 0 || (len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowOrigins
		corsConfig.AllowCredentials = true
	}

	return cors.New(corsConfig)
}
