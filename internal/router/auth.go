package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(addressBook *gin.RouterGroup) {
	addressBook.POST("/register", r.authHandler.Register)
	addressBook.POST("/login", r.authHandler.Login)
	addressBook.POST("/forgot-password", r.authHandler.ForgotPassword)
	addressBook.POST("/reset-password", r.authHandler.ResetPassword)

	// Static segment, so it wins over /:id
	addressBook.GET("/protected-data", r.jwtMw.RequireAuth(), r.authHandler.ProtectedData)
}
