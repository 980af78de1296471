package router

import "github.com/gin-gonic/gin"

// contactRoutes need no token; only protected-data is guarded
func (r *Router) contactRoutes(addressBook *gin.RouterGroup) {
	addressBook.GET("", r.contactHandler.GetAll)
	addressBook.GET("/:id", r.contactHandler.GetByID)
	addressBook.POST("", r.contactHandler.Add)
	addressBook.PUT("/:id", r.contactHandler.Update)
	addressBook.DELETE("/:id", r.contactHandler.Delete)
}
