package http

import "github.com/gin-gonic/gin"

// Register attaches owner-scoped design routes to the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.save)
	rg.GET("", h.listMine)
	rg.GET("/:id", h.getByID)
	rg.DELETE("/:id", h.delete)
}

// RegisterPublic attaches the unauthenticated gallery and shareable-link
// routes.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/public-designs", h.listPublic)
	rg.GET("/p/:public_id", h.getByPublicID)
}
