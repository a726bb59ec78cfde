package http

import "github.com/gin-gonic/gin"

// Register attaches pricing routes to the given (authenticated) group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/estimate", h.estimate)
	rg.GET("/estimates", h.listEstimates)
	rg.GET("/prices/:category", h.listPrices)
}
