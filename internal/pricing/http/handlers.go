package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/verdara/verdara-backend/internal/auth"
	"github.com/verdara/verdara-backend/internal/pricing/domain"
	"github.com/verdara/verdara-backend/internal/pricing/repository"
	"github.com/verdara/verdara-backend/internal/pricing/service"
)

type Handler struct {
	estimator *service.Estimator
	prices    *repository.PriceStore
	history   *repository.EstimateHistoryRepo
}

func New(estimator *service.Estimator, prices *repository.PriceStore, history *repository.EstimateHistoryRepo) *Handler {
	return &Handler{estimator: estimator, prices: prices, history: history}
}

type estimateReq struct {
	Items []domain.EstimateItem `json:"items"`
	Save  bool                  `json:"save"`
}

func (h *Handler) estimate(c *gin.Context) {
	var req estimateReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	est, err := h.estimator.Estimate(c.Request.Context(), req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	if req.Save {
		userID := auth.UserFirebaseUID(c)
		if _, err := h.history.Save(c.Request.Context(), userID, est); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "estimate": est})
}

func (h *Handler) listPrices(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Param("category")))
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "category required"})
		return
	}

	entries, err := h.prices.ByCategory(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "prices": entries})
}

func (h *Handler) listEstimates(c *gin.Context) {
	userID := auth.UserFirebaseUID(c)
	estimates, err := h.history.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "estimates": estimates})
}
