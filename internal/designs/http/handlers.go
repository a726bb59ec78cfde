package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/verdara/verdara-backend/internal/auth"
	"github.com/verdara/verdara-backend/internal/designs/service"
)

const defaultGalleryCount = 12

type Handler struct {
	svc *service.DesignService
}

func New(svc *service.DesignService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) save(c *gin.Context) {
	var req saveDesignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	ownerID := auth.UserFirebaseUID(c)
	res, err := h.svc.SaveDesign(c.Request.Context(), ownerID, req.Design, req.IsPublic)
	if err != nil {
		// Save failures must be visible: the user needs to know the
		// design was not persisted.
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": res.ID, "publicId": res.PublicID})
}

func (h *Handler) listMine(c *gin.Context) {
	ownerID := auth.UserFirebaseUID(c)
	designs, err := h.svc.GetUserDesigns(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "designs": designs})
}

func (h *Handler) listPublic(c *gin.Context) {
	count := defaultGalleryCount
	if raw := c.Query("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			count = n
		}
	}

	designs := h.svc.GetPublicDesigns(c.Request.Context(), count)
	c.JSON(http.StatusOK, gin.H{"ok": true, "designs": designs})
}

func (h *Handler) getByID(c *gin.Context) {
	d, err := h.svc.GetDesignByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	// Internal ids are owner-scoped. A design owned by someone else is
	// reported as absent rather than forbidden, so ids cannot be probed.
	// Cross-user reads go through the public id route instead.
	if d == nil || d.OwnerID != auth.UserFirebaseUID(c) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "design not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "design": d})
}

func (h *Handler) getByPublicID(c *gin.Context) {
	d, err := h.svc.GetDesignByPublicID(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "design not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "design": d})
}

func (h *Handler) delete(c *gin.Context) {
	d, err := h.svc.GetDesignByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if d == nil || d.OwnerID != auth.UserFirebaseUID(c) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "design not found"})
		return
	}

	if err := h.svc.DeleteDesign(c.Request.Context(), d.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
