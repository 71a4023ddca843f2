// Package settings exposes the planning configuration routes.
package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/core/model"
	"meal-planner/internal/core/store"
)

// Handler serves the /config routes.
type Handler struct {
	store store.Store
}

// NewHandler creates a settings handler.
func NewHandler(st store.Store) *Handler {
	return &Handler{store: st}
}

// Register mounts the config routes on the group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("/config", h.Get)
	group.PUT("/config", h.Update)
}

// Get returns the planning configuration.
func (h *Handler) Get(c *gin.Context) {
	cfg, err := h.store.AppConfig(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// Update replaces the planning configuration.
func (h *Handler) Update(c *gin.Context) {
	var req struct {
		Config *model.AppConfig `json:"config"`
	}
	handlers.Bind(c, &req)
	if req.Config == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing config payload."})
		return
	}
	ctx := c.Request.Context()
	if err := h.store.SaveAppConfig(ctx, *req.Config); err != nil {
		handlers.Error(c, err)
		return
	}
	cfg, err := h.store.AppConfig(ctx)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}
