// Package shopping exposes the shopping list and buy list routes.
package shopping

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/core/model"
	shoppingsvc "meal-planner/internal/core/shopping"
	"meal-planner/internal/pkg/common"
)

// Handler serves the /shopping and /buy-lists routes.
type Handler struct {
	shopping *shoppingsvc.Service
	now      func() time.Time
}

// NewHandler creates a shopping handler.
func NewHandler(shopping *shoppingsvc.Service) *Handler {
	return &Handler{shopping: shopping, now: time.Now}
}

// Register mounts the shopping routes on the group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("/shopping", h.Overview)
	group.POST("/shopping", h.Apply)

	group.GET("/buy-lists", h.BuyLists)
	group.POST("/buy-lists", h.CreateBuyList)
	group.GET("/buy-lists/:id", h.BuyList)
	group.PUT("/buy-lists/:id", h.UpdateBuyList)
	group.DELETE("/buy-lists/:id", h.DeleteBuyList)
	group.POST("/buy-lists/:id/sync", h.SyncBuyList)
}

// Overview returns the merged shopping view for a week: state-backed items
// with edits plus the not-yet-added weekly aggregate.
func (h *Handler) Overview(c *gin.Context) {
	lang := c.DefaultQuery("lang", "en")
	startDate := c.Query("start_date")
	if startDate == "" {
		startDate = common.FormatDate(h.now())
	}
	overview, err := h.shopping.Overview(c.Request.Context(), startDate, lang)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Apply mutates the shopping state with one add / remove / update /
// add-manual action.
func (h *Handler) Apply(c *gin.Context) {
	var req shoppingsvc.ActionRequest
	if !handlers.BindStrict(c, &req) {
		return
	}
	if err := h.shopping.Apply(c.Request.Context(), req); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// BuyLists returns the saved lists, newest first.
func (h *Handler) BuyLists(c *gin.Context) {
	lists, err := h.shopping.BuyLists(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": lists})
}

// CreateBuyList saves a snapshot of a week's list.
func (h *Handler) CreateBuyList(c *gin.Context) {
	var list model.BuyList
	if !handlers.BindStrict(c, &list) {
		return
	}
	if err := h.shopping.SaveBuyList(c.Request.Context(), &list); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// BuyList returns one saved list.
func (h *Handler) BuyList(c *gin.Context) {
	list, err := h.shopping.BuyList(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateBuyList replaces a saved list; the path id wins over the payload id.
func (h *Handler) UpdateBuyList(c *gin.Context) {
	var list model.BuyList
	if !handlers.BindStrict(c, &list) {
		return
	}
	if err := h.shopping.UpdateBuyList(c.Request.Context(), c.Param("id"), &list); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteBuyList removes a saved list.
func (h *Handler) DeleteBuyList(c *gin.Context) {
	if err := h.shopping.DeleteBuyList(c.Request.Context(), c.Param("id")); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SyncBuyList rebuilds an unlocked list's items from its week.
func (h *Handler) SyncBuyList(c *gin.Context) {
	if _, err := h.shopping.SyncBuyList(c.Request.Context(), c.Param("id")); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
