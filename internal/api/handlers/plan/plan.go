// Package plan exposes the weekly plan routes.
package plan

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/core/model"
	plansvc "meal-planner/internal/core/plan"
	"meal-planner/internal/core/store"
	"meal-planner/internal/pkg/common"
)

// Handler serves the /plan routes.
type Handler struct {
	plans *plansvc.Service
	store store.Store
	now   func() time.Time
}

// NewHandler creates a plan handler.
func NewHandler(plans *plansvc.Service, st store.Store) *Handler {
	return &Handler{plans: plans, store: st, now: time.Now}
}

// Register mounts the plan routes on the group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("", h.Weekly)
	group.GET("/dates", h.Dates)
	group.POST("/start", h.Start)
	group.POST("/generate", h.Generate)
	group.POST("/assign", h.Assign)
	group.POST("/lock", h.Lock)
	group.POST("/lock-all", h.LockAll)
	group.POST("/complete", h.Complete)
	group.POST("/clear", h.Clear)
}

// Weekly returns the seven-day view starting at start_date (default today).
func (h *Handler) Weekly(c *gin.Context) {
	startDate := c.Query("start_date")
	if startDate == "" {
		startDate = common.FormatDate(h.now())
	}
	weekly, err := h.plans.WeeklyPlanForDate(c.Request.Context(), startDate)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, weekly)
}

// Dates lists every calendar date that has a stored plan.
func (h *Handler) Dates(c *gin.Context) {
	dates, err := h.plans.PlanDates(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

// Start returns the weekly view anchored at an explicit start date.
func (h *Handler) Start(c *gin.Context) {
	var req struct {
		StartDate string `json:"start_date"`
	}
	handlers.Bind(c, &req)
	if req.StartDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing start_date."})
		return
	}
	weekly, err := h.plans.WeeklyPlanForDate(c.Request.Context(), req.StartDate)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, weekly)
}

// Generate auto-fills the week's open slots.
func (h *Handler) Generate(c *gin.Context) {
	var req struct {
		StartDate string `json:"start_date"`
	}
	handlers.Bind(c, &req)
	initialDate := req.StartDate
	if initialDate == "" {
		initialDate = common.FormatDate(h.now())
	}
	weekly, err := h.plans.WeeklyPlanForDate(c.Request.Context(), initialDate)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	updated, err := h.plans.AutoGenerate(c.Request.Context(), weekly, req.StartDate)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type slotRequest struct {
	Date      string `json:"date"`
	Meal      string `json:"meal"`
	RecipeID  string `json:"recipe_id"`
	StartDate string `json:"start_date"`
}

// Assign puts a recipe into a day's meal slot.
func (h *Handler) Assign(c *gin.Context) {
	var req slotRequest
	handlers.Bind(c, &req)
	if req.Date == "" || req.Meal == "" || req.RecipeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payload fields."})
		return
	}
	ctx := c.Request.Context()
	recipe, err := h.store.RecipeByID(ctx, req.RecipeID)
	if err != nil {
		handlers.Error(c, common.NewNotFound("Recipe not found."))
		return
	}
	weekly, err := h.plans.WeeklyPlanForDate(ctx, common.FirstNonEmpty(req.StartDate, req.Date))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	updated, err := h.plans.AssignMeal(ctx, weekly, req.Date, req.Meal, recipe)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Lock toggles a slot's lock flag.
func (h *Handler) Lock(c *gin.Context) {
	h.mutateSlot(c, h.plans.ToggleLock)
}

// Complete toggles a slot's completed flag.
func (h *Handler) Complete(c *gin.Context) {
	h.mutateSlot(c, h.plans.ToggleComplete)
}

// Clear empties a slot.
func (h *Handler) Clear(c *gin.Context) {
	h.mutateSlot(c, h.plans.ClearMeal)
}

func (h *Handler) mutateSlot(c *gin.Context, mutate func(ctx context.Context, weekly *model.WeeklyPlan, date, meal string) (*model.WeeklyPlan, error)) {
	var req slotRequest
	handlers.Bind(c, &req)
	if req.Date == "" || req.Meal == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payload fields."})
		return
	}
	ctx := c.Request.Context()
	weekly, err := h.plans.WeeklyPlanForDate(ctx, common.FirstNonEmpty(req.StartDate, req.Date))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	updated, err := mutate(ctx, weekly, req.Date, req.Meal)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// LockAll sets every slot's lock flag at once.
func (h *Handler) LockAll(c *gin.Context) {
	var req struct {
		Locked    *bool  `json:"locked"`
		StartDate string `json:"start_date"`
	}
	handlers.Bind(c, &req)
	if req.Locked == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing locked flag."})
		return
	}
	ctx := c.Request.Context()
	startDate := req.StartDate
	if startDate == "" {
		startDate = common.FormatDate(h.now())
	}
	weekly, err := h.plans.WeeklyPlanForDate(ctx, startDate)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	updated, err := h.plans.LockAll(ctx, weekly, *req.Locked)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
