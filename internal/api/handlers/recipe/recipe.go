// Package recipe exposes the recipe library routes: CRUD, feedback, local
// and web search, and the prefill pipeline.
package recipe

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/core/model"
	"meal-planner/internal/core/prefill"
	recipesvc "meal-planner/internal/core/recipe"
)

// Handler serves the /recipes routes.
type Handler struct {
	recipes  *recipesvc.Service
	importer *recipesvc.Importer
	prefill  *prefill.Service
}

// NewHandler creates a recipe handler.
func NewHandler(recipes *recipesvc.Service, importer *recipesvc.Importer, prefillSvc *prefill.Service) *Handler {
	return &Handler{recipes: recipes, importer: importer, prefill: prefillSvc}
}

// Register mounts the recipe routes on the group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/local-search", h.LocalSearch)
	group.POST("/search", h.Search)
	group.POST("/prefill", h.Prefill)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.POST("/:id/feedback", h.Feedback)
}

// List returns the whole library, thumbnails backfilled from import sources.
func (h *Handler) List(c *gin.Context) {
	details, err := h.recipes.List(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Create adds a recipe to the library.
func (h *Handler) Create(c *gin.Context) {
	var recipe model.Recipe
	if !handlers.BindStrict(c, &recipe) {
		return
	}
	if err := h.recipes.Create(c.Request.Context(), &recipe); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Get returns one recipe with its source metadata merged in.
func (h *Handler) Get(c *gin.Context) {
	detail, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Update replaces a recipe and re-syncs the plan and shopping views that
// reference it.
func (h *Handler) Update(c *gin.Context) {
	var recipe model.Recipe
	if !handlers.BindStrict(c, &recipe) {
		return
	}
	if err := h.recipes.Update(c.Request.Context(), c.Param("id"), &recipe); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Feedback records the family's votes on a recipe.
func (h *Handler) Feedback(c *gin.Context) {
	var req struct {
		FamilyFeedback map[string]interface{} `json:"family_feedback"`
	}
	if !handlers.BindStrict(c, &req) {
		return
	}
	if req.FamilyFeedback == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing family_feedback."})
		return
	}
	recipe, err := h.recipes.UpdateFeedback(c.Request.Context(), c.Param("id"), req.FamilyFeedback)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// LocalSearch ranks the library against a free-text query.
func (h *Handler) LocalSearch(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
	results, err := h.recipes.LocalSearch(c.Request.Context(), query, limit)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Search finds importable recipe candidates on the web.
func (h *Handler) Search(c *gin.Context) {
	var req recipesvc.ImportSearchRequest
	handlers.Bind(c, &req)
	resp, err := h.importer.Search(c.Request.Context(), req)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Prefill extracts a recipe draft from a YouTube URL.
func (h *Handler) Prefill(c *gin.Context) {
	var req prefill.Request
	handlers.Bind(c, &req)
	resp, err := h.prefill.Run(c.Request.Context(), req)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
