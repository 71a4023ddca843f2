// Package reco exposes the daily recommendation routes.
package reco

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meal-planner/internal/api/handlers"
	recosvc "meal-planner/internal/core/reco"
)

// Handler serves the /recommendations routes.
type Handler struct {
	reco *recosvc.Service
}

// NewHandler creates a recommendation handler.
func NewHandler(reco *recosvc.Service) *Handler {
	return &Handler{reco: reco}
}

// Register mounts the recommendation routes on the group.
func (h *Handler) Register(group *gin.RouterGroup) {
	daily := group.Group("/recommendations/daily")
	daily.GET("", h.List)
	daily.POST("/run", h.Run)
	daily.POST("/:runId/accept", h.Accept)
	daily.POST("/:runId/discard", h.Discard)
	daily.POST("/:runId/delete", h.Delete)
}

// List returns the retained runs, newest first.
func (h *Handler) List(c *gin.Context) {
	runs, err := h.reco.Runs(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// Run generates (or returns the cached) run for a date.
func (h *Handler) Run(c *gin.Context) {
	var req recosvc.RunRequest
	handlers.Bind(c, &req)
	resp, err := h.reco.Run(c.Request.Context(), req)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Accept resolves a candidate to a recipe and optionally assigns it.
func (h *Handler) Accept(c *gin.Context) {
	var req recosvc.AcceptRequest
	handlers.Bind(c, &req)
	req.RunID = c.Param("runId")
	resp, err := h.reco.Accept(c.Request.Context(), req)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Discard marks a candidate as passed over.
func (h *Handler) Discard(c *gin.Context) {
	var req struct {
		CandidateID string `json:"candidate_id"`
	}
	handlers.Bind(c, &req)
	resp, err := h.reco.Discard(c.Request.Context(), c.Param("runId"), req.CandidateID)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a run.
func (h *Handler) Delete(c *gin.Context) {
	resp, err := h.reco.Delete(c.Request.Context(), c.Param("runId"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
