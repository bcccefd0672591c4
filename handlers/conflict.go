package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gymflow/models"
	"gymflow/services/conflict"
	"gymflow/utils"
)

// ConflictHandler exposes the conflict engine over HTTP.
type ConflictHandler struct {
	Svc    conflict.ConflictService
	Logger *zap.Logger
}

func NewConflictHandler(svc conflict.ConflictService, logger *zap.Logger) *ConflictHandler {
	return &ConflictHandler{Svc: svc, Logger: logger}
}

// CheckConflict runs a read-only conflict check for a candidate commitment.
func (h *ConflictHandler) CheckConflict(c *gin.Context) {
	var req models.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	resp, err := h.Svc.CheckCandidate(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetDayAvailability lists the free gaps in an owner's day.
func (h *ConflictHandler) GetDayAvailability(c *gin.Context) {
	ownerKind := c.Param("kind")
	ownerID := c.Param("id")
	date := c.Query("date")
	if date == "" {
		utils.JSONFieldError(c, "date", "date query parameter is required")
		return
	}

	gaps, err := h.Svc.DayAvailability(c.Request.Context(), ownerID, ownerKind, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]gin.H, 0, len(gaps))
	for _, g := range gaps {
		views = append(views, gin.H{
			"start": models.FormatClock(g.Start),
			"end":   models.FormatClock(g.End),
		})
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "free": views})
}
