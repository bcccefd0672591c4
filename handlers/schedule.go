package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gymflow/models"
	"gymflow/services/conflict"
	"gymflow/utils"
)

// ScheduleHandler manages recurring class schedules and standing room
// bookings.
type ScheduleHandler struct {
	Svc    conflict.ConflictService
	Logger *zap.Logger
}

func NewScheduleHandler(svc conflict.ConflictService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Svc: svc, Logger: logger}
}

type createScheduleRequest struct {
	OwnerID   string                        `json:"ownerId" binding:"required"`
	OwnerKind string                        `json:"ownerKind" binding:"required"`
	Schedule  models.RecurringScheduleInput `json:"schedule" binding:"required"`
}

// CreateSchedule persists a new weekly schedule unless it collides with the
// owner's calendar; collisions come back as 409 with the full conflict list.
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	schedule, conflicts, err := h.Svc.CreateSchedule(c.Request.Context(), req.OwnerID, req.OwnerKind, req.Schedule)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if len(conflicts) > 0 {
		c.JSON(http.StatusConflict, models.NewConflictCheckResponse(conflicts))
		return
	}
	c.JSON(http.StatusCreated, schedule)
}

// CancelSchedule flips a schedule to cancelled; it stops conflicting
// immediately.
func (h *ScheduleHandler) CancelSchedule(c *gin.Context) {
	if err := h.Svc.CancelSchedule(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusCancelled})
}

type updateWindowRequest struct {
	ValidFrom string `json:"validFrom" binding:"required"`
	ValidTo   string `json:"validTo" binding:"required"`
}

// UpdateScheduleWindow re-dates a schedule by superseding it with a new
// version, re-checked against the rest of the owner's calendar.
func (h *ScheduleHandler) UpdateScheduleWindow(c *gin.Context) {
	var req updateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	replacement, conflicts, err := h.Svc.UpdateScheduleWindow(c.Request.Context(), c.Param("id"), req.ValidFrom, req.ValidTo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if len(conflicts) > 0 {
		c.JSON(http.StatusConflict, models.NewConflictCheckResponse(conflicts))
		return
	}
	c.JSON(http.StatusOK, replacement)
}

// ListOwnerSchedules returns every schedule version for an owner, current
// and historical.
func (h *ScheduleHandler) ListOwnerSchedules(c *gin.Context) {
	schedules, err := h.Svc.ListOwnerSchedules(c.Request.Context(), c.Param("id"), c.Param("kind"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}
