package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gymflow/models"
	"gymflow/services/conflict"
	"gymflow/utils"
)

// BookingHandler manages one-off session bookings: makeup classes and single
// room reservations.
type BookingHandler struct {
	Svc    conflict.ConflictService
	Logger *zap.Logger
}

func NewBookingHandler(svc conflict.ConflictService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

type createBookingRequest struct {
	OwnerID   string                     `json:"ownerId" binding:"required"`
	OwnerKind string                     `json:"ownerKind" binding:"required"`
	Booking   models.SessionBookingInput `json:"booking" binding:"required"`
}

// CreateBooking persists a one-off booking unless it collides with the
// owner's calendar; collisions come back as 409 with the conflict list.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	booking, conflicts, err := h.Svc.CreateBooking(c.Request.Context(), req.OwnerID, req.OwnerKind, req.Booking)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if len(conflicts) > 0 {
		c.JSON(http.StatusConflict, models.NewConflictCheckResponse(conflicts))
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// CancelBooking flips a booking to cancelled.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	if err := h.Svc.CancelBooking(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusCancelled})
}

// ListOwnerBookings returns all bookings for an owner, any status.
func (h *BookingHandler) ListOwnerBookings(c *gin.Context) {
	bookings, err := h.Svc.ListOwnerBookings(c.Request.Context(), c.Param("id"), c.Param("kind"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
