package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	bookingRepo "gymflow/database/repository/booking"
	scheduleRepo "gymflow/database/repository/schedule"
	"gymflow/services/conflict"
	"gymflow/utils"
)

// respondServiceError maps service-layer failures onto HTTP statuses.
// Detected conflicts never come through here: a conflict verdict is a normal
// response, not an error.
func respondServiceError(c *gin.Context, err error) {
	var ve *conflict.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.JSONFieldError(c, ve.Field, ve.Reason)
	case conflict.IsProviderUnavailable(err):
		utils.JSONError(c, http.StatusServiceUnavailable, "commitment data unavailable", err.Error())
	case errors.Is(err, conflict.ErrOwnerBusy):
		utils.JSONError(c, http.StatusLocked, "owner calendar is busy", "another booking operation is in progress; retry shortly")
	case errors.Is(err, scheduleRepo.ErrNotFound), errors.Is(err, bookingRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
