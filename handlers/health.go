package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gymflow/database"
	"gymflow/utils"
)

// HealthHandler reports liveness of the service and its backing stores.
func HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	mongoStatus := "ok"
	redisStatus := "ok"

	if err := database.Ping(ctx); err != nil {
		mongoStatus = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := utils.GetCacheClient().Ping(ctx).Err(); err != nil {
		redisStatus = err.Error()
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{"mongo": mongoStatus, "redis": redisStatus})
}
