package handlers

import (
	"net/http"

	"gamecritic/cache"
	"gamecritic/db"

	"github.com/gin-gonic/gin"
)

// Health reports liveness plus the state of the backing services. The
// cache being down degrades service but does not fail the check.
func Health(c *gin.Context) {
	dbStatus := "up"
	if sqlDB, err := db.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	cacheStatus := "up"
	if !cache.IsRedisAvailable() {
		cacheStatus = "down"
	}

	status := http.StatusOK
	if dbStatus == "down" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbStatus,
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}
