package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/etfflow/models"
)

// Health returns a handler for GET /health.
//
// The scrape path never takes the process down, so a served response is
// the health signal; there is no degraded state to report.
func Health(startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  "healthy",
			Service: models.ServiceName,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: models.Version,
		})
	}
}
