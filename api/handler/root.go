package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/etfflow/models"
)

// Root returns a handler for GET /, describing the available routes.
func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.RoutesResponse{
			Message: "Bitcoin ETF Flow Scraper API",
			Endpoints: map[string]string{
				"/":       "This page",
				"/scrape": "Scrape and return Bitcoin ETF flow data",
				"/health": "Health check",
			},
		})
	}
}
