package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/etfflow/api/handler"
	"github.com/use-agent/etfflow/config"
	"github.com/use-agent/etfflow/output"
)

// NewRouter creates a configured Gin engine with all routes.
//
// Routes live at the root (no version prefix); the API surface is three
// read-only endpoints and the upstream contract does all the changing.
func NewRouter(runner handler.Runner, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/", handler.Root())
	r.GET("/health", handler.Health(startTime))
	r.GET("/scrape", handler.Scrape(runner, output.NewWriter(cfg.Output.Dir)))

	return r
}
