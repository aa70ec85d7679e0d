// Package http exposes the influence service as a JSON API. Mutations enter
// through a single endpoint; everything else is the read facade.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ashfall-games/territory/internal/territory/app"
)

// NewRouter builds the gin engine with all service routes mounted.
func NewRouter(svc *app.Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.POST("/influence", applyInfluence(svc))
		v1.GET("/sources", listSources(svc))
		v1.GET("/territories", listTerritories(svc))
		v1.GET("/territories/:id", getTerritory(svc))
		v1.GET("/territories/:id/benefits", getAlignmentBenefits(svc))
		v1.GET("/factions/:id/overview", getFactionOverview(svc))
		v1.GET("/history", listHistory(svc))
	}
	return router
}
