package handlers

import (
	portssvc "github.com/azsoft/erp_accounting_backend/internal/core/ports/services"
	"github.com/azsoft/erp_accounting_backend/internal/middleware"
	"github.com/azsoft/erp_accounting_backend/pkg/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the entity
// route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerGiroRoutes(v1, services.Giro)
	registerWipRoutes(v1, services.Wip)
	registerProductionRoutes(v1, services.Production)
	registerReportingRoutes(v1, services.Reporting)
}
