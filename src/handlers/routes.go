package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rutdashboard/rut-dashboard-api/src/metrics"
	"github.com/rutdashboard/rut-dashboard-api/src/middleware"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
)

// Routes groups the handlers mounted by Register
type Routes struct {
	Tokens    middleware.TokenVerifier
	Admins    *AdminHandler
	Process   *ProcessRutHandler
	Results   *RutResultHandler
	Health    *HealthHandler
	Simulator *SimulatorHandler // nil outside development

	LoginRateLimit int // requests per minute per IP
}

// Register mounts every API route on router
func (r Routes) Register(router *gin.Engine) {
	router.GET("/health", r.Health.HandleHealth)
	router.GET("/ready", r.Health.HandleReady)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1")

	if r.Simulator != nil {
		api.POST("/test/process-rut", r.Simulator.HandleProcessRut)
	}

	api.POST("/admin/login", middleware.LoginRateLimitMiddleware(r.LoginRateLimit), r.Admins.HandleLogin)

	authed := api.Group("")
	authed.Use(middleware.Authenticate(r.Tokens))

	readers := middleware.Authorize(models.RoleAdmin, models.RoleSuperAdmin)
	superOnly := middleware.Authorize(models.RoleSuperAdmin)

	admin := authed.Group("/admin")
	{
		admin.GET("/profile", r.Admins.HandleProfile)
		admin.PUT("/change-password", r.Admins.HandleChangePassword)
		admin.GET("/active", readers, r.Admins.HandleListActive)
		admin.GET("", readers, r.Admins.HandleList)
		admin.GET("/:id", readers, r.Admins.HandleGet)
		admin.POST("", superOnly, r.Admins.HandleCreate)
		admin.PUT("/:id", superOnly, r.Admins.HandleUpdate)
		admin.DELETE("/:id", superOnly, r.Admins.HandleDelete)
		admin.PATCH("/:id/toggle-status", superOnly, r.Admins.HandleToggleStatus)
	}

	authed.POST("/process-rut", r.Process.HandleProcessRut)

	results := authed.Group("/rut-results")
	{
		results.GET("/stats", r.Results.HandleStats)
		results.GET("/search", r.Results.HandleSearch)
		results.GET("/my-results", r.Results.HandleMyResults)
		results.GET("/by-rut/:rut", r.Results.HandleByRUT)
		results.POST("", r.Results.HandleCreate)
		results.GET("", readers, r.Results.HandleList)
		results.GET("/:id", r.Results.HandleGet)
		results.PUT("/:id", r.Results.HandleUpdate)
		results.DELETE("/:id", r.Results.HandleDelete)
	}

	router.NoRoute(NoRoute)
}
