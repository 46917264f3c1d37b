package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secugard/secugard/internal/apiserver/middleware"
	"github.com/secugard/secugard/pkg/version"
)

// RegisterRoutes mounts the whole HTTP surface on the given engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(middleware.TraceID())
	r.Use(middleware.RequestLogger(h.logger))
	r.Use(middleware.Metrics())
	r.Use(h.errs.RecoveryMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": version.Get()})
	})

	api := r.Group("/api")
	api.POST("/auth/login", h.Login)

	authed := api.Group("")
	authed.Use(middleware.JWTAuthMiddleware(h.jwt))

	authed.POST("/auth/change-password", h.ChangePassword)
	authed.POST("/auth/permissions", h.GrantPermission)
	authed.DELETE("/auth/permissions", h.RevokePermission)

	authed.GET("/enterprises", h.ListEnterprises)
	authed.POST("/enterprises", h.CreateEnterprise)
	authed.GET("/enterprises/:id", h.GetEnterprise)
	authed.PUT("/enterprises/:id", h.UpdateEnterprise)
	authed.DELETE("/enterprises/:id", h.DeleteEnterprise)

	authed.GET("/sites", h.ListSites)
	authed.POST("/sites", h.CreateSite)
	authed.GET("/sites/:id", h.GetSite)
	authed.PUT("/sites/:id", h.UpdateSite)
	authed.DELETE("/sites/:id", h.DeleteSite)

	authed.GET("/zones", h.ListZones)
	authed.POST("/zones", h.CreateZone)
	authed.GET("/zones/:id", h.GetZone)
	authed.PUT("/zones/:id", h.UpdateZone)
	authed.DELETE("/zones/:id", h.DeleteZone)
	authed.POST("/zones/:id/confirm", h.ConfirmZone)
	authed.POST("/zones/:id/reopen", h.ReopenZone)
	authed.GET("/zones/:id/tags", h.ListZoneTags)
	authed.GET("/zones/:id/patrol-logs", h.ListZonePatrolLogs)

	// Plannings are nested under a zone and day index; both are stamped
	// from the URL.
	authed.GET("/zones/:id/days/:day/plannings", h.ListPlannings)
	authed.POST("/zones/:id/days/:day/plannings", h.CreatePlanning)
	authed.GET("/zones/:id/days/:day/plannings/:planningId", h.GetPlanning)
	authed.PUT("/zones/:id/days/:day/plannings/:planningId", h.UpdatePlanning)
	authed.DELETE("/zones/:id/days/:day/plannings/:planningId", h.DeletePlanning)

	authed.GET("/employees", h.ListEmployees)
	authed.POST("/employees", h.CreateEmployee)
	authed.GET("/employees/:id", h.GetEmployee)
	authed.PUT("/employees/:id", h.UpdateEmployee)
	authed.DELETE("/employees/:id", h.DeleteEmployee)

	authed.GET("/tags", h.ListTags)
	authed.POST("/tags", h.CreateTag)
	authed.GET("/tags/:id", h.GetTag)
	authed.PUT("/tags/:id", h.UpdateTag)
	authed.DELETE("/tags/:id", h.DeleteTag)

	authed.GET("/holidays", h.ListHolidays)
	authed.POST("/holidays", h.CreateHoliday)
	authed.GET("/holidays/:id", h.GetHoliday)
	authed.PUT("/holidays/:id", h.UpdateHoliday)
	authed.DELETE("/holidays/:id", h.DeleteHoliday)

	authed.GET("/patrol-logs", h.ListPatrolLogs)
	authed.POST("/patrol-logs", h.CreatePatrolLog)
	authed.GET("/patrol-logs/:id", h.GetPatrolLog)
	authed.PUT("/patrol-logs/:id", h.UpdatePatrolLog)
	authed.DELETE("/patrol-logs/:id", h.DeletePatrolLog)
	authed.POST("/patrol-logs/:id/check", h.CheckPatrolLog)
}
