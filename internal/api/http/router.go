package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/fleet-admin/internal/api/http/handlers"
	"github.com/spec-kit/fleet-admin/internal/auth"
	"github.com/spec-kit/fleet-admin/internal/domain"
	"github.com/spec-kit/fleet-admin/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	EmployeeViews     *handlers.EmployeeViewsHandler
	Notifications     *handlers.NotificationsHandler
	StatusHistory     *handlers.StatusHistoryHandler
	SessionMiddleware *auth.SessionMiddleware
	Metrics           *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api", cfg.SessionMiddleware.Handle)

	views := api.Group("/views/employees", auth.RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleAccountant))
	views.Post("/", cfg.EmployeeViews.Open)
	views.Get("/:viewID", cfg.EmployeeViews.Get)
	views.Patch("/:viewID/filter", cfg.EmployeeViews.UpdateFilter)
	views.Put("/:viewID/page", cfg.EmployeeViews.SetPage)
	views.Post("/:viewID/reload", cfg.EmployeeViews.Reload)
	views.Post("/:viewID/employees/:employeeID/toggle-status", cfg.EmployeeViews.ToggleStatus)
	views.Delete("/:viewID", cfg.EmployeeViews.Close)

	api.Get("/employees/:employeeID/status-history",
		auth.RequireRole(domain.RoleAdmin, domain.RoleManager),
		cfg.StatusHistory.List)

	notifications := api.Group("/notifications")
	notifications.Get("/dashboard", auth.RequireRole(), cfg.Notifications.Dashboard)
	notifications.Post("/alerts/:alertID/acknowledge", auth.RequireRole(), cfg.Notifications.AcknowledgeAlert)
	deciders := auth.RequireRole(domain.RoleAdmin, domain.RoleManager)
	notifications.Post("/approvals/:approvalID/approve", deciders, cfg.Notifications.Approve)
	notifications.Post("/approvals/:approvalID/reject", deciders, cfg.Notifications.Reject)
}
