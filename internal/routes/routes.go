package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zdaasd321231/rdp-manager/internal/config"
	"github.com/zdaasd321231/rdp-manager/internal/handlers"
	"github.com/zdaasd321231/rdp-manager/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	serverHandler *handlers.ServerHandler,
	connectionHandler *handlers.ConnectionHandler,
	systemHandler *handlers.SystemHandler,
	auditHandler *handlers.AuditHandler,
) {
	// ─── Public ──────────────────────────────────────────────────────────
	app.Get("/api/", systemHandler.Root)
	app.Get("/api/health", systemHandler.Health)

	// ─── Auth ────────────────────────────────────────────────────────────
	app.Post("/api/auth/login", authHandler.Login)
	app.Post("/api/auth/refresh", authHandler.Refresh)

	// ─── Protected routes ────────────────────────────────────────────────
	api := app.Group("/api", middleware.JWTProtected(cfg.JWTSecret))

	api.Get("/auth/me", authHandler.Me)

	// RDP Servers
	api.Get("/rdp-servers", serverHandler.ListServers)
	api.Post("/rdp-servers", serverHandler.CreateServer)
	api.Get("/rdp-servers/:id", serverHandler.GetServer)
	api.Put("/rdp-servers/:id", serverHandler.UpdateServer)
	api.Delete("/rdp-servers/:id", serverHandler.DeleteServer)

	// Connections
	api.Post("/connections", connectionHandler.OpenConnection)
	api.Get("/connections", connectionHandler.ListConnections)
	api.Get("/connections/active", connectionHandler.ListActiveConnections)
	api.Delete("/connections/:id", connectionHandler.CloseConnection)

	// Audit trail
	api.Get("/audit", auditHandler.ListAuditLogs)
}
