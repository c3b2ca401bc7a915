package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/zdaasd321231/rdp-manager/internal/config"
	"github.com/zdaasd321231/rdp-manager/internal/database"
	"github.com/zdaasd321231/rdp-manager/internal/guacamole"
	"github.com/zdaasd321231/rdp-manager/internal/handlers"
	"github.com/zdaasd321231/rdp-manager/internal/routes"
	"github.com/zdaasd321231/rdp-manager/internal/services"
	"github.com/zdaasd321231/rdp-manager/internal/store"
)

func main() {
	// JSON structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment")
	}

	slog.Info("Starting RDP Manager", "version", handlers.Version)

	// ─── Config ──────────────────────────────────────────────────────────
	cfg := config.Load()

	// ─── Storage ─────────────────────────────────────────────────────────
	var (
		db          *gorm.DB
		servers     store.ServerStore
		connections store.ConnectionStore
		audits      store.AuditStore
	)

	if cfg.StorageBackend == "memory" {
		slog.Warn("Using in-memory storage, records will not survive a restart")
		servers = store.NewMemoryServerStore()
		connections = store.NewMemoryConnectionStore()
		audits = store.NewMemoryAuditStore()
	} else {
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("Database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("Database migration failed", "error", err)
			os.Exit(1)
		}
		servers = store.NewGormServerStore(db)
		connections = store.NewGormConnectionStore(db)
		audits = store.NewGormAuditStore(db)
	}

	// ─── Guacamole gateway ──────────────────────────────────────────────
	gateway := guacamole.NewHTTPClient(cfg)

	// ─── Services ───────────────────────────────────────────────────────
	auditRecorder := services.NewAuditRecorder(audits)
	registry := services.NewServerRegistry(servers, gateway, auditRecorder)
	manager := services.NewConnectionManager(servers, connections)

	// ─── Handlers ───────────────────────────────────────────────────────
	authHandler := handlers.NewAuthHandler(cfg)
	serverHandler := handlers.NewServerHandler(registry, auditRecorder)
	connectionHandler := handlers.NewConnectionHandler(manager, auditRecorder)
	systemHandler := handlers.NewSystemHandler(db)
	auditHandler := handlers.NewAuditHandler(audits)

	// ─── Fiber App ──────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      "rdp-manager v" + handlers.Version,
		ServerHeader: "rdp-manager",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": message,
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	app.Use(recover.New(recover.Config{
		EnableStackTrace: false,
	}))

	// Request logger
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if c.Path() == "/api/health" {
			return err
		}
		slog.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
		)
		return err
	})

	// ─── Routes ─────────────────────────────────────────────────────────
	routes.Setup(app, cfg, authHandler, serverHandler, connectionHandler, systemHandler, auditHandler)

	// ─── Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down RDP Manager...")

		if err := app.Shutdown(); err != nil {
			slog.Error("Fiber shutdown error", "error", err)
		}

		if db != nil {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
	}()

	// ─── Start ──────────────────────────────────────────────────────────
	listenAddr := ":" + cfg.Port
	slog.Info("RDP Manager listening", "addr", listenAddr)

	if err := app.Listen(listenAddr); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
