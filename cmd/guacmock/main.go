// Development mock of the Guacamole REST endpoints the manager talks to.
// Not a real Guacamole server: it hands out tokens and identifiers without
// validating anything beyond the request shape.
package main

import (
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := fiber.New(fiber.Config{
		AppName: "guacmock",
	})

	app.Post("/guacamole/api/tokens", func(c *fiber.Ctx) error {
		username := c.FormValue("username")
		password := c.FormValue("password")
		if username == "" || password == "" {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(fiber.Map{
			"authToken":            uuid.NewString(),
			"username":             username,
			"dataSource":           "postgresql",
			"availableDataSources": []string{"postgresql"},
		})
	})

	app.Post("/guacamole/api/session/data/:source/connections", func(c *fiber.Ctx) error {
		if c.Query("token") == "" {
			return c.SendStatus(fiber.StatusForbidden)
		}
		var req struct {
			Name     string `json:"name"`
			Protocol string `json:"protocol"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		if req.Name == "" {
			req.Name = "Mock RDP Connection"
		}
		slog.Info("Connection created", "name", req.Name, "protocol", req.Protocol)
		return c.JSON(fiber.Map{
			"identifier": uuid.NewString(),
			"name":       req.Name,
			"protocol":   req.Protocol,
		})
	})

	app.Get("/guacamole/api/session/data/:source/connections", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"mock-connection-1": fiber.Map{
				"identifier": "mock-connection-1",
				"name":       "Mock Windows Server",
				"protocol":   "rdp",
			},
		})
	})

	app.Delete("/guacamole/api/session/data/:source/connections/:id", func(c *fiber.Ctx) error {
		slog.Info("Connection deleted", "identifier", c.Params("id"))
		return c.SendStatus(fiber.StatusNoContent)
	})

	port := os.Getenv("GUACMOCK_PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("Mock Guacamole server listening", "addr", ":"+port)
	if err := app.Listen(":" + port); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
