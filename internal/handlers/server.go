package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/zdaasd321231/rdp-manager/internal/models"
	"github.com/zdaasd321231/rdp-manager/internal/services"
)

type ServerHandler struct {
	registry *services.ServerRegistry
	audit    *services.AuditRecorder
}

func NewServerHandler(registry *services.ServerRegistry, audit *services.AuditRecorder) *ServerHandler {
	return &ServerHandler{registry: registry, audit: audit}
}

func (h *ServerHandler) ListServers(c *fiber.Ctx) error {
	servers, err := h.registry.List()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(servers)
}

func (h *ServerHandler) CreateServer(c *fiber.Ctx) error {
	var input models.ServerCreateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	server, err := h.registry.Create(input)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(actor(c), "server_created", server.ID.String(), map[string]interface{}{
		"name": server.Name,
		"host": server.Host,
	})

	return c.JSON(server)
}

func (h *ServerHandler) GetServer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid server ID",
		})
	}

	server, err := h.registry.Get(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(server)
}

func (h *ServerHandler) UpdateServer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid server ID",
		})
	}

	var input models.ServerUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	server, err := h.registry.Update(id, input)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(actor(c), "server_updated", server.ID.String(), nil)

	return c.JSON(server)
}

func (h *ServerHandler) DeleteServer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid server ID",
		})
	}

	if err := h.registry.Delete(id); err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(actor(c), "server_deleted", id.String(), nil)

	return c.JSON(fiber.Map{"message": "RDP Server deleted successfully"})
}
