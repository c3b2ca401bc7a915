package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/zdaasd321231/rdp-manager/internal/services"
)

type ConnectionHandler struct {
	manager *services.ConnectionManager
	audit   *services.AuditRecorder
}

func NewConnectionHandler(manager *services.ConnectionManager, audit *services.AuditRecorder) *ConnectionHandler {
	return &ConnectionHandler{manager: manager, audit: audit}
}

func (h *ConnectionHandler) OpenConnection(c *fiber.Ctx) error {
	var req struct {
		ServerID string `json:"server_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	serverID, err := uuid.Parse(req.ServerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid server ID",
		})
	}

	conn, err := h.manager.Open(serverID)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(actor(c), "connection_opened", conn.ID.String(), map[string]interface{}{
		"server_id":  conn.ServerID.String(),
		"session_id": conn.SessionID,
	})

	return c.JSON(conn)
}

func (h *ConnectionHandler) ListConnections(c *fiber.Ctx) error {
	conns, err := h.manager.List()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(conns)
}

func (h *ConnectionHandler) ListActiveConnections(c *fiber.Ctx) error {
	conns, err := h.manager.ListActive()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(conns)
}

func (h *ConnectionHandler) CloseConnection(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid connection ID",
		})
	}

	if err := h.manager.Close(id); err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(actor(c), "connection_closed", id.String(), nil)

	return c.JSON(fiber.Map{"message": "Connection ended successfully"})
}
