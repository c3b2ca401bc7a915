package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/zdaasd321231/rdp-manager/internal/store"
)

type AuditHandler struct {
	store store.AuditStore
}

func NewAuditHandler(s store.AuditStore) *AuditHandler {
	return &AuditHandler{store: s}
}

// ListAuditLogs returns paginated audit logs, filterable by actor and action.
func (h *AuditHandler) ListAuditLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page", "50"))
	actor := c.Query("actor", "")
	action := c.Query("action", "")

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	logs, total, err := h.store.List(actor, action, (page-1)*perPage, perPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list audit logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs":     logs,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}
