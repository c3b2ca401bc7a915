package services

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/zdaasd321231/rdp-manager/internal/models"
	"github.com/zdaasd321231/rdp-manager/internal/store"
)

// AuditRecorder writes audit entries best-effort. It doubles as the failure
// channel for gateway synchronization: sync failures land here and in the log,
// never on the request's error path.
type AuditRecorder struct {
	store store.AuditStore
}

func NewAuditRecorder(s store.AuditStore) *AuditRecorder {
	return &AuditRecorder{store: s}
}

func (r *AuditRecorder) Record(actor, action, target string, details map[string]interface{}) {
	var detailsJSON datatypes.JSON
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			detailsJSON = datatypes.JSON(b)
		}
	}

	entry := models.AuditLog{
		ID:        uuid.New(),
		Actor:     actor,
		Action:    action,
		Target:    target,
		Details:   detailsJSON,
		CreatedAt: time.Now().UTC(),
	}

	if err := r.store.Insert(&entry); err != nil {
		slog.Warn("Audit write failed", "action", action, "target", target, "error", err)
	}
}
