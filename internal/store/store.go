package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/zdaasd321231/rdp-manager/internal/models"
)

// ErrNotFound is returned by every FindByID/Update/Delete when no record
// matches the id, regardless of backend.
var ErrNotFound = errors.New("record not found")

// ServerStore persists RDP server records. Update applies only the given
// column/value pairs; callers are responsible for stamping updated_at.
type ServerStore interface {
	Insert(s *models.RDPServer) error
	FindByID(id uuid.UUID) (*models.RDPServer, error)
	FindAll() ([]models.RDPServer, error)
	Update(id uuid.UUID, fields map[string]interface{}) error
	Delete(id uuid.UUID) error
}

// ConnectionStore persists connection records. Connections are never deleted,
// only closed, so no Delete is exposed.
type ConnectionStore interface {
	Insert(c *models.RDPConnection) error
	FindByID(id uuid.UUID) (*models.RDPConnection, error)
	FindAll() ([]models.RDPConnection, error)
	FindActive() ([]models.RDPConnection, error)
	Update(id uuid.UUID, fields map[string]interface{}) error
	CountActiveForServer(serverID uuid.UUID) (int64, error)
}

type AuditStore interface {
	Insert(l *models.AuditLog) error
	List(actor, action string, offset, limit int) ([]models.AuditLog, int64, error)
}

// activeStatuses are the connection states that keep a server active.
var activeStatuses = []models.RDPStatus{models.StatusActive, models.StatusConnecting}
