package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zdaasd321231/rdp-manager/internal/models"
	"github.com/zdaasd321231/rdp-manager/internal/store"
)

// ConnectionManager owns connection records and derives server status from
// them: a server is active while at least one of its connections is active or
// connecting. Close updates two records without a transaction; concurrent
// opens and closes on the same server race on the status field last-write-wins.
type ConnectionManager struct {
	servers     store.ServerStore
	connections store.ConnectionStore
}

func NewConnectionManager(servers store.ServerStore, connections store.ConnectionStore) *ConnectionManager {
	return &ConnectionManager{servers: servers, connections: connections}
}

// Open creates a connecting session against an existing server and marks the
// server active. Opening counts as server activity even while the connection
// itself is still connecting.
func (m *ConnectionManager) Open(serverID uuid.UUID) (*models.RDPConnection, error) {
	server, err := m.servers.FindByID(serverID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrServerNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	conn := &models.RDPConnection{
		ID:                 uuid.New(),
		ServerID:           serverID,
		SessionID:          uuid.NewString(),
		GuacamoleSessionID: server.GuacamoleConnectionID,
		Status:             models.StatusConnecting,
		StartedAt:          now,
	}

	if err := m.connections.Insert(conn); err != nil {
		return nil, err
	}

	if err := m.servers.Update(serverID, map[string]interface{}{
		"status":     models.StatusActive,
		"updated_at": now,
	}); err != nil {
		return nil, err
	}

	return conn, nil
}

func (m *ConnectionManager) List() ([]models.RDPConnection, error) {
	return m.connections.FindAll()
}

// ListActive returns connections that are active or connecting.
func (m *ConnectionManager) ListActive() ([]models.RDPConnection, error) {
	return m.connections.FindActive()
}

// Close ends a connection and, when it was the server's last active or
// connecting one, flips the server back to inactive. This is the only
// transition from active to inactive.
func (m *ConnectionManager) Close(connectionID uuid.UUID) error {
	conn, err := m.connections.FindByID(connectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrConnectionNotFound
		}
		return err
	}

	now := time.Now().UTC()
	if err := m.connections.Update(connectionID, map[string]interface{}{
		"status":   models.StatusInactive,
		"ended_at": now,
	}); err != nil {
		return err
	}

	remaining, err := m.connections.CountActiveForServer(conn.ServerID)
	if err != nil {
		return err
	}

	if remaining == 0 {
		err := m.servers.Update(conn.ServerID, map[string]interface{}{
			"status":     models.StatusInactive,
			"updated_at": now,
		})
		// The server may have been deleted while this connection was open;
		// its orphaned connections still close normally.
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	return nil
}
