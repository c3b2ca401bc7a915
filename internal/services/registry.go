package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zdaasd321231/rdp-manager/internal/guacamole"
	"github.com/zdaasd321231/rdp-manager/internal/models"
	"github.com/zdaasd321231/rdp-manager/internal/store"
)

// ServerRegistry owns RDP server records. Local storage is the source of
// truth; the Guacamole mirror is advisory and may diverge. There is no resync:
// a server that missed its mirror stays without a guacamole_connection_id
// until it is recreated.
type ServerRegistry struct {
	servers store.ServerStore
	gateway guacamole.Client
	audit   *AuditRecorder
}

func NewServerRegistry(servers store.ServerStore, gateway guacamole.Client, audit *AuditRecorder) *ServerRegistry {
	return &ServerRegistry{servers: servers, gateway: gateway, audit: audit}
}

// Create validates, persists the server as inactive, then mirrors it to the
// gateway. Mirroring failures are reported on the audit channel only; the
// caller always gets the created record.
func (r *ServerRegistry) Create(input models.ServerCreateInput) (*models.RDPServer, error) {
	if input.Name == "" || input.Host == "" || input.Username == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, host, username and password are required", ErrValidation)
	}

	port := input.Port
	if port == 0 {
		port = 3389
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("%w: port %d out of range", ErrValidation, port)
	}

	osType := models.OSWindows
	if input.OSType != "" {
		parsed, err := models.ParseOSType(input.OSType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		osType = parsed
	}

	now := time.Now().UTC()
	server := &models.RDPServer{
		ID:          uuid.New(),
		Name:        input.Name,
		Host:        input.Host,
		Port:        port,
		Username:    input.Username,
		Password:    input.Password,
		Domain:      input.Domain,
		OSType:      osType,
		Description: input.Description,
		Status:      models.StatusInactive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.servers.Insert(server); err != nil {
		return nil, err
	}

	r.mirrorCreate(server)
	return server, nil
}

func (r *ServerRegistry) List() ([]models.RDPServer, error) {
	return r.servers.FindAll()
}

func (r *ServerRegistry) Get(id uuid.UUID) (*models.RDPServer, error) {
	server, err := r.servers.FindByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrServerNotFound
		}
		return nil, err
	}
	return server, nil
}

// Update applies only the supplied fields and refreshes updated_at. A request
// carrying no fields leaves the record untouched, timestamp included.
func (r *ServerRegistry) Update(id uuid.UUID, input models.ServerUpdateInput) (*models.RDPServer, error) {
	if _, err := r.Get(id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Host != nil {
		fields["host"] = *input.Host
	}
	if input.Port != nil {
		if *input.Port < 1 || *input.Port > 65535 {
			return nil, fmt.Errorf("%w: port %d out of range", ErrValidation, *input.Port)
		}
		fields["port"] = *input.Port
	}
	if input.Username != nil {
		fields["username"] = *input.Username
	}
	if input.Password != nil {
		fields["password"] = *input.Password
	}
	if input.Domain != nil {
		fields["domain"] = *input.Domain
	}
	if input.OSType != nil {
		parsed, err := models.ParseOSType(*input.OSType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		fields["os_type"] = parsed
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}

	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		if err := r.servers.Update(id, fields); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrServerNotFound
			}
			return nil, err
		}
	}

	return r.Get(id)
}

// Delete removes the mirrored gateway connection best-effort, then the local
// record. Connection records referencing the server are left in place.
func (r *ServerRegistry) Delete(id uuid.UUID) error {
	server, err := r.Get(id)
	if err != nil {
		return err
	}

	if server.GuacamoleConnectionID != "" {
		r.mirrorDelete(server)
	}

	if err := r.servers.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrServerNotFound
		}
		return err
	}
	return nil
}

func (r *ServerRegistry) mirrorCreate(server *models.RDPServer) {
	token, err := r.gateway.Authenticate()
	if err != nil {
		r.reportSyncFailure("authenticate", server.ID, err)
		return
	}

	identifier, err := r.gateway.CreateConnection(token, server)
	if err != nil {
		r.reportSyncFailure("create_connection", server.ID, err)
		return
	}

	if err := r.servers.Update(server.ID, map[string]interface{}{
		"guacamole_connection_id": identifier,
	}); err != nil {
		slog.Error("Failed to store guacamole connection id", "server_id", server.ID, "error", err)
		return
	}
	server.GuacamoleConnectionID = identifier

	slog.Info("Server mirrored to guacamole", "server_id", server.ID, "identifier", identifier)
}

func (r *ServerRegistry) mirrorDelete(server *models.RDPServer) {
	token, err := r.gateway.Authenticate()
	if err != nil {
		r.reportSyncFailure("authenticate", server.ID, err)
		return
	}

	if err := r.gateway.DeleteConnection(token, server.GuacamoleConnectionID); err != nil {
		r.reportSyncFailure("delete_connection", server.ID, err)
	}
}

func (r *ServerRegistry) reportSyncFailure(stage string, serverID uuid.UUID, err error) {
	slog.Warn("Guacamole sync failed", "stage", stage, "server_id", serverID, "error", err)
	r.audit.Record("system", "gateway_sync_failed", serverID.String(), map[string]interface{}{
		"stage": stage,
		"error": err.Error(),
	})
}
