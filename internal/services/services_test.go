package services

import (
	"errors"
	"testing"

	"github.com/zdaasd321231/rdp-manager/internal/models"
	"github.com/zdaasd321231/rdp-manager/internal/store"
)

// fakeGateway stands in for the Guacamole client. The zero value succeeds on
// every call and hands out a fixed identifier.
type fakeGateway struct {
	authErr   error
	createErr error
	deleteErr error

	identifier string
	created    []string // server names passed to CreateConnection
	deleted    []string // identifiers passed to DeleteConnection
}

func (f *fakeGateway) Authenticate() (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	return "test-token", nil
}

func (f *fakeGateway) CreateConnection(token string, server *models.RDPServer) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, server.Name)
	if f.identifier != "" {
		return f.identifier, nil
	}
	return "guac-conn-1", nil
}

func (f *fakeGateway) DeleteConnection(token, identifier string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, identifier)
	return nil
}

type fixture struct {
	servers     *store.MemoryServerStore
	connections *store.MemoryConnectionStore
	audits      *store.MemoryAuditStore
	gateway     *fakeGateway
	registry    *ServerRegistry
	manager     *ConnectionManager
}

func newFixture() *fixture {
	f := &fixture{
		servers:     store.NewMemoryServerStore(),
		connections: store.NewMemoryConnectionStore(),
		audits:      store.NewMemoryAuditStore(),
		gateway:     &fakeGateway{},
	}
	audit := NewAuditRecorder(f.audits)
	f.registry = NewServerRegistry(f.servers, f.gateway, audit)
	f.manager = NewConnectionManager(f.servers, f.connections)
	return f
}

func validInput() models.ServerCreateInput {
	return models.ServerCreateInput{
		Name:     "Windows Server 2022",
		Host:     "win-server.example.com",
		Port:     3389,
		Username: "administrator",
		Password: "SecureP@ssw0rd!",
		Domain:   "EXAMPLE",
	}
}

func (f *fixture) mustCreate(t *testing.T) *models.RDPServer {
	t.Helper()
	server, err := f.registry.Create(validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return server
}

func (f *fixture) syncFailures(t *testing.T) []models.AuditLog {
	t.Helper()
	logs, _, err := f.audits.List("system", "gateway_sync_failed", 0, 0)
	if err != nil {
		t.Fatalf("audit List: %v", err)
	}
	return logs
}

func assertNotFound(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("got error %v, want %v", err, want)
	}
}
