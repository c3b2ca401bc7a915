package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/zdaasd321231/rdp-manager/internal/models"
)

func TestCreateServer(t *testing.T) {
	f := newFixture()

	server := f.mustCreate(t)

	if server.Status != models.StatusInactive {
		t.Errorf("new server status = %q, want inactive", server.Status)
	}
	if server.OSType != models.OSWindows {
		t.Errorf("default os_type = %q, want windows", server.OSType)
	}
	if server.GuacamoleConnectionID != "guac-conn-1" {
		t.Errorf("guacamole_connection_id = %q, want mirrored identifier", server.GuacamoleConnectionID)
	}
	if server.CreatedAt.IsZero() || server.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	// The mirrored identifier must be persisted, not just set on the return.
	stored, err := f.registry.Get(server.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.GuacamoleConnectionID != "guac-conn-1" {
		t.Errorf("stored guacamole_connection_id = %q", stored.GuacamoleConnectionID)
	}

	other := f.mustCreate(t)
	if other.ID == server.ID {
		t.Error("ids must be unique across creations")
	}
}

func TestCreateServerDefaultsPort(t *testing.T) {
	f := newFixture()

	input := validInput()
	input.Port = 0
	server, err := f.registry.Create(input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if server.Port != 3389 {
		t.Errorf("port = %d, want 3389", server.Port)
	}
}

func TestCreateServerValidation(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name string
		mut  func(*models.ServerCreateInput)
	}{
		{"missing name", func(i *models.ServerCreateInput) { i.Name = "" }},
		{"missing host", func(i *models.ServerCreateInput) { i.Host = "" }},
		{"missing username", func(i *models.ServerCreateInput) { i.Username = "" }},
		{"missing password", func(i *models.ServerCreateInput) { i.Password = "" }},
		{"port out of range", func(i *models.ServerCreateInput) { i.Port = 70000 }},
		{"unknown os_type", func(i *models.ServerCreateInput) { i.OSType = "solaris" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mut(&input)
			if _, err := f.registry.Create(input); !errors.Is(err, ErrValidation) {
				t.Fatalf("got %v, want ErrValidation", err)
			}
		})
	}

	servers, _ := f.registry.List()
	if len(servers) != 0 {
		t.Errorf("rejected inputs must not persist anything, found %d servers", len(servers))
	}
}

func TestCreateServerGatewayAuthFailure(t *testing.T) {
	f := newFixture()
	f.gateway.authErr = errors.New("401 from gateway")

	server, err := f.registry.Create(validInput())
	if err != nil {
		t.Fatalf("gateway failure must not fail creation: %v", err)
	}
	if server.GuacamoleConnectionID != "" {
		t.Errorf("guacamole_connection_id = %q, want unset", server.GuacamoleConnectionID)
	}

	failures := f.syncFailures(t)
	if len(failures) != 1 {
		t.Fatalf("got %d sync failure audit rows, want 1", len(failures))
	}
}

func TestCreateServerGatewayCreateFailure(t *testing.T) {
	f := newFixture()
	f.gateway.createErr = errors.New("gateway exploded")

	server, err := f.registry.Create(validInput())
	if err != nil {
		t.Fatalf("gateway failure must not fail creation: %v", err)
	}
	if server.GuacamoleConnectionID != "" {
		t.Errorf("guacamole_connection_id = %q, want unset", server.GuacamoleConnectionID)
	}
	if len(f.syncFailures(t)) != 1 {
		t.Error("expected a sync failure audit row")
	}
}

func TestGetServerNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.registry.Get(uuid.New())
	assertNotFound(t, err, ErrServerNotFound)
}

func TestUpdateServerNotFound(t *testing.T) {
	f := newFixture()
	name := "nope"
	_, err := f.registry.Update(uuid.New(), models.ServerUpdateInput{Name: &name})
	assertNotFound(t, err, ErrServerNotFound)
}

func TestUpdateServerPartial(t *testing.T) {
	f := newFixture()
	server := f.mustCreate(t)

	time.Sleep(5 * time.Millisecond)

	name := "Updated Windows Server"
	desc := "This server has been updated"
	updated, err := f.registry.Update(server.ID, models.ServerUpdateInput{
		Name:        &name,
		Description: &desc,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Name != name || updated.Description != desc {
		t.Errorf("supplied fields not applied: %+v", updated)
	}
	if updated.Host != server.Host || updated.Port != server.Port ||
		updated.Username != server.Username || updated.Password != server.Password ||
		updated.Domain != server.Domain || updated.OSType != server.OSType {
		t.Errorf("unsupplied fields changed: %+v", updated)
	}
	if !updated.UpdatedAt.After(server.UpdatedAt) {
		t.Errorf("updated_at did not increase: %v -> %v", server.UpdatedAt, updated.UpdatedAt)
	}
}

func TestUpdateServerEmptyInputTouchesNothing(t *testing.T) {
	f := newFixture()
	server := f.mustCreate(t)

	updated, err := f.registry.Update(server.ID, models.ServerUpdateInput{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.UpdatedAt.Equal(server.UpdatedAt) {
		t.Errorf("updated_at changed on empty update: %v -> %v", server.UpdatedAt, updated.UpdatedAt)
	}
}

func TestUpdateServerRejectsBadValues(t *testing.T) {
	f := newFixture()
	server := f.mustCreate(t)

	badOS := "beos"
	if _, err := f.registry.Update(server.ID, models.ServerUpdateInput{OSType: &badOS}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad os_type: got %v, want ErrValidation", err)
	}

	badPort := 0
	if _, err := f.registry.Update(server.ID, models.ServerUpdateInput{Port: &badPort}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad port: got %v, want ErrValidation", err)
	}
}

func TestDeleteServerNotFound(t *testing.T) {
	f := newFixture()
	assertNotFound(t, f.registry.Delete(uuid.New()), ErrServerNotFound)
}

func TestDeleteServerMirrorsGatewayDelete(t *testing.T) {
	f := newFixture()
	server := f.mustCreate(t)

	if err := f.registry.Delete(server.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(f.gateway.deleted) != 1 || f.gateway.deleted[0] != "guac-conn-1" {
		t.Errorf("gateway deletions = %v, want [guac-conn-1]", f.gateway.deleted)
	}
	_, err := f.registry.Get(server.ID)
	assertNotFound(t, err, ErrServerNotFound)
}

func TestDeleteServerWithoutMirrorSkipsGateway(t *testing.T) {
	f := newFixture()
	f.gateway.authErr = errors.New("down")
	server := f.mustCreate(t) // created without a mirror

	f.gateway.authErr = nil
	if err := f.registry.Delete(server.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.gateway.deleted) != 0 {
		t.Errorf("gateway delete called for an unmirrored server: %v", f.gateway.deleted)
	}
}

func TestDeleteServerGatewayFailureStillDeletes(t *testing.T) {
	f := newFixture()
	server := f.mustCreate(t)
	f.gateway.deleteErr = errors.New("504 from gateway")

	if err := f.registry.Delete(server.ID); err != nil {
		t.Fatalf("gateway failure must not block deletion: %v", err)
	}
	_, err := f.registry.Get(server.ID)
	assertNotFound(t, err, ErrServerNotFound)
	if len(f.syncFailures(t)) != 1 {
		t.Error("expected a sync failure audit row")
	}
}

func TestDeleteServerKeepsConnections(t *testing.T) {
	f := newFixture()
	server := f.mustCreate(t)

	conn, err := f.manager.Open(server.ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := f.registry.Delete(server.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The connection record is orphaned, not removed.
	orphan, err := f.connections.FindByID(conn.ID)
	if err != nil {
		t.Fatalf("orphaned connection gone: %v", err)
	}
	if orphan.Status != models.StatusConnecting {
		t.Errorf("orphaned connection status = %q, want untouched", orphan.Status)
	}
}
