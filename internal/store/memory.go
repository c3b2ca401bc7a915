package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zdaasd321231/rdp-manager/internal/models"
)

// In-memory backends, used when the service runs without Postgres (development,
// tests). Same partial-update contract as the GORM stores: unknown field names
// are an error so a typo cannot silently drop a write.

type MemoryServerStore struct {
	mu      sync.RWMutex
	servers map[uuid.UUID]models.RDPServer
}

func NewMemoryServerStore() *MemoryServerStore {
	return &MemoryServerStore{servers: make(map[uuid.UUID]models.RDPServer)}
}

func (s *MemoryServerStore) Insert(srv *models.RDPServer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers[srv.ID] = *srv
	return nil
}

func (s *MemoryServerStore) FindByID(id uuid.UUID) (*models.RDPServer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	srv, ok := s.servers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &srv, nil
}

func (s *MemoryServerStore) FindAll() ([]models.RDPServer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	servers := make([]models.RDPServer, 0, len(s.servers))
	for _, srv := range s.servers {
		servers = append(servers, srv)
	}
	sort.Slice(servers, func(i, j int) bool {
		return servers[i].CreatedAt.After(servers[j].CreatedAt)
	})
	return servers, nil
}

func (s *MemoryServerStore) Update(id uuid.UUID, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	srv, ok := s.servers[id]
	if !ok {
		return ErrNotFound
	}
	for field, value := range fields {
		switch field {
		case "name":
			srv.Name = value.(string)
		case "host":
			srv.Host = value.(string)
		case "port":
			srv.Port = value.(int)
		case "username":
			srv.Username = value.(string)
		case "password":
			srv.Password = value.(string)
		case "domain":
			srv.Domain = value.(string)
		case "os_type":
			srv.OSType = value.(models.OSType)
		case "description":
			srv.Description = value.(string)
		case "status":
			srv.Status = value.(models.RDPStatus)
		case "guacamole_connection_id":
			srv.GuacamoleConnectionID = value.(string)
		case "updated_at":
			srv.UpdatedAt = value.(time.Time)
		default:
			return fmt.Errorf("unknown server field %q", field)
		}
	}
	s.servers[id] = srv
	return nil
}

func (s *MemoryServerStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.servers[id]; !ok {
		return ErrNotFound
	}
	delete(s.servers, id)
	return nil
}

type MemoryConnectionStore struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]models.RDPConnection
}

func NewMemoryConnectionStore() *MemoryConnectionStore {
	return &MemoryConnectionStore{conns: make(map[uuid.UUID]models.RDPConnection)}
}

func (s *MemoryConnectionStore) Insert(conn *models.RDPConnection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn.ID] = *conn
	return nil
}

func (s *MemoryConnectionStore) FindByID(id uuid.UUID) (*models.RDPConnection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conn, ok := s.conns[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &conn, nil
}

func (s *MemoryConnectionStore) FindAll() ([]models.RDPConnection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conns := make([]models.RDPConnection, 0, len(s.conns))
	for _, conn := range s.conns {
		conns = append(conns, conn)
	}
	sort.Slice(conns, func(i, j int) bool {
		return conns[i].StartedAt.After(conns[j].StartedAt)
	})
	return conns, nil
}

func (s *MemoryConnectionStore) FindActive() ([]models.RDPConnection, error) {
	all, _ := s.FindAll()
	active := make([]models.RDPConnection, 0, len(all))
	for _, conn := range all {
		if isActive(conn.Status) {
			active = append(active, conn)
		}
	}
	return active, nil
}

func (s *MemoryConnectionStore) Update(id uuid.UUID, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.conns[id]
	if !ok {
		return ErrNotFound
	}
	for field, value := range fields {
		switch field {
		case "status":
			conn.Status = value.(models.RDPStatus)
		case "ended_at":
			t := value.(time.Time)
			conn.EndedAt = &t
		case "guacamole_session_id":
			conn.GuacamoleSessionID = value.(string)
		default:
			return fmt.Errorf("unknown connection field %q", field)
		}
	}
	s.conns[id] = conn
	return nil
}

func (s *MemoryConnectionStore) CountActiveForServer(serverID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, conn := range s.conns {
		if conn.ServerID == serverID && isActive(conn.Status) {
			count++
		}
	}
	return count, nil
}

func isActive(status models.RDPStatus) bool {
	for _, s := range activeStatuses {
		if status == s {
			return true
		}
	}
	return false
}

type MemoryAuditStore struct {
	mu   sync.RWMutex
	logs []models.AuditLog
}

func NewMemoryAuditStore() *MemoryAuditStore {
	return &MemoryAuditStore{}
}

func (s *MemoryAuditStore) Insert(l *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, *l)
	return nil
}

func (s *MemoryAuditStore) List(actor, action string, offset, limit int) ([]models.AuditLog, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]models.AuditLog, 0, len(s.logs))
	for i := len(s.logs) - 1; i >= 0; i-- {
		l := s.logs[i]
		if actor != "" && l.Actor != actor {
			continue
		}
		if action != "" && l.Action != action {
			continue
		}
		matched = append(matched, l)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []models.AuditLog{}, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}
