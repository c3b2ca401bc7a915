package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RDPStatus is shared by servers and connections. A server is active while at
// least one of its connections is active or connecting; error is reserved for
// gateway-side failures and is never derived from the connection aggregate.
type RDPStatus string

const (
	StatusActive     RDPStatus = "active"
	StatusInactive   RDPStatus = "inactive"
	StatusConnecting RDPStatus = "connecting"
	StatusError      RDPStatus = "error"
)

// ParseRDPStatus rejects anything outside the closed set.
func ParseRDPStatus(s string) (RDPStatus, error) {
	switch RDPStatus(s) {
	case StatusActive, StatusInactive, StatusConnecting, StatusError:
		return RDPStatus(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

type OSType string

const (
	OSWindows OSType = "windows"
	OSLinux   OSType = "linux"
	OSMacOS   OSType = "macos"
)

func ParseOSType(s string) (OSType, error) {
	switch OSType(s) {
	case OSWindows, OSLinux, OSMacOS:
		return OSType(s), nil
	}
	return "", fmt.Errorf("unknown os_type %q", s)
}

// RDPServer is one managed remote machine. The password is stored and returned
// in cleartext; Guacamole needs it verbatim to open the remote session.
type RDPServer struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name                  string    `gorm:"not null" json:"name"`
	Host                  string    `gorm:"not null" json:"host"`
	Port                  int       `gorm:"default:3389" json:"port"`
	Username              string    `gorm:"not null" json:"username"`
	Password              string    `gorm:"not null" json:"password"`
	Domain                string    `json:"domain,omitempty"`
	OSType                OSType    `gorm:"type:varchar(16);default:'windows'" json:"os_type"`
	Description           string    `json:"description,omitempty"`
	Status                RDPStatus `gorm:"type:varchar(16);default:'inactive'" json:"status"`
	GuacamoleConnectionID string    `json:"guacamole_connection_id,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (RDPServer) TableName() string { return "rdp_servers" }

// RDPConnection is one session attempt against a server. Once ended (inactive
// with EndedAt set) it is terminal; reopening means a new record.
type RDPConnection struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ServerID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"server_id"`
	SessionID          string     `gorm:"not null" json:"session_id"`
	Status             RDPStatus  `gorm:"type:varchar(16);default:'connecting'" json:"status"`
	GuacamoleSessionID string     `json:"guacamole_session_id,omitempty"`
	StartedAt          time.Time  `json:"started_at"`
	EndedAt            *time.Time `json:"ended_at"`
}

func (RDPConnection) TableName() string { return "rdp_connections" }

// ServerCreateInput carries the fields accepted on creation. Zero values for
// port and os_type fall back to 3389 and windows.
type ServerCreateInput struct {
	Name        string `json:"name"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Domain      string `json:"domain"`
	OSType      string `json:"os_type"`
	Description string `json:"description"`
}

// ServerUpdateInput distinguishes absent fields (nil) from supplied ones; only
// non-nil fields are written.
type ServerUpdateInput struct {
	Name        *string `json:"name"`
	Host        *string `json:"host"`
	Port        *int    `json:"port"`
	Username    *string `json:"username"`
	Password    *string `json:"password"`
	Domain      *string `json:"domain"`
	OSType      *string `json:"os_type"`
	Description *string `json:"description"`
}
