package store

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zdaasd321231/rdp-manager/internal/models"
)

type GormServerStore struct {
	db *gorm.DB
}

func NewGormServerStore(db *gorm.DB) *GormServerStore {
	return &GormServerStore{db: db}
}

func (s *GormServerStore) Insert(srv *models.RDPServer) error {
	return s.db.Create(srv).Error
}

func (s *GormServerStore) FindByID(id uuid.UUID) (*models.RDPServer, error) {
	var srv models.RDPServer
	if err := s.db.First(&srv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &srv, nil
}

func (s *GormServerStore) FindAll() ([]models.RDPServer, error) {
	var servers []models.RDPServer
	if err := s.db.Order("created_at DESC").Find(&servers).Error; err != nil {
		return nil, err
	}
	return servers, nil
}

func (s *GormServerStore) Update(id uuid.UUID, fields map[string]interface{}) error {
	res := s.db.Model(&models.RDPServer{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormServerStore) Delete(id uuid.UUID) error {
	res := s.db.Delete(&models.RDPServer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type GormConnectionStore struct {
	db *gorm.DB
}

func NewGormConnectionStore(db *gorm.DB) *GormConnectionStore {
	return &GormConnectionStore{db: db}
}

func (s *GormConnectionStore) Insert(conn *models.RDPConnection) error {
	return s.db.Create(conn).Error
}

func (s *GormConnectionStore) FindByID(id uuid.UUID) (*models.RDPConnection, error) {
	var conn models.RDPConnection
	if err := s.db.First(&conn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conn, nil
}

func (s *GormConnectionStore) FindAll() ([]models.RDPConnection, error) {
	var conns []models.RDPConnection
	if err := s.db.Order("started_at DESC").Find(&conns).Error; err != nil {
		return nil, err
	}
	return conns, nil
}

func (s *GormConnectionStore) FindActive() ([]models.RDPConnection, error) {
	var conns []models.RDPConnection
	if err := s.db.Where("status IN ?", activeStatuses).
		Order("started_at DESC").
		Find(&conns).Error; err != nil {
		return nil, err
	}
	return conns, nil
}

func (s *GormConnectionStore) Update(id uuid.UUID, fields map[string]interface{}) error {
	res := s.db.Model(&models.RDPConnection{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormConnectionStore) CountActiveForServer(serverID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.RDPConnection{}).
		Where("server_id = ? AND status IN ?", serverID, activeStatuses).
		Count(&count).Error
	return count, err
}

type GormAuditStore struct {
	db *gorm.DB
}

func NewGormAuditStore(db *gorm.DB) *GormAuditStore {
	return &GormAuditStore{db: db}
}

func (s *GormAuditStore) Insert(l *models.AuditLog) error {
	return s.db.Create(l).Error
}

func (s *GormAuditStore) List(actor, action string, offset, limit int) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})
	if actor != "" {
		query = query.Where("actor = ?", actor)
	}
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
