package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitclubhq/fitclub-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStores hands out device-scoped credential stores backed by the
// credentials table.
type GormStores struct {
	db *gorm.DB
}

func NewGormStores(db *gorm.DB) *GormStores {
	return &GormStores{db: db}
}

func (s *GormStores) ForDevice(deviceID string) Store {
	return NewGormStore(s.db, deviceID)
}

// GormStore persists one device's credentials in the credentials table.
type GormStore struct {
	db       *gorm.DB
	deviceID string
}

func NewGormStore(db *gorm.DB, deviceID string) *GormStore {
	return &GormStore{db: db, deviceID: deviceID}
}

func (s *GormStore) Put(ctx context.Context, key Key, value string) error {
	if !validKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.Credential{
		DeviceID: s.deviceID,
		Key:      string(key),
		Value:    value,
	}).Error
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrStorageUnavailable, key, err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, key Key) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	var cred models.Credential
	err := s.db.WithContext(ctx).
		Where("device_id = ? AND key = ?", s.deviceID, string(key)).
		First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", ErrStorageUnavailable, key, err)
	}
	return cred.Value, nil
}

func (s *GormStore) Clear(ctx context.Context) error {
	var failed []Key
	for _, key := range Keys {
		err := s.db.WithContext(ctx).
			Where("device_id = ? AND key = ?", s.deviceID, string(key)).
			Delete(&models.Credential{}).Error
		if err != nil {
			failed = append(failed, key)
		}
	}
	if len(failed) > 0 {
		return &ClearError{Failed: failed}
	}
	return nil
}
