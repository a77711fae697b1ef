package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// walletKvDao implements KVStore on top of a gorm connection.
type walletKvDao struct {
	db *gorm.DB
}

// NewWalletKvDao creates the wallet_kv table if needed and returns a KVStore backed by it.
func NewWalletKvDao(db *gorm.DB) (KVStore, error) {
	if err := db.AutoMigrate(&WalletKv{}); err != nil {
		return nil, fmt.Errorf("migrate wallet_kv: %w", err)
	}
	return &walletKvDao{
		db: db,
	}, nil
}

// Get retrieves the value stored under key.
func (d *walletKvDao) Get(ctx context.Context, key string) ([]byte, error) {
	var resp WalletKv
	err := d.db.WithContext(ctx).Where("key = ?", key).First(&resp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return resp.Value, nil
}

// Set upserts the value in a single statement.
func (d *walletKvDao) Set(ctx context.Context, key string, value []byte) error {
	data := &WalletKv{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(data).Error
}

// Remove deletes the row; a missing row is not an error.
func (d *walletKvDao) Remove(ctx context.Context, key string) error {
	return d.db.WithContext(ctx).Where("key = ?", key).Delete(&WalletKv{}).Error
}

// Close releases the underlying connection pool.
func (d *walletKvDao) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
