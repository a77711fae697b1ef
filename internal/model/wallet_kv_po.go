package model

import "time"

// WalletKv corresponds to the wallet_kv table in the database.
type WalletKv struct {
	Key       string    `gorm:"column:key;primaryKey;size:64"`
	Value     []byte    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (WalletKv) TableName() string {
	return "wallet_kv"
}
