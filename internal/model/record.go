package model

import "time"

// Record — строка key/value хранилища (meta и зашифрованный blob).
type Record struct {
	Key       string    `gorm:"primaryKey;size:64"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName фиксирует имя таблицы независимо от naming strategy.
func (Record) TableName() string { return "vault_records" }
