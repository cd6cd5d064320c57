package repo

import (
	"VaultKeeper/internal/model"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Ключи записей хранилища.
const (
	KeyMeta  = "meta"
	KeyVault = "vault"
)

// ErrNotFound возвращается Get, если ключа нет в хранилище.
var ErrNotFound = errors.New("record not found")

// KVStore — минимальный контракт персистентного key/value хранилища.
// Set считается долговечным после успешного возврата.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type kvRepo struct {
	db *gorm.DB
}

var _ KVStore = (*kvRepo)(nil)

// NewKVRepository создаёт KV-хранилище поверх gorm.
func NewKVRepository(db *gorm.DB) KVStore {
	return &kvRepo{db: db}
}

// InitDB открывает БД по DSN и применяет миграции.
// postgres:// и "host=..." уходят в драйвер PostgreSQL, всё остальное считается путём SQLite.
func InitDB(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.HasPrefix(dsn, "host=") {
		dial = postgres.Open(dsn)
	} else {
		// modernc.org/sqlite регистрируется под именем "sqlite" и не требует cgo
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&model.Record{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

func (r *kvRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var rec model.Record
	err := r.db.WithContext(ctx).Where("key = ?", key).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec.Value, nil
}

// Set заменяет значение целиком (upsert по первичному ключу).
func (r *kvRepo) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("empty key")
	}
	rec := &model.Record{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(rec).Error
}
