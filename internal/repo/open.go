package repo

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Open выбирает реализацию KVStore по DSN и возвращает (store, cleanup, error).
// mongodb:// и mongodb+srv:// — MongoDB (имя БД из пути URI, по умолчанию "vaultkeeper");
// остальное передаётся в InitDB.
func Open(ctx context.Context, dsn string) (KVStore, func() error, error) {
	if strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://") {
		dbName := "vaultkeeper"
		if u, err := url.Parse(dsn); err == nil {
			if p := strings.Trim(u.Path, "/"); p != "" {
				dbName = p
			}
		}
		m, err := NewMongoKV(ctx, dsn, dbName, "vault_records")
		if err != nil {
			return nil, nil, err
		}
		return m, func() error { return m.Close(context.Background()) }, nil
	}

	if isFilePath(dsn) {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
			return nil, nil, err
		}
	}
	db, err := InitDB(dsn)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return NewKVRepository(db), cleanup, nil
}

func isFilePath(dsn string) bool {
	return !strings.Contains(dsn, "://") && !strings.HasPrefix(dsn, "file:") &&
		!strings.HasPrefix(dsn, "host=") && dsn != ":memory:"
}
