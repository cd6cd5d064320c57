package repo

import (
	"VaultKeeper/internal/model"
	"context"
	"encoding/json"
	"fmt"
)

// MetaStore хранит VaultMeta в открытом виде под ключом "meta". Секретов не содержит.
type MetaStore struct {
	kv KVStore
}

// NewMetaStore создаёт MetaStore поверх KV-хранилища.
func NewMetaStore(kv KVStore) *MetaStore {
	return &MetaStore{kv: kv}
}

// Load возвращает meta или ErrNotFound, если хранилище ещё не инициализировано.
func (s *MetaStore) Load(ctx context.Context) (*model.VaultMeta, error) {
	raw, err := s.kv.Get(ctx, KeyMeta)
	if err != nil {
		return nil, err
	}
	var m model.VaultMeta
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode meta: %w", err)
	}
	return &m, nil
}

// Save перезаписывает meta целиком.
func (s *MetaStore) Save(ctx context.Context, m *model.VaultMeta) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	return s.kv.Set(ctx, KeyMeta, raw)
}
