package vault

import (
	"VaultKeeper/internal/crypto"
	"VaultKeeper/internal/model"
	"VaultKeeper/internal/repo"
	"context"
	"errors"
	"fmt"
)

func emptyDocument() *model.Document {
	return &model.Document{Credentials: []model.Credential{}}
}

func decode(raw, key []byte) (*model.Document, error) {
	blob, err := crypto.ParseBlob(raw)
	if err != nil {
		return nil, err
	}
	doc := emptyDocument()
	if err := crypto.Decrypt(blob, key, doc); err != nil {
		return nil, err
	}
	if doc.Credentials == nil {
		doc.Credentials = []model.Credential{}
	}
	return doc, nil
}

// load читает и расшифровывает документ ключом текущей сессии.
// Ошибка целостности здесь — уже не неверный пароль, а повреждение: сессия закрывается.
func (s *State) load(ctx context.Context, key []byte) (*model.Document, error) {
	raw, err := s.blobs.Get(ctx, repo.KeyVault)
	if errors.Is(err, repo.ErrNotFound) {
		return emptyDocument(), nil
	}
	if err != nil {
		return nil, storageErr("read vault", err)
	}
	doc, err := decode(raw, key)
	if err != nil {
		s.mu.Lock()
		s.lockLocked("corrupt vault")
		s.mu.Unlock()
		s.logger.Errorw("vault integrity check failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrCorruptVault, err)
	}
	return doc, nil
}

// View расшифровывает документ и передаёт его fn только для чтения.
// Без активной сессии возвращает ErrVaultLocked, не обращаясь к хранилищу.
func (s *State) View(ctx context.Context, fn func(doc *model.Document) error) error {
	key, err := s.sessionKey()
	if err != nil {
		return err
	}
	defer crypto.Zero(key)

	doc, err := s.load(ctx, key)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	s.Touch()
	return nil
}

// Update выполняет цикл decrypt→mutate→encrypt→persist над документом целиком.
// Одновременно выполняется не более одного такого цикла; остальные ждут своей очереди.
// Ожидание можно прервать через ctx, начатый цикл доводится до конца.
func (s *State) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	if !s.IsUnlocked() {
		return ErrVaultLocked
	}
	if err := s.mutations.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.mutations.Release(1)
	ctx = context.WithoutCancel(ctx)

	// пока ждали очереди, сессию могли закрыть
	key, err := s.sessionKey()
	if err != nil {
		return err
	}
	defer crypto.Zero(key)

	doc, err := s.load(ctx, key)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	blob, err := crypto.Encrypt(doc, key)
	if err != nil {
		return fmt.Errorf("encrypt vault: %w", err)
	}
	if err := s.blobs.Set(ctx, repo.KeyVault, blob.Marshal()); err != nil {
		return storageErr("write vault", err)
	}
	s.Touch()
	return nil
}
