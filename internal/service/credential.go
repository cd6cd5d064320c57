package service

import (
	"VaultKeeper/internal/model"
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentStore — доступ к расшифрованному документу. Реализуется vault.State.
type DocumentStore interface {
	View(ctx context.Context, fn func(doc *model.Document) error) error
	Update(ctx context.Context, fn func(doc *model.Document) error) error
}

// ErrEmptyID возвращается Delete без идентификатора.
var ErrEmptyID = errors.New("credential id is empty")

// CredentialService инкапсулирует операции над учётными записями.
// Все методы требуют разблокированного хранилища и продлевают сессию при успехе.
type CredentialService struct {
	store  DocumentStore
	logger *zap.SugaredLogger
}

func NewCredentialService(store DocumentStore, logger *zap.SugaredLogger) *CredentialService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CredentialService{store: store, logger: logger}
}

// ForOrigin возвращает записи, у которых origin входит в список origins, в порядке хранения.
func (s *CredentialService) ForOrigin(ctx context.Context, origin string) ([]model.Credential, error) {
	out := []model.Credential{}
	err := s.store.View(ctx, func(doc *model.Document) error {
		for _, c := range doc.Credentials {
			if c.MatchesOrigin(origin) {
				out = append(out, c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List возвращает все записи в порядке хранения.
func (s *CredentialService) List(ctx context.Context) ([]model.Credential, error) {
	var out []model.Credential
	err := s.store.View(ctx, func(doc *model.Document) error {
		out = append([]model.Credential{}, doc.Credentials...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Save заменяет запись с тем же id на месте или добавляет новую в конец.
// Пустой id заменяется свежим UUID. Возвращает id сохранённой записи.
func (s *CredentialService) Save(ctx context.Context, c model.Credential) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Origins == nil {
		c.Origins = []string{}
	}
	var replaced bool
	err := s.store.Update(ctx, func(doc *model.Document) error {
		if i := doc.IndexOf(c.ID); i >= 0 {
			doc.Credentials[i] = c
			replaced = true
			return nil
		}
		doc.Credentials = append(doc.Credentials, c)
		return nil
	})
	if err != nil {
		return "", err
	}
	s.logger.Infow("credential saved", "id", c.ID, "replaced", replaced)
	return c.ID, nil
}

// Delete удаляет запись по id. Отсутствующий id не ошибка.
func (s *CredentialService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	var removed bool
	err := s.store.Update(ctx, func(doc *model.Document) error {
		kept := doc.Credentials[:0]
		for _, c := range doc.Credentials {
			if c.ID == id {
				removed = true
				continue
			}
			kept = append(kept, c)
		}
		doc.Credentials = kept
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Infow("credential deleted", "id", id, "existed", removed)
	return nil
}
