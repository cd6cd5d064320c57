package router

import (
	"VaultKeeper/internal/generator"
	"VaultKeeper/internal/model"
	"VaultKeeper/internal/service"
	"VaultKeeper/internal/vault"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// Vault — операции жизненного цикла хранилища, нужные роутеру.
type Vault interface {
	Status() vault.Status
	Unlock(ctx context.Context, password string) error
	Lock()
	SetAutolock(ctx context.Context, d time.Duration) error
}

// Credentials — операции над учётными записями.
type Credentials interface {
	ForOrigin(ctx context.Context, origin string) ([]model.Credential, error)
	List(ctx context.Context) ([]model.Credential, error)
	Save(ctx context.Context, c model.Credential) (string, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ Vault       = (*vault.State)(nil)
	_ Credentials = (*service.CredentialService)(nil)
)

// MaxAutolockMs — наибольший durationMs, который ещё помещается в time.Duration.
const MaxAutolockMs = math.MaxInt64 / int64(time.Millisecond)

// Router — единая точка входа протокола. Любая ошибка превращается в ответ, паник наружу нет.
type Router struct {
	vault  Vault
	creds  Credentials
	logger *zap.SugaredLogger
}

func New(v Vault, creds Credentials, logger *zap.SugaredLogger) *Router {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Router{vault: v, creds: creds, logger: logger}
}

// HandleJSON разбирает сообщение и обрабатывает его.
func (r *Router) HandleJSON(ctx context.Context, data []byte) Response {
	req, err := Decode(data)
	if err != nil {
		return r.fail("decode", err)
	}
	return r.Handle(ctx, req)
}

// Handle обрабатывает запрос.
func (r *Router) Handle(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorw("panic while handling message", "panic", p)
			resp = failure(KindInternal, "internal error")
		}
	}()

	switch m := req.(type) {
	case StatusRequest:
		st := r.vault.Status()
		return success(StatusPayload{Unlocked: st.Unlocked(), AutolockMs: st.Autolock.Milliseconds()})

	case UnlockRequest:
		if err := r.vault.Unlock(ctx, m.Password); err != nil {
			return r.fail(m.Type(), err)
		}
		return success(nil)

	case LockRequest:
		r.vault.Lock()
		return success(nil)

	case ListCredentialsRequest:
		list, err := r.creds.List(ctx)
		if err != nil {
			return r.fail(m.Type(), err)
		}
		return success(CredentialsPayload{Credentials: list})

	case GetCredentialsForOriginRequest:
		list, err := r.creds.ForOrigin(ctx, m.Origin)
		if err != nil {
			return r.fail(m.Type(), err)
		}
		return success(CredentialsPayload{Credentials: list})

	case SaveCredentialRequest:
		id, err := r.creds.Save(ctx, m.Credential)
		if err != nil {
			return r.fail(m.Type(), err)
		}
		return success(SavePayload{ID: id})

	case DeleteCredentialRequest:
		if err := r.creds.Delete(ctx, m.ID); err != nil {
			return r.fail(m.Type(), err)
		}
		return success(nil)

	case SetAutolockRequest:
		if m.DurationMs <= 0 {
			return failure(KindBadRequest, "durationMs must be positive")
		}
		if m.DurationMs > MaxAutolockMs {
			return failure(KindBadRequest, fmt.Sprintf("durationMs must not exceed %d", MaxAutolockMs))
		}
		if err := r.vault.SetAutolock(ctx, time.Duration(m.DurationMs)*time.Millisecond); err != nil {
			return r.fail(m.Type(), err)
		}
		return success(nil)

	case GeneratePasswordRequest:
		pw, err := generator.Generate(m.Options)
		if err != nil {
			return r.fail(m.Type(), err)
		}
		return success(PasswordPayload{Password: pw})

	default:
		return failure(KindUnknownCommand, "unknown command")
	}
}

// fail переводит ошибку в ответ протокола. Содержимое хранилища в сообщения не попадает,
// для StorageFailure наружу уходят только операция и причина отказа.
func (r *Router) fail(op string, err error) Response {
	var resp Response
	switch {
	case errors.Is(err, vault.ErrInvalidPassword):
		resp = failure(KindInvalidPassword, "Invalid master password")
	case errors.Is(err, vault.ErrVaultLocked):
		resp = failure(KindVaultLocked, "Vault is locked")
	case errors.Is(err, vault.ErrCorruptVault):
		resp = failure(KindCorruptVault, "Vault data failed integrity check")
	case errors.Is(err, vault.ErrStorage):
		resp = failure(KindStorageFailure, storageMessage(err))
	case errors.Is(err, vault.ErrNotInitialized):
		resp = failure(KindNotInitialized, "Vault is not initialized")
	case errors.Is(err, ErrUnknownCommand):
		resp = failure(KindUnknownCommand, err.Error())
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrEmptyID):
		resp = failure(KindBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		resp = failure(KindInternal, "request cancelled")
	default:
		resp = failure(KindInternal, "internal error")
	}

	switch resp.Kind {
	case KindStorageFailure, KindCorruptVault, KindInternal:
		r.logger.Errorw("message failed", "op", op, "kind", resp.Kind, "error", err)
	default:
		r.logger.Debugw("message rejected", "op", op, "kind", resp.Kind)
	}
	return resp
}

func storageMessage(err error) string {
	var se *vault.StorageError
	if errors.As(err, &se) {
		return se.Error()
	}
	return "Storage failure"
}
