package vault

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is(err, vault.ErrVaultLocked) to check for a specific condition.
var (
	// ErrNotInitialized — meta ещё не создана. Наружу не выходит: State инициализирует хранилище сам.
	ErrNotInitialized = errors.New("vault: not initialized")
	// ErrInvalidPassword — тег не сошёлся при разблокировке.
	ErrInvalidPassword = errors.New("vault: invalid master password")
	// ErrVaultLocked — операция требует активной сессии.
	ErrVaultLocked = errors.New("vault: locked")
	// ErrCorruptVault — blob не прошёл проверку целостности вне пути разблокировки.
	ErrCorruptVault = errors.New("vault: corrupt vault")
	// ErrStorage совпадает с любым *StorageError через errors.Is.
	ErrStorage = errors.New("vault: storage failure")
)

// StorageError оборачивает ошибку внешнего хранилища. Повторов внутри нет.
type StorageError struct {
	Op  string // "load meta", "save meta", "read vault", "write vault"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
