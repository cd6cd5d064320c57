// Package crypto содержит деривацию ключа из мастер-пароля и AEAD-кодек документа хранилища.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// KeySize — длина ключа для AES‑256 (в байтах).
const KeySize = 32

// SaltSize — длина соли, генерируемой для нового хранилища.
const SaltSize = 16

// Поддерживаемые алгоритмы деривации.
const (
	AlgPBKDF2SHA256 = "pbkdf2-sha256"
	AlgArgon2id     = "argon2id"
)

// Параметры argon2id по умолчанию (память в KiB).
const (
	Argon2MemoryKiB = 64 * 1024
	Argon2Threads   = 4
)

// ErrInvalidKDFParams — ошибка программиста: пустая соль, итерации < 1, неизвестный алгоритм.
var ErrInvalidKDFParams = errors.New("crypto: invalid kdf parameters")

// KDFParams описывает, как из пароля получить ключ. Все поля читаются из VaultMeta.
type KDFParams struct {
	Algorithm  string
	Salt       []byte
	Iterations int
	MemoryKiB  uint32
	Threads    uint8
}

// Validate проверяет параметры деривации.
func (p KDFParams) Validate() error {
	if len(p.Salt) == 0 {
		return fmt.Errorf("%w: empty salt", ErrInvalidKDFParams)
	}
	if p.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be >= 1, got %d", ErrInvalidKDFParams, p.Iterations)
	}
	switch p.Algorithm {
	case AlgPBKDF2SHA256:
	case AlgArgon2id:
		if p.MemoryKiB == 0 || p.Threads == 0 {
			return fmt.Errorf("%w: argon2id requires memory and threads", ErrInvalidKDFParams)
		}
	default:
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidKDFParams, p.Algorithm)
	}
	return nil
}

// DeriveKey детерминированно выводит симметричный ключ из пароля.
// Одинаковые входные данные всегда дают одинаковый ключ.
func DeriveKey(password string, p KDFParams) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Algorithm == AlgArgon2id {
		return argon2.IDKey([]byte(password), p.Salt, uint32(p.Iterations), p.MemoryKiB, p.Threads, KeySize), nil
	}
	return pbkdf2.Key([]byte(password), p.Salt, p.Iterations, KeySize, sha256.New), nil
}

// NewSalt генерирует случайную соль для нового хранилища.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("cannot generate salt: %w", err)
	}
	return salt, nil
}

// Zero overwrites a byte slice in memory with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
