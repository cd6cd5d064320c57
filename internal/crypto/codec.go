package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// NonceSize — стандартный размер nonce для GCM.
const NonceSize = 12

// blobVersion — версия бинарного формата blob. Увеличивается при несовместимых изменениях.
const blobVersion byte = 1

var (
	// ErrAuthentication — тег GCM не сошёлся: неверный ключ или повреждённые данные.
	ErrAuthentication = errors.New("crypto: message authentication failed")
	// ErrMalformedBlob — blob не разбирается (слишком короткий или неизвестная версия).
	ErrMalformedBlob = errors.New("crypto: malformed blob")
)

// Blob — самодостаточный зашифрованный документ: nonce + ciphertext||tag.
type Blob struct {
	Nonce      []byte
	Ciphertext []byte
}

// Marshal сериализует blob в формат version||nonce||ciphertext.
func (b Blob) Marshal() []byte {
	out := make([]byte, 0, 1+len(b.Nonce)+len(b.Ciphertext))
	out = append(out, blobVersion)
	out = append(out, b.Nonce...)
	out = append(out, b.Ciphertext...)
	return out
}

// ParseBlob разбирает сериализованный blob.
func ParseBlob(data []byte) (Blob, error) {
	if len(data) < 1+NonceSize+1 {
		return Blob{}, fmt.Errorf("%w: %d bytes", ErrMalformedBlob, len(data))
	}
	if data[0] != blobVersion {
		return Blob{}, fmt.Errorf("%w: unsupported version %d", ErrMalformedBlob, data[0])
	}
	nonce := make([]byte, NonceSize)
	copy(nonce, data[1:1+NonceSize])
	ct := make([]byte, len(data)-1-NonceSize)
	copy(ct, data[1+NonceSize:])
	return Blob{Nonce: nonce, Ciphertext: ct}, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cannot create aes block cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cannot create gcm cipher: %w", err)
	}
	return gcm, nil
}

// Encrypt сериализует doc в JSON и шифрует его AES‑GCM со свежим случайным nonce.
// Nonce никогда не принимается от вызывающего.
func Encrypt(doc any, key []byte) (Blob, error) {
	plain, err := json.Marshal(doc)
	if err != nil {
		return Blob{}, fmt.Errorf("encode document: %w", err)
	}
	defer Zero(plain)

	gcm, err := newGCM(key)
	if err != nil {
		return Blob{}, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return Blob{}, fmt.Errorf("cannot generate nonce: %w", err)
	}
	return Blob{Nonce: nonce, Ciphertext: gcm.Seal(nil, nonce, plain, nil)}, nil
}

// Decrypt проверяет тег и расшифровывает blob в out.
// Несовпадение тега возвращается как ErrAuthentication.
func Decrypt(b Blob, key []byte, out any) error {
	gcm, err := newGCM(key)
	if err != nil {
		return err
	}
	if len(b.Nonce) != gcm.NonceSize() {
		return fmt.Errorf("%w: invalid nonce size", ErrMalformedBlob)
	}
	plain, err := gcm.Open(nil, b.Nonce, b.Ciphertext, nil)
	if err != nil {
		return ErrAuthentication
	}
	defer Zero(plain)
	if err := json.Unmarshal(plain, out); err != nil {
		return fmt.Errorf("%w: decode document: %v", ErrMalformedBlob, err)
	}
	return nil
}
