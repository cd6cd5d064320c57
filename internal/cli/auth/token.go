// Package auth хранит токен CLI-клиента между запусками.
package auth

import (
	vaultauth "VaultKeeper/internal/auth"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ClientID — идентификатор CLI в токене.
const ClientID = "cli"

// AuthTokenPath returns the full path to the auth token file under the user's config directory.
func AuthTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "VaultKeeper")
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(p, "auth_token"), nil
}

// SaveToken writes token to the auth token file.
func SaveToken(token string) error {
	p, err := AuthTokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0o600)
}

// LoadToken reads token from the auth token file.
func LoadToken() (string, error) {
	p, err := AuthTokenPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", errors.New("empty token file")
	}
	return tok, nil
}

// Token возвращает действующий токен: сохранённый, если он ещё валиден для secret,
// иначе выпускает новый и сохраняет его. Ошибка сохранения не мешает вернуть токен.
func Token(secret string, now time.Time) (string, error) {
	if tok, err := LoadToken(); err == nil {
		if _, err := vaultauth.ParseToken(tok, secret); err == nil {
			return tok, nil
		}
	}
	tok, err := vaultauth.IssueToken(ClientID, secret, now)
	if err != nil {
		return "", err
	}
	_ = SaveToken(tok)
	return tok, nil
}
