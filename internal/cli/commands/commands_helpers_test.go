package commands

import (
	"VaultKeeper/internal/config"
	"VaultKeeper/internal/handlers"
	"VaultKeeper/internal/repo"
	"VaultKeeper/internal/router"
	"VaultKeeper/internal/service"
	"VaultKeeper/internal/vault"
	"bytes"
	"context"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы токен создавался в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// withPassword подменяет ввод пароля
func withPassword(t *testing.T, pw string) {
	t.Helper()
	old := ReadPassword
	ReadPassword = func(string) (string, error) { return pw, nil }
	t.Cleanup(func() { ReadPassword = old })
}

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// newDaemon поднимает демон с in-memory хранилищем и возвращает конфиг клиента
func newDaemon(t *testing.T) *config.Config {
	t.Helper()
	withTempConfig(t)
	kv := &memKV{data: map[string][]byte{}}
	st := vault.New(vault.Options{
		Meta:          repo.NewMetaStore(kv),
		Blobs:         kv,
		Clock:         clockwork.NewFakeClock(),
		KDFIterations: 1000,
	})
	cfg := &config.Config{AuthSecret: "cli-test-secret"}
	rt := router.New(st, service.NewCredentialService(st, nil), nil)
	ts := httptest.NewServer(handlers.NewHandler(rt, zap.NewNop().Sugar(), cfg).Router)
	t.Cleanup(ts.Close)
	cfg.ServerURL = ts.URL
	return cfg
}
