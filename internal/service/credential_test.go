package service

import (
	"VaultKeeper/internal/model"
	"VaultKeeper/internal/repo"
	"VaultKeeper/internal/vault"
	"context"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// мок для DocumentStore
type mockStore struct{ mock.Mock }

func (m *mockStore) View(ctx context.Context, fn func(doc *model.Document) error) error {
	return m.Called(ctx, fn).Error(0)
}

func (m *mockStore) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	return m.Called(ctx, fn).Error(0)
}

var _ DocumentStore = (*mockStore)(nil)
var _ DocumentStore = (*vault.State)(nil)

// memKV — простое in-memory KV для сквозных тестов сервиса
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

func newUnlockedService(t *testing.T) (*CredentialService, *vault.State) {
	t.Helper()
	kv := &memKV{data: map[string][]byte{}}
	st := vault.New(vault.Options{
		Meta:          repo.NewMetaStore(kv),
		Blobs:         kv,
		Clock:         clockwork.NewFakeClock(),
		KDFIterations: 1000,
	})
	require.NoError(t, st.Unlock(context.Background(), "pw"))
	return NewCredentialService(st, nil), st
}

func TestCredentialService_LockedReturnsVaultLocked(t *testing.T) {
	ctx := context.Background()
	m := new(mockStore)
	svc := NewCredentialService(m, nil)

	m.On("View", mock.Anything, mock.Anything).Return(vault.ErrVaultLocked)
	m.On("Update", mock.Anything, mock.Anything).Return(vault.ErrVaultLocked)

	_, err := svc.List(ctx)
	assert.ErrorIs(t, err, vault.ErrVaultLocked)
	_, err = svc.ForOrigin(ctx, "https://a.test")
	assert.ErrorIs(t, err, vault.ErrVaultLocked)
	_, err = svc.Save(ctx, model.Credential{ID: "x"})
	assert.ErrorIs(t, err, vault.ErrVaultLocked)
	assert.ErrorIs(t, svc.Delete(ctx, "x"), vault.ErrVaultLocked)
	m.AssertExpectations(t)
}

func TestCredentialService_SaveAppendsAndReplaces(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUnlockedService(t)

	_, err := svc.Save(ctx, model.Credential{ID: "a", Origins: []string{"https://a.test"}, Username: "u1"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, model.Credential{ID: "b", Origins: []string{"https://b.test"}, Username: "u2"})
	require.NoError(t, err)

	// замена на месте не меняет порядок
	_, err = svc.Save(ctx, model.Credential{ID: "a", Origins: []string{"https://a.test"}, Username: "u1-new"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "u1-new", list[0].Username)
	assert.Equal(t, "b", list[1].ID)
}

func TestCredentialService_SaveAssignsID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUnlockedService(t)

	id, err := svc.Save(ctx, model.Credential{Username: "anon"})
	require.NoError(t, err)
	assert.Len(t, id, 36)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.NotNil(t, list[0].Origins)
}

func TestCredentialService_ForOrigin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUnlockedService(t)

	for _, c := range []model.Credential{
		{ID: "1", Origins: []string{"https://a.test", "https://b.test"}},
		{ID: "2", Origins: []string{"https://b.test"}},
		{ID: "3", Origins: []string{"https://c.test"}},
	} {
		_, err := svc.Save(ctx, c)
		require.NoError(t, err)
	}

	got, err := svc.ForOrigin(ctx, "https://b.test")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)

	got, err = svc.ForOrigin(ctx, "https://none.test")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCredentialService_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUnlockedService(t)

	_, err := svc.Save(ctx, model.Credential{ID: "a"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, model.Credential{ID: "b"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "a"))
	require.NoError(t, svc.Delete(ctx, "a"))
	require.NoError(t, svc.Delete(ctx, "missing"))
	assert.ErrorIs(t, svc.Delete(ctx, ""), ErrEmptyID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestCredentialService_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUnlockedService(t)

	var wg sync.WaitGroup
	for _, id := range []string{"x", "y"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.Save(ctx, model.Credential{ID: id})
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCredentialService_LockAfterSave(t *testing.T) {
	ctx := context.Background()
	svc, st := newUnlockedService(t)

	_, err := svc.Save(ctx, model.Credential{ID: "a"})
	require.NoError(t, err)
	st.Lock()

	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, vault.ErrVaultLocked)
}
