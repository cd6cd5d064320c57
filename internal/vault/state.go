// Package vault владеет состоянием блокировки: ключ живёт только в памяти процесса,
// автоблокировка и сериализация изменений документа тоже здесь.
package vault

import (
	"VaultKeeper/internal/crypto"
	"VaultKeeper/internal/model"
	"VaultKeeper/internal/repo"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// MinAutolock — минимально допустимый таймаут автоблокировки.
const MinAutolock = time.Minute

// DefaultAutolock используется, если в meta таймаут не задан.
const DefaultAutolock = 5 * time.Minute

// MetaStore — хранилище открытой конфигурации хранилища.
type MetaStore interface {
	Load(ctx context.Context) (*model.VaultMeta, error)
	Save(ctx context.Context, m *model.VaultMeta) error
}

// Phase — состояние автомата блокировки.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLocked
	PhaseUnlocked
)

func (p Phase) String() string {
	switch p {
	case PhaseLocked:
		return "locked"
	case PhaseUnlocked:
		return "unlocked"
	default:
		return "uninitialized"
	}
}

// Options — зависимости и параметры State. Нулевые значения заменяются значениями по умолчанию.
type Options struct {
	Meta   MetaStore
	Blobs  repo.KVStore
	Clock  clockwork.Clock
	Logger *zap.SugaredLogger

	// Параметры деривации для нового хранилища. Существующее читает их из meta.
	KDFAlgorithm  string
	KDFIterations int
	Autolock      time.Duration
}

// Status — снимок состояния для STATUS.
type Status struct {
	Phase      Phase
	UnlockedAt time.Time
	Autolock   time.Duration
}

// Unlocked reports whether a session is active.
func (s Status) Unlocked() bool { return s.Phase == PhaseUnlocked }

// State — контроллер блокировки хранилища. Один экземпляр на хранилище;
// перезапуск процесса эквивалентен Lock, так как сессия не персистится.
type State struct {
	meta   MetaStore
	blobs  repo.KVStore
	clock  clockwork.Clock
	logger *zap.SugaredLogger

	kdfAlgorithm  string
	kdfIterations int

	// transition сериализует initialize/unlock/set-autolock.
	transition sync.Mutex
	// mutations — очередь из одного места для цикла decrypt→mutate→encrypt→persist.
	mutations *semaphore.Weighted

	mu          sync.RWMutex
	initialized bool
	key         []byte
	unlockedAt  time.Time
	lastTouch   time.Time
	autolock    time.Duration
	timer       clockwork.Timer
}

// New создаёт State в заблокированном состоянии.
func New(opts Options) *State {
	s := &State{
		meta:          opts.Meta,
		blobs:         opts.Blobs,
		clock:         opts.Clock,
		logger:        opts.Logger,
		kdfAlgorithm:  opts.KDFAlgorithm,
		kdfIterations: opts.KDFIterations,
		autolock:      opts.Autolock,
		mutations:     semaphore.NewWeighted(1),
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	if s.kdfAlgorithm == "" {
		s.kdfAlgorithm = crypto.AlgPBKDF2SHA256
	}
	if s.kdfIterations < 1 {
		s.kdfIterations = 310000
	}
	if s.autolock < MinAutolock {
		s.autolock = DefaultAutolock
	}
	return s
}

// Initialize создаёт meta при первом запуске. Повторный вызов только подгружает
// сохранённую конфигурацию (таймаут автоблокировки) и никогда не пересоздаёт meta.
func (s *State) Initialize(ctx context.Context) error {
	s.transition.Lock()
	defer s.transition.Unlock()
	_, err := s.ensureInit(ctx)
	return err
}

func (s *State) loadMeta(ctx context.Context) (*model.VaultMeta, error) {
	m, err := s.meta.Load(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, storageErr("load meta", err)
	}
	return m, nil
}

// ensureInit вызывается под s.transition.
func (s *State) ensureInit(ctx context.Context) (*model.VaultMeta, error) {
	m, err := s.loadMeta(ctx)
	if err == nil {
		if err := validateMeta(m); err != nil {
			s.logger.Errorw("vault meta rejected", "error", err)
			return nil, err
		}
		s.mu.Lock()
		switch {
		case m.AutolockMs <= 0:
		case m.Autolock() < MinAutolock:
			s.autolock = MinAutolock
		default:
			s.autolock = m.Autolock()
		}
		s.initialized = true
		s.mu.Unlock()
		return m, nil
	}
	if !errors.Is(err, ErrNotInitialized) {
		return nil, err
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UnixMilli()
	s.mu.RLock()
	autolock := s.autolock
	s.mu.RUnlock()
	m = &model.VaultMeta{
		KDF:        s.kdfAlgorithm,
		Iterations: s.kdfIterations,
		Salt:       salt,
		AutolockMs: autolock.Milliseconds(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if m.KDF == crypto.AlgArgon2id {
		m.MemoryKiB = crypto.Argon2MemoryKiB
		m.Threads = crypto.Argon2Threads
	}
	if err := s.meta.Save(ctx, m); err != nil {
		return nil, storageErr("save meta", err)
	}
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
	s.logger.Infow("vault initialized", "kdf", m.KDF, "iterations", m.Iterations, "autolock_ms", m.AutolockMs)
	return m, nil
}

// validateMeta отклоняет meta, из которой нельзя корректно вывести ключ.
func validateMeta(m *model.VaultMeta) error {
	if len(m.Salt) < crypto.SaltSize {
		return fmt.Errorf("%w: meta salt is %d bytes, want %d", ErrCorruptVault, len(m.Salt), crypto.SaltSize)
	}
	if err := kdfParams(m).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptVault, err)
	}
	return nil
}

func kdfParams(m *model.VaultMeta) crypto.KDFParams {
	return crypto.KDFParams{
		Algorithm:  m.KDF,
		Salt:       m.Salt,
		Iterations: m.Iterations,
		MemoryKiB:  m.MemoryKiB,
		Threads:    m.Threads,
	}
}

// Unlock проверяет мастер-пароль и открывает сессию.
//
// Если зашифрованного blob ещё нет, это первая разблокировка: пустой документ шифруется
// ключом из переданного пароля и этот пароль становится мастер-паролем хранилища.
// Иначе единственная проверка пароля — успешная расшифровка blob.
func (s *State) Unlock(ctx context.Context, password string) error {
	s.transition.Lock()
	defer s.transition.Unlock()

	m, err := s.ensureInit(ctx)
	if err != nil {
		return err
	}
	key, err := crypto.DeriveKey(password, kdfParams(m))
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}

	if err := s.mutations.Acquire(ctx, 1); err != nil {
		crypto.Zero(key)
		return err
	}
	defer s.mutations.Release(1)
	ctx = context.WithoutCancel(ctx)

	raw, err := s.blobs.Get(ctx, repo.KeyVault)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		blob, encErr := crypto.Encrypt(emptyDocument(), key)
		if encErr != nil {
			crypto.Zero(key)
			return fmt.Errorf("encrypt vault: %w", encErr)
		}
		if err := s.blobs.Set(ctx, repo.KeyVault, blob.Marshal()); err != nil {
			crypto.Zero(key)
			return storageErr("write vault", err)
		}
		s.logger.Infow("first unlock: empty vault created")
	case err != nil:
		crypto.Zero(key)
		return storageErr("read vault", err)
	default:
		if _, err := decode(raw, key); err != nil {
			crypto.Zero(key)
			if errors.Is(err, crypto.ErrAuthentication) {
				s.logger.Warnw("unlock rejected: invalid master password")
				return ErrInvalidPassword
			}
			return fmt.Errorf("%w: %v", ErrCorruptVault, err)
		}
	}

	s.mu.Lock()
	if s.key != nil {
		crypto.Zero(s.key)
	}
	s.key = key
	s.unlockedAt = s.clock.Now()
	s.touchLocked()
	s.mu.Unlock()
	s.logger.Infow("vault unlocked")
	return nil
}

// Lock закрывает сессию. Всегда успешен.
func (s *State) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockLocked("explicit")
}

func (s *State) lockLocked(reason string) {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.key == nil {
		return
	}
	crypto.Zero(s.key)
	s.key = nil
	s.unlockedAt = time.Time{}
	s.logger.Infow("vault locked", "reason", reason)
}

// IsUnlocked reports whether a session is active.
func (s *State) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key != nil
}

// Status возвращает снимок состояния.
func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{Phase: PhaseUninitialized, Autolock: s.autolock, UnlockedAt: s.unlockedAt}
	switch {
	case s.key != nil:
		st.Phase = PhaseUnlocked
	case s.initialized:
		st.Phase = PhaseLocked
	}
	return st
}

// SetAutolock сохраняет новый таймаут в meta; при активной сессии таймер
// сразу перезапускается с новой длительностью. Значения меньше минуты поднимаются до MinAutolock.
func (s *State) SetAutolock(ctx context.Context, d time.Duration) error {
	if d < MinAutolock {
		d = MinAutolock
	}
	s.transition.Lock()
	defer s.transition.Unlock()

	m, err := s.ensureInit(ctx)
	if err != nil {
		return err
	}
	m.AutolockMs = d.Milliseconds()
	m.UpdatedAt = s.clock.Now().UnixMilli()
	if err := s.meta.Save(ctx, m); err != nil {
		return storageErr("save meta", err)
	}

	s.mu.Lock()
	s.autolock = d
	if s.key != nil {
		s.touchLocked()
	}
	s.mu.Unlock()
	s.logger.Infow("autolock updated", "autolock_ms", m.AutolockMs)
	return nil
}

// sessionKey возвращает копию ключа; вызывающий обязан обнулить её.
func (s *State) sessionKey() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return nil, ErrVaultLocked
	}
	return append([]byte(nil), s.key...), nil
}
