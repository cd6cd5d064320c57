package model

import "time"

// VaultMeta — открытая (не секретная) конфигурация хранилища.
// Хранится в plaintext под ключом "meta".
type VaultMeta struct {
	KDF        string `json:"kdf"`
	Iterations int    `json:"iterations"`
	Salt       []byte `json:"salt"`
	// Параметры argon2id; для PBKDF2 не заполняются.
	MemoryKiB uint32 `json:"memoryKiB,omitempty"`
	Threads   uint8  `json:"threads,omitempty"`

	AutolockMs int64 `json:"autolockMs"`
	CreatedAt  int64 `json:"createdAt"`
	UpdatedAt  int64 `json:"updatedAt"`
}

// Autolock возвращает таймаут автоблокировки.
func (m *VaultMeta) Autolock() time.Duration {
	return time.Duration(m.AutolockMs) * time.Millisecond
}
