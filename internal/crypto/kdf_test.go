package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	p := KDFParams{Algorithm: AlgPBKDF2SHA256, Salt: salt, Iterations: 1000}

	k1, err := DeriveKey("correct-horse", p)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	k2, err := DeriveKey("correct-horse", p)
	if err != nil {
		t.Fatalf("derive again: %v", err)
	}
	if len(k1) != KeySize {
		t.Fatalf("key len want %d, got %d", KeySize, len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("same inputs must produce the same key")
	}

	other, _ := DeriveKey("battery-staple", p)
	if bytes.Equal(k1, other) {
		t.Fatalf("different passwords must produce different keys")
	}
	p.Salt = []byte("fedcba9876543210")
	salted, _ := DeriveKey("correct-horse", p)
	if bytes.Equal(k1, salted) {
		t.Fatalf("different salts must produce different keys")
	}
}

func TestDeriveKey_Argon2id(t *testing.T) {
	p := KDFParams{Algorithm: AlgArgon2id, Salt: []byte("0123456789abcdef"), Iterations: 1, MemoryKiB: 1024, Threads: 1}
	k1, err := DeriveKey("pw", p)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	k2, _ := DeriveKey("pw", p)
	if len(k1) != KeySize || !bytes.Equal(k1, k2) {
		t.Fatalf("argon2id must be deterministic with %d-byte output", KeySize)
	}
}

func TestDeriveKey_InvalidParams(t *testing.T) {
	cases := map[string]KDFParams{
		"empty salt":      {Algorithm: AlgPBKDF2SHA256, Iterations: 10},
		"zero iterations": {Algorithm: AlgPBKDF2SHA256, Salt: []byte("s"), Iterations: 0},
		"unknown alg":     {Algorithm: "md5", Salt: []byte("s"), Iterations: 10},
		"argon2 no mem":   {Algorithm: AlgArgon2id, Salt: []byte("s"), Iterations: 1},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DeriveKey("pw", p); !errors.Is(err, ErrInvalidKDFParams) {
				t.Fatalf("expected ErrInvalidKDFParams, got %v", err)
			}
		})
	}
}

func TestNewSalt(t *testing.T) {
	s1, err := NewSalt()
	if err != nil {
		t.Fatal(err)
	}
	s2, _ := NewSalt()
	if len(s1) != SaltSize {
		t.Fatalf("salt len want %d, got %d", SaltSize, len(s1))
	}
	if bytes.Equal(s1, s2) {
		t.Fatalf("two salts must differ")
	}
}
