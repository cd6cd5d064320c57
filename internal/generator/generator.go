// Package generator генерирует случайные пароли для GENERATE_PASSWORD.
package generator

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	MinLength     = 8
	MaxLength     = 128
	DefaultLength = 16
)

const (
	lowers  = "abcdefghijklmnopqrstuvwxyz"
	uppers  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
	symbols = "!\"#$%&'()*+,-./:;<=>?@[]^_`{|}~\\"
)

// Options — параметры генерации. nil в полях классов означает «включено».
type Options struct {
	Length  int   `json:"length,omitempty"`
	Lower   *bool `json:"lower,omitempty"`
	Upper   *bool `json:"upper,omitempty"`
	Digits  *bool `json:"digits,omitempty"`
	Symbols *bool `json:"symbols,omitempty"`
}

func enabled(b *bool) bool { return b == nil || *b }

// Generate возвращает пароль длиной Length (ограничена [8, 128], 0 → 16),
// содержащий хотя бы один символ каждого включённого класса.
// Если все классы выключены, используются все.
func Generate(opts Options) (string, error) {
	length := opts.Length
	if length == 0 {
		length = DefaultLength
	}
	length = max(MinLength, min(MaxLength, length))

	var classes []string
	if enabled(opts.Lower) {
		classes = append(classes, lowers)
	}
	if enabled(opts.Upper) {
		classes = append(classes, uppers)
	}
	if enabled(opts.Digits) {
		classes = append(classes, digits)
	}
	if enabled(opts.Symbols) {
		classes = append(classes, symbols)
	}
	if len(classes) == 0 {
		classes = []string{lowers, uppers, digits, symbols}
	}
	var pool string
	for _, c := range classes {
		pool += c
	}

	out := make([]byte, 0, length)
	for _, c := range classes {
		ch, err := pick(c)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}
	for len(out) < length {
		ch, err := pick(pool)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}
	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	return int(v.Int64()), nil
}

func pick(set string) (byte, error) {
	i, err := randInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

// shuffle — Фишер–Йейтс на криптостойком источнике.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return err
		}
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
