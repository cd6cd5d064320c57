package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestGenerate_LengthClamp(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"default", 0, DefaultLength},
		{"too short", 3, MinLength},
		{"negative", -10, MinLength},
		{"too long", 1000, MaxLength},
		{"exact", 20, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pw, err := Generate(Options{Length: tc.in})
			require.NoError(t, err)
			assert.Len(t, pw, tc.want)
		})
	}
}

func TestGenerate_ContainsEveryClass(t *testing.T) {
	for i := 0; i < 50; i++ {
		pw, err := Generate(Options{Length: MinLength})
		require.NoError(t, err)
		assert.True(t, strings.ContainsAny(pw, lowers), pw)
		assert.True(t, strings.ContainsAny(pw, uppers), pw)
		assert.True(t, strings.ContainsAny(pw, digits), pw)
		assert.True(t, strings.ContainsAny(pw, symbols), pw)
	}
}

func TestGenerate_DisabledClasses(t *testing.T) {
	pw, err := Generate(Options{Length: 64, Upper: boolPtr(false), Symbols: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, strings.ContainsAny(pw, uppers))
	assert.False(t, strings.ContainsAny(pw, symbols))
	assert.True(t, strings.ContainsAny(pw, lowers))
	assert.True(t, strings.ContainsAny(pw, digits))
}

func TestGenerate_AllDisabledFallsBackToAll(t *testing.T) {
	f := boolPtr(false)
	pw, err := Generate(Options{Lower: f, Upper: f, Digits: f, Symbols: f})
	require.NoError(t, err)
	assert.Len(t, pw, DefaultLength)
}

func TestGenerate_NotRepeating(t *testing.T) {
	a, err := Generate(Options{})
	require.NoError(t, err)
	b, err := Generate(Options{})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
