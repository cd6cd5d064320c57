package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tok, err := IssueToken("cli", "secret", time.Now())
	require.NoError(t, err)

	id, err := ParseToken(tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, "cli", id)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := IssueToken("cli", "secret-A", time.Now())
	require.NoError(t, err)

	_, err = ParseToken(tok, "secret-B")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	tok, err := IssueToken("cli", "secret", time.Now().Add(-2*TokenTTL))
	require.NoError(t, err)

	_, err = ParseToken(tok, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssue_EmptySecret(t *testing.T) {
	_, err := IssueToken("cli", "", time.Now())
	assert.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-jwt", "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
