package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	tok, err := issuer.Issue(42)
	require.NoError(t, err)

	id, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestTokenRejectsOtherSecret(t *testing.T) {
	tok, err := NewTokenIssuer("one", time.Hour).Issue(7)
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour).Parse(tok)
	assert.Error(t, err)
}

func TestTokenExpires(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)
	base := time.Now()
	issuer.now = func() time.Time { return base }

	tok, err := issuer.Issue(1)
	require.NoError(t, err)

	issuer.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = issuer.Parse(tok)
	assert.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	_, err := NewTokenIssuer("secret", time.Hour).Parse("not-a-token")
	assert.Error(t, err)
}
