package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionToken(t *testing.T) {
	a, err := NewSessionToken(time.Hour)
	require.NoError(t, err)
	b, err := NewSessionToken(time.Hour)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 64)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), a.Exp, time.Minute)
}

func TestHashSessionTokenStableAndOpaque(t *testing.T) {
	h1 := HashSessionToken("secret")
	h2 := HashSessionToken("secret")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotContains(t, h1, "secret")
	assert.NotEqual(t, h1, HashSessionToken("secret2"))
}

func TestNewOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{10}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n, err := NewOrderNumber()
		require.NoError(t, err)
		assert.Regexp(t, pattern, n)
		seen[n] = true
	}
	assert.Greater(t, len(seen), 90, "collisions should be rare")
}
