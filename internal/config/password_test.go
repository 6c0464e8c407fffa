package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordVerifier_Plaintext(t *testing.T) {
	v := NewPasswordVerifier("hunter2")
	assert.True(t, v.Verify("hunter2"))
	assert.False(t, v.Verify("wrong"))
	assert.False(t, v.Verify(""))
}

func TestPasswordVerifier_BcryptHash(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	v := NewPasswordVerifier(hash)
	assert.True(t, v.Verify("hunter2"))
	assert.False(t, v.Verify("wrong"))
}

func TestPasswordVerifier_EmptyStoredNeverMatches(t *testing.T) {
	v := NewPasswordVerifier("")
	assert.False(t, v.Verify(""))
	assert.False(t, v.Verify("anything"))
}
