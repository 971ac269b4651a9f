package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteCodeRoundtrip(t *testing.T) {
	code := NewInviteCode()
	require.NotEmpty(t, code)
	assert.NotEqual(t, code, NewInviteCode())

	hash, err := HashInviteCode(code)
	require.NoError(t, err)
	assert.NotEqual(t, code, hash)

	assert.True(t, VerifyInviteCode(hash, code))
	assert.False(t, VerifyInviteCode(hash, "not-the-code"))
	assert.False(t, VerifyInviteCode("not-a-bcrypt-hash", code))
}
