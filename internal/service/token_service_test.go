package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepnest/lms-backend/config"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := testTokens()

	token, err := svc.Issue(RoleCandidate, 42)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, RoleCandidate, claims.Role)
	assert.Equal(t, uint(42), claims.SubjectID)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := testTokens().Issue(RoleAdmin, 1)
	require.NoError(t, err)

	other := NewTokenService(&config.Config{Auth: config.Auth{JWTSecret: "different"}})
	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	_, err := testTokens().Verify("not-a-token")
	assert.Error(t, err)
}
