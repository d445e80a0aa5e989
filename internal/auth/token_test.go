package auth

import (
	"testing"

	"github.com/girojeri/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthToken_CreateAndVerify(t *testing.T) {
	at := NewAuthToken([]byte("0123456789abcdef"))

	token, err := at.CreateToken(&models.Agency{ID: "agency-1"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload, err := at.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "agency-1", payload.AgencyID)
}

func TestAuthToken_VerifyRejectsWrongKey(t *testing.T) {
	at := NewAuthToken([]byte("0123456789abcdef"))
	other := NewAuthToken([]byte("fedcba9876543210"))

	token, err := at.CreateToken(&models.Agency{ID: "agency-1"})
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestAuthToken_VerifyRejectsGarbage(t *testing.T) {
	at := NewAuthToken([]byte("0123456789abcdef"))

	_, err := at.VerifyToken("not-a-token")
	assert.Error(t, err)
}
