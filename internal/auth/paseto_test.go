package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec(t *testing.T) *TokenCodec {
	t.Helper()

	codec, err := NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return codec
}

func TestNewTokenCodec_KeyLength(t *testing.T) {
	tests := []struct {
		name    string
		key     []byte
		wantErr bool
	}{
		{name: "exact 32 bytes", key: []byte("0123456789abcdef0123456789abcdef"), wantErr: false},
		{name: "too short", key: []byte("short"), wantErr: true},
		{name: "too long", key: []byte("0123456789abcdef0123456789abcdef00"), wantErr: true},
		{name: "empty", key: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenCodec(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOwnerToken_RoundTrip(t *testing.T) {
	codec := testCodec(t)
	ownerID := uuid.New()

	token, err := codec.CreateOwnerToken(ownerID, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := codec.VerifyOwnerToken(token)
	require.NoError(t, err)
	assert.Equal(t, ownerID, decoded)
}

func TestProjectUserToken_RoundTrip(t *testing.T) {
	codec := testCodec(t)
	userID := uuid.New()

	token, err := codec.CreateProjectUserToken(userID, time.Hour)
	require.NoError(t, err)

	decoded, err := codec.VerifyProjectUserToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, decoded)
}

func TestSessionToken_CrossDomainRejected(t *testing.T) {
	codec := testCodec(t)

	ownerToken, err := codec.CreateOwnerToken(uuid.New(), time.Hour)
	require.NoError(t, err)
	userToken, err := codec.CreateProjectUserToken(uuid.New(), time.Hour)
	require.NoError(t, err)
	apiKey, err := codec.CreateAPIKey(uuid.New(), uuid.New())
	require.NoError(t, err)

	// Each verifier accepts only its own token class
	_, err = codec.VerifyProjectUserToken(ownerToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.VerifyOwnerToken(userToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.VerifyOwnerToken(apiKey)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.DecodeAPIKey(ownerToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_Expired(t *testing.T) {
	codec := testCodec(t)

	token, err := codec.CreateOwnerToken(uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, err = codec.VerifyOwnerToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_Tampered(t *testing.T) {
	codec := testCodec(t)

	token, err := codec.CreateOwnerToken(uuid.New(), time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"
	_, err = codec.VerifyOwnerToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_WrongKey(t *testing.T) {
	codec := testCodec(t)
	otherCodec, err := NewTokenCodec([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)

	token, err := codec.CreateOwnerToken(uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = otherCodec.VerifyOwnerToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_Garbage(t *testing.T) {
	codec := testCodec(t)

	for _, raw := range []string{"", "not-a-token", "v4.local.AAAA"} {
		_, err := codec.VerifyOwnerToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestAPIKey_RoundTrip(t *testing.T) {
	codec := testCodec(t)
	ownerID := uuid.New()
	projectID := uuid.New()

	apiKey, err := codec.CreateAPIKey(ownerID, projectID)
	require.NoError(t, err)

	scope, err := codec.DecodeAPIKey(apiKey)
	require.NoError(t, err)
	assert.Equal(t, ownerID, scope.OwnerID)
	assert.Equal(t, projectID, scope.ProjectID)
}

func TestAPIKey_NoExpiry(t *testing.T) {
	codec := testCodec(t)

	apiKey, err := codec.CreateAPIKey(uuid.New(), uuid.New())
	require.NoError(t, err)

	// API keys never carry an expiration claim, so they must not be
	// accepted by the expiry-enforcing session verifiers
	_, err = codec.VerifyProjectUserToken(apiKey)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.DecodeAPIKey(apiKey)
	assert.NoError(t, err)
}

func TestAPIKey_Tampered(t *testing.T) {
	codec := testCodec(t)

	apiKey, err := codec.CreateAPIKey(uuid.New(), uuid.New())
	require.NoError(t, err)

	tampered := apiKey[:len(apiKey)-4] + "AAAA"
	_, err = codec.DecodeAPIKey(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
