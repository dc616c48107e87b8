package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// ErrInvalidToken is the only verification failure callers ever see.
// Expired, tampered and malformed tokens are deliberately indistinguishable.
var ErrInvalidToken = errors.New("invalid token")

// Implicit assertions bind each token class to its own verification domain.
// A token minted for one class is structurally rejected by the other
// verifiers even though all three share the same symmetric key.
var (
	ownerSessionDomain       = []byte("authspark:owner-session")
	projectUserSessionDomain = []byte("authspark:project-user-session")
	apiKeyDomain             = []byte("authspark:api-key")
)

// Scope is the tenant binding decoded from an API key
type Scope struct {
	OwnerID   uuid.UUID
	ProjectID uuid.UUID
}

// TokenCodec signs and verifies all three token classes as PASETO v4.local
// (symmetric encryption with XChaCha20-Poly1305)
type TokenCodec struct {
	symmetricKey paseto.V4SymmetricKey
}

func NewTokenCodec(symmetricKey []byte) (*TokenCodec, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &TokenCodec{
		symmetricKey: key,
	}, nil
}

// CreateOwnerToken mints a session token for an owner account
func (c *TokenCodec) CreateOwnerToken(ownerID uuid.UUID, duration time.Duration) (string, error) {
	return c.createSessionToken(ownerID, duration, ownerSessionDomain)
}

// VerifyOwnerToken validates an owner session token and returns the owner id
func (c *TokenCodec) VerifyOwnerToken(tokenStr string) (uuid.UUID, error) {
	return c.verifySessionToken(tokenStr, ownerSessionDomain)
}

// CreateProjectUserToken mints a session token for a project end-user
func (c *TokenCodec) CreateProjectUserToken(projectUserID uuid.UUID, duration time.Duration) (string, error) {
	return c.createSessionToken(projectUserID, duration, projectUserSessionDomain)
}

// VerifyProjectUserToken validates a project end-user session token and
// returns the project-user id
func (c *TokenCodec) VerifyProjectUserToken(tokenStr string) (uuid.UUID, error) {
	return c.verifySessionToken(tokenStr, projectUserSessionDomain)
}

// CreateAPIKey mints the long-lived capability key binding requests to a
// (owner, project) pair. API keys carry no expiration.
func (c *TokenCodec) CreateAPIKey(ownerID, projectID uuid.UUID) (string, error) {
	token := paseto.NewToken()
	token.SetIssuedAt(time.Now())
	token.SetString("owner_id", ownerID.String())
	token.SetString("project_id", projectID.String())

	return token.V4Encrypt(c.symmetricKey, apiKeyDomain), nil
}

// DecodeAPIKey validates an API key and returns the tenant scope it binds.
// The decoded pair must still be re-validated against current ownership by
// every store query; the key alone is never trusted.
func (c *TokenCodec) DecodeAPIKey(apiKey string) (Scope, error) {
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(c.symmetricKey, apiKey, apiKeyDomain)
	if err != nil {
		return Scope{}, ErrInvalidToken
	}

	ownerStr, err := token.GetString("owner_id")
	if err != nil {
		return Scope{}, ErrInvalidToken
	}
	projectStr, err := token.GetString("project_id")
	if err != nil {
		return Scope{}, ErrInvalidToken
	}

	ownerID, err := uuid.Parse(ownerStr)
	if err != nil {
		return Scope{}, ErrInvalidToken
	}
	projectID, err := uuid.Parse(projectStr)
	if err != nil {
		return Scope{}, ErrInvalidToken
	}

	return Scope{OwnerID: ownerID, ProjectID: projectID}, nil
}

func (c *TokenCodec) createSessionToken(subject uuid.UUID, duration time.Duration, domain []byte) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(duration))
	token.SetString("sub", subject.String())

	return token.V4Encrypt(c.symmetricKey, domain), nil
}

func (c *TokenCodec) verifySessionToken(tokenStr string, domain []byte) (uuid.UUID, error) {
	// The default parser enforces expiration
	parser := paseto.NewParser()

	token, err := parser.ParseV4Local(c.symmetricKey, tokenStr, domain)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	subject, err := token.GetString("sub")
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return id, nil
}
