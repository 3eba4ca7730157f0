package domain

import (
	"context"
	"time"
)

// RoleAdmin is the only role the auth gate grants.
const RoleAdmin = "admin"

// AdminIdentity is the identity carried by an admin session token.
// swagger:model AdminIdentity
type AdminIdentity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// PasswordHasher hashes and verifies admin passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues signed, time-limited tokens for an identity.
type TokenIssuer interface {
	Issue(identity AdminIdentity, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the identity it asserts.
type TokenVerifier interface {
	Verify(token string) (*AdminIdentity, error)
}

// AuthService defines the admin login and token verification contract.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, identity *AdminIdentity, err error)
	Verify(token string) (*AdminIdentity, error)
	TokenExpiry() time.Duration
}
