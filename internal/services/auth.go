package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"eventrsvp/internal/domain"
)

// AdminAccount is the single configured admin credential.
type AdminAccount struct {
	Username     string
	PasswordHash string
}

type authService struct {
	account     AdminAccount
	hasher      domain.PasswordHasher
	issuer      domain.TokenIssuer
	verifier    domain.TokenVerifier
	tokenExpiry time.Duration
}

// NewAuthService creates an AuthService for the given admin account and token ports.
func NewAuthService(account AdminAccount, hasher domain.PasswordHasher, issuer domain.TokenIssuer, verifier domain.TokenVerifier, tokenExpiry time.Duration) domain.AuthService {
	return &authService{
		account:     account,
		hasher:      hasher,
		issuer:      issuer,
		verifier:    verifier,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) Login(_ context.Context, username, password string) (string, *domain.AdminIdentity, error) {
	if s.account.Username == "" || s.account.PasswordHash == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.account.Username)) == 1
	// Always run the hash comparison so timing does not reveal the username.
	passErr := s.hasher.Compare(s.account.PasswordHash, password)
	if !userOK || passErr != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	identity := &domain.AdminIdentity{Username: s.account.Username, Role: domain.RoleAdmin}
	token, err := s.issuer.Issue(*identity, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, identity, nil
}

func (s *authService) Verify(token string) (*domain.AdminIdentity, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	identity, err := s.verifier.Verify(token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if identity.Role != domain.RoleAdmin {
		return nil, domain.ErrInvalidToken
	}
	return identity, nil
}

func (s *authService) TokenExpiry() time.Duration {
	return s.tokenExpiry
}
