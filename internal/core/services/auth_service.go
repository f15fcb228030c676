package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/adapters/persistence/repositories"
	"campusvote/internal/config"
	"campusvote/internal/core/domain"
	"campusvote/internal/pkg/jwt"
	"campusvote/internal/pkg/secret"
)

// CredentialService issues, verifies and revokes voter access tokens
type CredentialService struct {
	voterRepo      repositories.VoterRepository
	revocationRepo repositories.RevocationRepository
	cfg            *config.Config
	now            Clock
}

// NewCredentialService creates a new credential service
func NewCredentialService(
	voterRepo repositories.VoterRepository,
	revocationRepo repositories.RevocationRepository,
	cfg *config.Config,
) *CredentialService {
	return &CredentialService{
		voterRepo:      voterRepo,
		revocationRepo: revocationRepo,
		cfg:            cfg,
		now:            SystemClock,
	}
}

// SetClock replaces the time source
func (s *CredentialService) SetClock(now Clock) {
	s.now = now
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult represents authentication response
type LoginResult struct {
	Voter       *models.Voter `json:"voter"`
	AccessToken string        `json:"access_token"`
	ExpiresIn   int           `json:"expires_in"`
}

// Login checks a voter's password and issues an access token
func (s *CredentialService) Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	voter, err := s.voterRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrBadCredentials
		}
		return nil, domain.Transient(err)
	}

	if !secret.Verify(input.Password, voter.PasswordHash) {
		return nil, domain.ErrBadCredentials
	}

	token, err := jwt.GenerateAccessToken(voter.ID, voter.Role, s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, domain.Wrap(domain.ErrPersistence, err)
	}

	return &LoginResult{
		Voter:       voter,
		AccessToken: token,
		ExpiresIn:   s.cfg.JWT.AccessTokenMins * 60,
	}, nil
}

// Verify validates a bearer token and rejects revoked ones.
// A revocation store failure rejects the token rather than trusting it.
func (s *CredentialService) Verify(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := jwt.ValidateAccessToken(token, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	revoked, err := s.revocationRepo.IsRevoked(ctx, secret.HashToken(token))
	if err != nil {
		return nil, domain.Transient(err)
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}

	return claims, nil
}

// Revoke invalidates a token until it would have expired anyway
func (s *CredentialService) Revoke(ctx context.Context, token string) error {
	claims, err := s.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenRevoked) {
			return nil
		}
		return err
	}

	err = s.revocationRepo.Revoke(ctx, &models.RevokedToken{
		TokenHash: secret.HashToken(token),
		VoterID:   claims.VoterID,
		ExpiresAt: claims.Expiry().UTC(),
		RevokedAt: s.now(),
	})
	if err != nil {
		return domain.Transient(err)
	}

	log.Printf("✅ Token revoked for voter %d", claims.VoterID)
	return nil
}

// PurgeRevoked drops revocation entries for tokens that have expired (cleanup job)
func (s *CredentialService) PurgeRevoked(ctx context.Context) (int64, error) {
	return s.revocationRepo.DeleteExpired(ctx, s.now())
}
