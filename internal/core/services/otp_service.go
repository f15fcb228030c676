package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/adapters/persistence/repositories"
	"campusvote/internal/config"
	"campusvote/internal/core/domain"
	"campusvote/internal/pkg/metrics"
	"campusvote/internal/pkg/secret"

	"github.com/google/uuid"
)

// ============================================================
// OTP Service - step-up challenge bound to the voter id
// ============================================================

// ChallengeService issues and checks one-time codes
type ChallengeService struct {
	challengeRepo repositories.ChallengeRepository
	voterRepo     repositories.VoterRepository
	sender        ChallengeSender
	cfg           config.OTPConfig
	sendTimeout   time.Duration
	now           Clock
}

// NewChallengeService creates a new challenge service
func NewChallengeService(
	challengeRepo repositories.ChallengeRepository,
	voterRepo repositories.VoterRepository,
	sender ChallengeSender,
	cfg config.OTPConfig,
	sendTimeout time.Duration,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		voterRepo:     voterRepo,
		sender:        sender,
		cfg:           cfg,
		sendTimeout:   sendTimeout,
		now:           SystemClock,
	}
}

// SetClock replaces the time source
func (s *ChallengeService) SetClock(now Clock) {
	s.now = now
}

// IssueResult reports a new challenge and whether its code reached the voter
type IssueResult struct {
	ChallengeID string    `json:"challenge_id"`
	ExpiresAt   time.Time `json:"expires_at"`
	Delivered   bool      `json:"delivered"`
}

// Issue creates a fresh challenge, superseding any previous one, and sends the code.
// A delivery failure is reported through Delivered=false and does not fail the call.
func (s *ChallengeService) Issue(ctx context.Context, voterID uint) (*IssueResult, error) {
	voter, err := s.voterRepo.GetByID(ctx, voterID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, domain.Transient(err)
	}

	now := s.now()

	// Resend cool-down only counts codes that actually went out
	existing, err := s.challengeRepo.GetByVoterID(ctx, voterID)
	if err != nil && !repositories.IsNotFound(err) {
		return nil, domain.Transient(err)
	}
	if existing != nil && existing.DeliveredAt != nil && now.Sub(existing.CreatedAt) < s.cfg.Cooldown {
		wait := s.cfg.Cooldown - now.Sub(existing.CreatedAt)
		return nil, domain.WithMessage(domain.ErrRateLimited, "please wait %d seconds before requesting another code", int(wait.Seconds())+1)
	}

	code, err := secret.Digits(s.cfg.CodeLength)
	if err != nil {
		return nil, domain.Wrap(domain.ErrPersistence, fmt.Errorf("generate code: %w", err))
	}
	codeHash, err := secret.HashCode(code)
	if err != nil {
		return nil, domain.Wrap(domain.ErrPersistence, fmt.Errorf("hash code: %w", err))
	}

	challenge := &models.OTPChallenge{
		ChallengeID: uuid.NewString(),
		VoterID:     voterID,
		CodeHash:    codeHash,
		ExpiresAt:   now.Add(s.cfg.TTL),
		CreatedAt:   now,
	}
	if err := s.challengeRepo.Replace(ctx, challenge); err != nil {
		if repositories.IsDuplicate(err) {
			// a concurrent issue for the same voter won
			return nil, domain.ErrChallengeBusy
		}
		return nil, domain.Transient(err)
	}

	result := &IssueResult{
		ChallengeID: challenge.ChallengeID,
		ExpiresAt:   challenge.ExpiresAt,
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	if err := s.sender.SendCode(sendCtx, voter.Email, code); err != nil {
		log.Printf("⚠️ OTP delivery failed for voter %d: %v", voterID, err)
		return result, nil
	}

	if err := s.challengeRepo.MarkDelivered(ctx, challenge.ID, now); err != nil {
		log.Printf("⚠️ Failed to mark OTP %s delivered: %v", challenge.ChallengeID, err)
	}
	result.Delivered = true

	log.Printf("✅ OTP issued for voter %d (challenge %s)", voterID, challenge.ChallengeID)
	return result, nil
}

// Verify checks code against the voter's live challenge and consumes it on success
func (s *ChallengeService) Verify(ctx context.Context, voterID uint, code string) error {
	err := s.verify(ctx, voterID, code)
	metrics.OTPVerifications.WithLabelValues(outcomeOf(err)).Inc()
	return err
}

func (s *ChallengeService) verify(ctx context.Context, voterID uint, code string) error {
	challenge, err := s.challengeRepo.GetByVoterID(ctx, voterID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.ErrChallengeNotFound
		}
		return domain.Transient(err)
	}

	// Expired beats every other outcome so "too slow" is never reported as "wrong"
	if s.now().After(challenge.ExpiresAt) {
		if _, err := s.challengeRepo.Delete(ctx, challenge.ID); err != nil {
			log.Printf("⚠️ Failed to delete expired OTP %s: %v", challenge.ChallengeID, err)
		}
		return domain.ErrChallengeExpired
	}

	if challenge.Attempts >= s.cfg.MaxAttempts {
		return domain.ErrTooManyAttempts
	}

	if !secret.Verify(code, challenge.CodeHash) {
		counted, err := s.challengeRepo.IncrementAttempts(ctx, challenge.ID, s.cfg.MaxAttempts)
		if err != nil {
			return domain.Transient(err)
		}
		if !counted {
			return domain.ErrTooManyAttempts
		}
		left := s.cfg.MaxAttempts - challenge.Attempts - 1
		return domain.WithMessage(domain.ErrChallengeInvalid, "invalid code (%d attempts left)", left)
	}

	consumed, err := s.challengeRepo.Delete(ctx, challenge.ID)
	if err != nil {
		return domain.Transient(err)
	}
	if !consumed {
		// single use: a concurrent verify already spent it
		return domain.ErrChallengeNotFound
	}
	return nil
}

// PurgeExpired drops expired challenges (cleanup job)
func (s *ChallengeService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.challengeRepo.DeleteExpired(ctx, s.now())
}

// outcomeOf labels metrics with the domain code or "ok"
func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "error"
}
