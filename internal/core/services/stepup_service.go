package services

import (
	"context"
	"log"
	"time"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/adapters/persistence/repositories"
	"campusvote/internal/core/domain"
)

// StepUpService records which verification steps a voter passed for a ballot
type StepUpService struct {
	grantRepo repositories.GrantRepository
	ttl       time.Duration
	now       Clock
}

// NewStepUpService creates a new step-up service
func NewStepUpService(grantRepo repositories.GrantRepository, ttl time.Duration) *StepUpService {
	return &StepUpService{
		grantRepo: grantRepo,
		ttl:       ttl,
		now:       SystemClock,
	}
}

// SetClock replaces the time source
func (s *StepUpService) SetClock(now Clock) {
	s.now = now
}

// MarkOTP starts a grant after a successful code check, discarding older progress
func (s *StepUpService) MarkOTP(ctx context.Context, voterID, electionID, candidateID uint) error {
	if err := s.grantRepo.StampOTP(ctx, voterID, electionID, candidateID, s.now()); err != nil {
		return domain.Transient(err)
	}
	return nil
}

// RequireOTP fails unless a recent OTP step exists for this exact ballot
func (s *StepUpService) RequireOTP(ctx context.Context, voterID, electionID, candidateID uint) error {
	_, err := s.fresh(ctx, voterID, electionID, candidateID)
	return err
}

// MarkFace stamps a passed face match onto a grant that already has its OTP step
func (s *StepUpService) MarkFace(ctx context.Context, voterID, electionID, candidateID uint, similarity float64) error {
	now := s.now()
	stamped, err := s.grantRepo.StampFace(ctx, voterID, electionID, candidateID, similarity, now, now.Add(-s.ttl))
	if err != nil {
		return domain.Transient(err)
	}
	if !stamped {
		return domain.WithMessage(domain.ErrStepUpRequired, "verify the one-time code first")
	}
	return nil
}

// Require fails unless both steps passed recently for this exact ballot
func (s *StepUpService) Require(ctx context.Context, voterID, electionID, candidateID uint) error {
	grant, err := s.fresh(ctx, voterID, electionID, candidateID)
	if err != nil {
		return err
	}
	if grant.FaceVerifiedAt == nil || grant.FaceVerifiedAt.Before(s.now().Add(-s.ttl)) {
		return domain.WithMessage(domain.ErrStepUpRequired, "complete face verification first")
	}
	return nil
}

// Consume drops the grant once the ballot is committed
func (s *StepUpService) Consume(ctx context.Context, voterID, electionID uint) {
	if err := s.grantRepo.Delete(ctx, voterID, electionID); err != nil {
		log.Printf("⚠️ Failed to consume step-up grant voter=%d election=%d: %v", voterID, electionID, err)
	}
}

// PurgeStale drops grants older than the TTL (cleanup job)
func (s *StepUpService) PurgeStale(ctx context.Context) (int64, error) {
	return s.grantRepo.DeleteStale(ctx, s.now().Add(-s.ttl))
}

func (s *StepUpService) fresh(ctx context.Context, voterID, electionID, candidateID uint) (*models.StepUpGrant, error) {
	grant, err := s.grantRepo.Get(ctx, voterID, electionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrStepUpRequired
		}
		return nil, domain.Transient(err)
	}
	if grant.CandidateID != candidateID {
		return nil, domain.WithMessage(domain.ErrStepUpRequired, "verification was completed for a different candidate")
	}
	if grant.OTPVerifiedAt == nil || grant.OTPVerifiedAt.Before(s.now().Add(-s.ttl)) {
		return nil, domain.WithMessage(domain.ErrStepUpRequired, "one-time code verification expired")
	}
	return grant, nil
}
