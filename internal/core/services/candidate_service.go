package services

import (
	"context"
	"log"
	"strings"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/adapters/persistence/repositories"
	"campusvote/internal/core/domain"
)

// CandidateService handles candidate registration for upcoming elections
type CandidateService struct {
	electionRepo  repositories.ElectionRepository
	candidateRepo repositories.CandidateRepository
	voterRepo     repositories.VoterRepository
	now           Clock
}

// NewCandidateService creates a new candidate service
func NewCandidateService(
	electionRepo repositories.ElectionRepository,
	candidateRepo repositories.CandidateRepository,
	voterRepo repositories.VoterRepository,
) *CandidateService {
	return &CandidateService{
		electionRepo:  electionRepo,
		candidateRepo: candidateRepo,
		voterRepo:     voterRepo,
		now:           SystemClock,
	}
}

// SetClock replaces the time source
func (s *CandidateService) SetClock(now Clock) {
	s.now = now
}

// RegisterCandidateInput represents candidate registration input
type RegisterCandidateInput struct {
	Bio       string `json:"bio" validate:"max=2000"`
	Manifesto string `json:"manifesto" validate:"required,max=10000"`
}

// Register makes voterID a candidate in electionID while it is upcoming
func (s *CandidateService) Register(ctx context.Context, voterID, electionID uint, input *RegisterCandidateInput) (*models.Candidate, error) {
	election, err := s.electionRepo.GetByID(ctx, electionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, domain.Transient(err)
	}
	if election.CurrentStatus() != domain.StatusUpcoming {
		return nil, domain.ErrRegistrationClosed
	}

	voter, err := s.voterRepo.GetByID(ctx, voterID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, domain.Transient(err)
	}
	if !election.OpenTo(voter.Faculty()) {
		return nil, domain.ErrNotEligible
	}

	candidate := &models.Candidate{
		VoterID:    voterID,
		ElectionID: electionID,
		Bio:        strings.TrimSpace(input.Bio),
		Manifesto:  strings.TrimSpace(input.Manifesto),
		CreatedAt:  s.now(),
	}
	created, err := s.candidateRepo.CreateIfUpcoming(ctx, candidate)
	if err != nil {
		if repositories.IsDuplicate(err) {
			return nil, domain.ErrAlreadyCandidate
		}
		return nil, domain.Transient(err)
	}
	if !created {
		// the election started between the read and the insert
		return nil, domain.ErrRegistrationClosed
	}

	log.Printf("✅ Voter %d registered as candidate in election %d", voterID, electionID)
	return candidate, nil
}

// List returns the candidates of an election
func (s *CandidateService) List(ctx context.Context, electionID uint) ([]*repositories.CandidateView, error) {
	if _, err := s.electionRepo.GetByID(ctx, electionID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, domain.Transient(err)
	}

	views, err := s.candidateRepo.ListByElection(ctx, electionID)
	if err != nil {
		return nil, domain.Transient(err)
	}
	if views == nil {
		views = []*repositories.CandidateView{}
	}
	return views, nil
}
