package services

import (
	"context"
	"log"
	"strings"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/adapters/persistence/repositories"
	"campusvote/internal/core/domain"
	"campusvote/internal/pkg/secret"
)

// VoterService handles voter accounts, academic affiliation and devices
type VoterService struct {
	voterRepo        repositories.VoterRepository
	recordRepo       repositories.StudentRecordRepository
	subscriptionRepo repositories.SubscriptionRepository
	biometricRepo    repositories.BiometricRepository
}

// NewVoterService creates a new voter service
func NewVoterService(
	voterRepo repositories.VoterRepository,
	recordRepo repositories.StudentRecordRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	biometricRepo repositories.BiometricRepository,
) *VoterService {
	return &VoterService{
		voterRepo:        voterRepo,
		recordRepo:       recordRepo,
		subscriptionRepo: subscriptionRepo,
		biometricRepo:    biometricRepo,
	}
}

// RegisterInput represents self-registration input
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=150"`
}

// ClaimMatricInput represents the academic verification input
type ClaimMatricInput struct {
	MatricNumber string `json:"matric_number" validate:"required,max=30"`
}

// RegisterDeviceInput represents a push subscription
type RegisterDeviceInput struct {
	PushToken string `json:"push_token" validate:"required,max=255"`
	Platform  string `json:"platform" validate:"omitempty,oneof=ios android web"`
}

// Profile is the voter as shown to themselves
type Profile struct {
	*models.Voter
	Enrolled bool `json:"biometric_enrolled"`
}

// Register creates a student account without affiliation
func (s *VoterService) Register(ctx context.Context, input *RegisterInput) (*models.Voter, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.voterRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !repositories.IsNotFound(err) {
		return nil, domain.Transient(err)
	}

	hash, err := secret.HashPassword(input.Password)
	if err != nil {
		return nil, domain.Transient(err)
	}

	voter := &models.Voter{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         string(domain.RoleStudent),
	}
	if err := s.voterRepo.Create(ctx, voter); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, domain.Transient(err)
	}

	log.Printf("✅ Voter %d registered (%s)", voter.ID, voter.Email)
	return voter, nil
}

// Profile returns the voter with enrollment status
func (s *VoterService) Profile(ctx context.Context, voterID uint) (*Profile, error) {
	voter, err := s.voterRepo.GetByID(ctx, voterID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, domain.Transient(err)
	}

	enrolled, err := s.biometricRepo.Exists(ctx, voterID)
	if err != nil {
		return nil, domain.Transient(err)
	}
	return &Profile{Voter: voter, Enrolled: enrolled}, nil
}

// ClaimMatric sets the voter's faculty from the registrar, once.
// A matriculation number can back only one voter.
func (s *VoterService) ClaimMatric(ctx context.Context, voterID uint, input *ClaimMatricInput) (*models.Voter, error) {
	matric := strings.ToUpper(strings.TrimSpace(input.MatricNumber))

	voter, err := s.voterRepo.GetByID(ctx, voterID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, domain.Transient(err)
	}
	if voter.MatricNumber != nil {
		return nil, domain.ErrAffiliationAlreadySet
	}

	record, err := s.recordRepo.GetByMatric(ctx, matric)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrMatricNotFound
		}
		return nil, domain.Transient(err)
	}

	if owner, err := s.voterRepo.GetByMatric(ctx, matric); err == nil && owner.ID != voterID {
		return nil, domain.ErrMatricAlreadyClaimed
	} else if err != nil && !repositories.IsNotFound(err) {
		return nil, domain.Transient(err)
	}

	claimed, err := s.voterRepo.ClaimMatric(ctx, voterID, record)
	if err != nil {
		if repositories.IsDuplicate(err) {
			return nil, domain.ErrMatricAlreadyClaimed
		}
		return nil, domain.Transient(err)
	}
	if !claimed {
		return nil, domain.ErrAffiliationAlreadySet
	}

	voter.MatricNumber = &record.MatricNumber
	voter.FacultyID = &record.FacultyID
	log.Printf("✅ Voter %d verified as %s (faculty %s)", voterID, record.MatricNumber, record.FacultyID)
	return voter, nil
}

// RegisterDevice stores a push address for the voter
func (s *VoterService) RegisterDevice(ctx context.Context, voterID uint, input *RegisterDeviceInput) error {
	sub := &models.PushSubscription{
		VoterID:  voterID,
		Token:    strings.TrimSpace(input.PushToken),
		Platform: input.Platform,
	}
	if err := s.subscriptionRepo.Upsert(ctx, sub); err != nil {
		return domain.Transient(err)
	}
	return nil
}
