package repositories

import (
	"context"
	"time"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/core/domain"
)

// VoterRepository defines voter repository interface
type VoterRepository interface {
	Create(ctx context.Context, voter *models.Voter) error
	GetByID(ctx context.Context, id uint) (*models.Voter, error)
	GetByEmail(ctx context.Context, email string) (*models.Voter, error)
	GetByMatric(ctx context.Context, matric string) (*models.Voter, error)
	ClaimMatric(ctx context.Context, voterID uint, record *models.StudentRecord) (bool, error)
}

// StudentRecordRepository defines the registrar lookup
// Read-only access to student_records table
type StudentRecordRepository interface {
	GetByMatric(ctx context.Context, matric string) (*models.StudentRecord, error)
}

// RevocationRepository defines revoked token repository interface
type RevocationRepository interface {
	Revoke(ctx context.Context, token *models.RevokedToken) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ElectionRepository defines election repository interface
type ElectionRepository interface {
	Create(ctx context.Context, election *models.Election) error
	GetByID(ctx context.Context, id uint) (*models.Election, error)
	CompareAndSetStatus(ctx context.Context, id uint, from, to domain.ElectionStatus) (bool, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.Election, error)
}

// CandidateRepository defines candidate repository interface
type CandidateRepository interface {
	CreateIfUpcoming(ctx context.Context, candidate *models.Candidate) (bool, error)
	Exists(ctx context.Context, electionID, voterID uint) (bool, error)
	ListByElection(ctx context.Context, electionID uint) ([]*CandidateView, error)
}

// VoteRepository defines the append-only vote ledger storage
type VoteRepository interface {
	CreateIfOngoing(ctx context.Context, vote *models.Vote) (bool, error)
	GetByVoterAndElection(ctx context.Context, voterID, electionID uint) (*models.Vote, error)
	Tally(ctx context.Context, electionID uint) ([]*TallyRow, error)
	ListByElection(ctx context.Context, electionID uint, offset, limit int) ([]*models.Vote, int64, error)
}

// ReceiptRepository defines receipt repository interface
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *models.Receipt) error
	GetByReference(ctx context.Context, reference string) (*models.Receipt, error)
}

// ChallengeRepository defines OTP challenge repository interface
type ChallengeRepository interface {
	Replace(ctx context.Context, challenge *models.OTPChallenge) error
	GetByVoterID(ctx context.Context, voterID uint) (*models.OTPChallenge, error)
	MarkDelivered(ctx context.Context, id uint, at time.Time) error
	IncrementAttempts(ctx context.Context, id uint, max int) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// BiometricRepository defines biometric reference repository interface
type BiometricRepository interface {
	Create(ctx context.Context, ref *models.BiometricReference) error
	GetByVoterID(ctx context.Context, voterID uint) (*models.BiometricReference, error)
	Exists(ctx context.Context, voterID uint) (bool, error)
}

// GrantRepository defines step-up grant repository interface
type GrantRepository interface {
	StampOTP(ctx context.Context, voterID, electionID, candidateID uint, at time.Time) error
	StampFace(ctx context.Context, voterID, electionID, candidateID uint, similarity float64, at, notBefore time.Time) (bool, error)
	Get(ctx context.Context, voterID, electionID uint) (*models.StepUpGrant, error)
	Delete(ctx context.Context, voterID, electionID uint) error
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// SubscriptionRepository defines push subscription repository interface
type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *models.PushSubscription) error
	TokensForFaculty(ctx context.Context, faculty string) ([]string, error)
}

// CandidateView is a candidate row joined with the voter's name
type CandidateView struct {
	CandidateID uint   `json:"candidate_id"`
	FullName    string `json:"full_name"`
	Bio         string `json:"bio"`
	Manifesto   string `json:"manifesto"`
}

// TallyRow is one zero-filled result line
type TallyRow struct {
	CandidateID uint   `json:"candidate_id"`
	FullName    string `json:"full_name"`
	VoteCount   int64  `json:"votes"`
}
