package repositories

import (
	"context"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/core/domain"

	"gorm.io/gorm"
)

// candidateRepository implements CandidateRepository interface
type candidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository creates a new candidate repository
func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// CreateIfUpcoming inserts the candidate only while its election is upcoming.
// The status test and the insert are one statement; false means the election was not upcoming.
func (r *candidateRepository) CreateIfUpcoming(ctx context.Context, candidate *models.Candidate) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO candidates (voter_id, election_id, bio, manifesto, created_at)
		 SELECT ?, ?, ?, ?, ? FROM elections WHERE id = ? AND status = ?`,
		candidate.VoterID, candidate.ElectionID, candidate.Bio, candidate.Manifesto, candidate.CreatedAt,
		candidate.ElectionID, string(domain.StatusUpcoming),
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Exists checks if voterID stands in electionID
func (r *candidateRepository) Exists(ctx context.Context, electionID, voterID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Where("election_id = ? AND voter_id = ?", electionID, voterID).
		Count(&count).Error
	return count > 0, err
}

// ListByElection lists the candidates of an election with their names
func (r *candidateRepository) ListByElection(ctx context.Context, electionID uint) ([]*CandidateView, error) {
	var views []*CandidateView
	err := r.db.WithContext(ctx).
		Table("candidates AS c").
		Select("c.voter_id AS candidate_id, v.full_name AS full_name, c.bio AS bio, c.manifesto AS manifesto").
		Joins("JOIN voters v ON v.id = c.voter_id").
		Where("c.election_id = ?", electionID).
		Order("c.voter_id ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}
