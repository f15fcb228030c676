package repositories

import (
	"context"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/core/domain"

	"gorm.io/gorm"
)

// voteRepository implements VoteRepository interface
type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// CreateIfOngoing inserts a vote only while its election is ongoing.
// idx_votes_voter_election rejects a second row per voter with a unique violation;
// false means the election was no longer ongoing when the row would have been written.
func (r *voteRepository) CreateIfOngoing(ctx context.Context, vote *models.Vote) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO votes (voter_id, election_id, candidate_id, reference_number, cast_at)
		 SELECT ?, ?, ?, ?, ? FROM elections WHERE id = ? AND status = ?`,
		vote.VoterID, vote.ElectionID, vote.CandidateID, vote.ReferenceNumber, vote.CastAt,
		vote.ElectionID, string(domain.StatusOngoing),
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// GetByVoterAndElection gets the voter's vote in an election
func (r *voteRepository) GetByVoterAndElection(ctx context.Context, voterID, electionID uint) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("voter_id = ? AND election_id = ?", voterID, electionID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// Tally counts committed votes per candidate, including candidates with none
func (r *voteRepository) Tally(ctx context.Context, electionID uint) ([]*TallyRow, error) {
	var rows []*TallyRow
	err := r.db.WithContext(ctx).
		Table("candidates AS c").
		Select("c.voter_id AS candidate_id, vt.full_name AS full_name, COUNT(v.id) AS vote_count").
		Joins("JOIN voters vt ON vt.id = c.voter_id").
		Joins("LEFT JOIN votes v ON v.candidate_id = c.voter_id AND v.election_id = c.election_id").
		Where("c.election_id = ?", electionID).
		Group("c.voter_id, vt.full_name").
		Order("vote_count DESC, c.voter_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByElection lists votes of an election with pagination
func (r *voteRepository) ListByElection(ctx context.Context, electionID uint, offset, limit int) ([]*models.Vote, int64, error) {
	var votes []*models.Vote
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Vote{}).Where("election_id = ?", electionID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&votes).Error
	if err != nil {
		return nil, 0, err
	}
	return votes, total, nil
}

// receiptRepository implements ReceiptRepository interface
type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

// Create stores a receipt
func (r *receiptRepository) Create(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

// GetByReference gets a receipt by reference number
func (r *receiptRepository) GetByReference(ctx context.Context, reference string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).Where("reference_number = ?", reference).First(&receipt).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}
