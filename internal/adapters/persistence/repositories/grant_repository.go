package repositories

import (
	"context"
	"time"

	"campusvote/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// grantRepository implements GrantRepository interface
type grantRepository struct {
	db *gorm.DB
}

// NewGrantRepository creates a new step-up grant repository
func NewGrantRepository(db *gorm.DB) GrantRepository {
	return &grantRepository{db: db}
}

// StampOTP starts a fresh grant for (voter, election), clearing any face stamp
func (r *grantRepository) StampOTP(ctx context.Context, voterID, electionID, candidateID uint, at time.Time) error {
	grant := &models.StepUpGrant{
		VoterID:       voterID,
		ElectionID:    electionID,
		CandidateID:   candidateID,
		OTPVerifiedAt: &at,
		RefreshedAt:   at,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "voter_id"}, {Name: "election_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"candidate_id":     candidateID,
				"otp_verified_at":  at,
				"face_verified_at": nil,
				"similarity":       0,
				"refreshed_at":     at,
			}),
		}).
		Create(grant).Error
}

// StampFace records a passed face match on a grant whose OTP step is recent enough
func (r *grantRepository) StampFace(ctx context.Context, voterID, electionID, candidateID uint, similarity float64, at, notBefore time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StepUpGrant{}).
		Where("voter_id = ? AND election_id = ? AND candidate_id = ?", voterID, electionID, candidateID).
		Where("otp_verified_at IS NOT NULL AND otp_verified_at >= ?", notBefore).
		Updates(map[string]interface{}{
			"face_verified_at": at,
			"similarity":       similarity,
			"refreshed_at":     at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Get gets the grant of (voter, election)
func (r *grantRepository) Get(ctx context.Context, voterID, electionID uint) (*models.StepUpGrant, error) {
	var grant models.StepUpGrant
	err := r.db.WithContext(ctx).
		Where("voter_id = ? AND election_id = ?", voterID, electionID).
		First(&grant).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// Delete consumes the grant
func (r *grantRepository) Delete(ctx context.Context, voterID, electionID uint) error {
	return r.db.WithContext(ctx).
		Where("voter_id = ? AND election_id = ?", voterID, electionID).
		Delete(&models.StepUpGrant{}).Error
}

// DeleteStale deletes grants untouched since before (cleanup job)
func (r *grantRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("refreshed_at < ?", before).
		Delete(&models.StepUpGrant{})
	return result.RowsAffected, result.Error
}
