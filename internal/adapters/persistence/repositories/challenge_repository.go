package repositories

import (
	"context"
	"time"

	"campusvote/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// challengeRepository implements ChallengeRepository interface
type challengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

// Replace supersedes any live challenge of the voter with a new one
func (r *challengeRepository) Replace(ctx context.Context, challenge *models.OTPChallenge) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("voter_id = ?", challenge.VoterID).Delete(&models.OTPChallenge{}).Error; err != nil {
			return err
		}
		return tx.Create(challenge).Error
	})
}

// GetByVoterID gets the live challenge of a voter
func (r *challengeRepository) GetByVoterID(ctx context.Context, voterID uint) (*models.OTPChallenge, error) {
	var challenge models.OTPChallenge
	err := r.db.WithContext(ctx).Where("voter_id = ?", voterID).First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// MarkDelivered records that the delivery channel accepted the code
func (r *challengeRepository) MarkDelivered(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.OTPChallenge{}).
		Where("id = ?", id).
		Update("delivered_at", at).Error
}

// IncrementAttempts counts a failed verify while the budget is not spent.
// Returns false when the budget was already exhausted or the row is gone.
func (r *challengeRepository) IncrementAttempts(ctx context.Context, id uint, max int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OTPChallenge{}).
		Where("id = ? AND attempts < ?", id, max).
		Update("attempts", gorm.Expr("attempts + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete consumes a challenge; false means another caller consumed it first
func (r *challengeRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.OTPChallenge{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// DeleteExpired deletes expired challenges (cleanup job)
func (r *challengeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.OTPChallenge{})
	return result.RowsAffected, result.Error
}
