package repositories

import (
	"context"

	"campusvote/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// biometricRepository implements BiometricRepository interface
type biometricRepository struct {
	db *gorm.DB
}

// NewBiometricRepository creates a new biometric reference repository
func NewBiometricRepository(db *gorm.DB) BiometricRepository {
	return &biometricRepository{db: db}
}

// Create stores the single reference of a voter
func (r *biometricRepository) Create(ctx context.Context, ref *models.BiometricReference) error {
	return r.db.WithContext(ctx).Create(ref).Error
}

// GetByVoterID gets the enrolled reference
func (r *biometricRepository) GetByVoterID(ctx context.Context, voterID uint) (*models.BiometricReference, error) {
	var ref models.BiometricReference
	err := r.db.WithContext(ctx).Where("voter_id = ?", voterID).First(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// Exists checks if a voter has enrolled
func (r *biometricRepository) Exists(ctx context.Context, voterID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BiometricReference{}).
		Where("voter_id = ?", voterID).
		Count(&count).Error
	return count > 0, err
}
