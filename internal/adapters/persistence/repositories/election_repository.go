package repositories

import (
	"context"
	"time"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/core/domain"

	"gorm.io/gorm"
)

// electionRepository implements ElectionRepository interface
type electionRepository struct {
	db *gorm.DB
}

// NewElectionRepository creates a new election repository
func NewElectionRepository(db *gorm.DB) ElectionRepository {
	return &electionRepository{db: db}
}

// Create creates a new election
func (r *electionRepository) Create(ctx context.Context, election *models.Election) error {
	return r.db.WithContext(ctx).Create(election).Error
}

// GetByID gets an election by ID
func (r *electionRepository) GetByID(ctx context.Context, id uint) (*models.Election, error) {
	var election models.Election
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&election).Error
	if err != nil {
		return nil, err
	}
	return &election, nil
}

// CompareAndSetStatus moves status from -> to in one statement.
// Returns false when the row was not in the expected state.
func (r *electionRepository) CompareAndSetStatus(ctx context.Context, id uint, from, to domain.ElectionStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Election{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListDue lists elections that have started but are not yet ended
func (r *electionRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Election, error) {
	var elections []*models.Election
	err := r.db.WithContext(ctx).
		Where("status <> ?", string(domain.StatusEnded)).
		Where("start_date <= ?", now).
		Order("start_date ASC").
		Find(&elections).Error
	if err != nil {
		return nil, err
	}
	return elections, nil
}
