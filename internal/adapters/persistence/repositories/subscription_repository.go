package repositories

import (
	"context"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// subscriptionRepository implements SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new push subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Upsert binds a push token to a voter; a token moves with the device
func (r *subscriptionRepository) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"voter_id", "platform", "updated_at"}),
		}).
		Create(sub).Error
}

// TokensForFaculty lists push tokens of voters in scope; general means everyone
func (r *subscriptionRepository) TokensForFaculty(ctx context.Context, faculty string) ([]string, error) {
	var tokens []string
	query := r.db.WithContext(ctx).
		Table("push_subscriptions AS s")

	if faculty != domain.FacultyGeneral {
		query = query.
			Joins("JOIN voters v ON v.id = s.voter_id").
			Where("v.faculty_id = ?", faculty)
	}

	err := query.Order("s.id ASC").Pluck("s.token", &tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
