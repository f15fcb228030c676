package repositories

import (
	"context"
	"time"

	"campusvote/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// revocationRepository implements RevocationRepository interface
type revocationRepository struct {
	db *gorm.DB
}

// NewRevocationRepository creates a new revocation repository
func NewRevocationRepository(db *gorm.DB) RevocationRepository {
	return &revocationRepository{db: db}
}

// Revoke records a token hash; revoking twice is a no-op
func (r *revocationRepository) Revoke(ctx context.Context, token *models.RevokedToken) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(token).Error
}

// IsRevoked checks whether a token hash was revoked
func (r *revocationRepository) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("token_hash = ?", tokenHash).
		Count(&count).Error
	return count > 0, err
}

// DeleteExpired deletes entries whose token can no longer verify anyway (cleanup job)
func (r *revocationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}
