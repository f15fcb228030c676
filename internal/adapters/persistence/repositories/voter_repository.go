package repositories

import (
	"context"

	"campusvote/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// voterRepository implements VoterRepository interface
type voterRepository struct {
	db *gorm.DB
}

// NewVoterRepository creates a new voter repository
func NewVoterRepository(db *gorm.DB) VoterRepository {
	return &voterRepository{db: db}
}

// Create creates a new voter
func (r *voterRepository) Create(ctx context.Context, voter *models.Voter) error {
	return r.db.WithContext(ctx).Create(voter).Error
}

// GetByID gets a voter by ID
func (r *voterRepository) GetByID(ctx context.Context, id uint) (*models.Voter, error) {
	var voter models.Voter
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&voter).Error
	if err != nil {
		return nil, err
	}
	return &voter, nil
}

// GetByEmail gets a voter by email
func (r *voterRepository) GetByEmail(ctx context.Context, email string) (*models.Voter, error) {
	var voter models.Voter
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&voter).Error
	if err != nil {
		return nil, err
	}
	return &voter, nil
}

// GetByMatric gets the voter that owns a matriculation number
func (r *voterRepository) GetByMatric(ctx context.Context, matric string) (*models.Voter, error) {
	var voter models.Voter
	err := r.db.WithContext(ctx).Where("matric_number = ?", matric).First(&voter).Error
	if err != nil {
		return nil, err
	}
	return &voter, nil
}

// ClaimMatric sets affiliation once; false means the voter already has one
func (r *voterRepository) ClaimMatric(ctx context.Context, voterID uint, record *models.StudentRecord) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Voter{}).
		Where("id = ?", voterID).
		Where("matric_number IS NULL").
		Updates(map[string]interface{}{
			"matric_number": record.MatricNumber,
			"faculty_id":    record.FacultyID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// studentRecordRepository implements StudentRecordRepository interface
// This is READ-ONLY access to the registrar's student_records table
type studentRecordRepository struct {
	db *gorm.DB
}

// NewStudentRecordRepository creates a new student record repository
func NewStudentRecordRepository(db *gorm.DB) StudentRecordRepository {
	return &studentRecordRepository{db: db}
}

// GetByMatric gets a student record by matriculation number
func (r *studentRecordRepository) GetByMatric(ctx context.Context, matric string) (*models.StudentRecord, error) {
	var record models.StudentRecord
	err := r.db.WithContext(ctx).
		Where("matric_number = ?", matric).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
