package models

import (
	"time"

	"campusvote/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Identity Tables
// ============================================================

// Voter represents voters table
type Voter struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:150" json:"full_name"`
	Role         string    `gorm:"size:20;default:'STUDENT'" json:"role"`
	MatricNumber *string   `gorm:"uniqueIndex;size:30" json:"matric_number,omitempty"`
	FacultyID    *string   `gorm:"size:30;index" json:"faculty_id,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Voter) TableName() string {
	return "voters"
}

// Faculty returns the verified faculty or "" when the voter has not claimed one
func (v *Voter) Faculty() string {
	if v.FacultyID == nil {
		return ""
	}
	return *v.FacultyID
}

// StudentRecord represents the registrar's student_records table (Read Only!)
type StudentRecord struct {
	MatricNumber string `gorm:"column:matric_number;primaryKey;size:30" json:"matric_number"`
	FullName     string `gorm:"column:full_name;size:150" json:"full_name"`
	FacultyID    string `gorm:"column:faculty_id;size:30" json:"faculty_id"`
}

func (StudentRecord) TableName() string {
	return "student_records"
}

// RevokedToken represents revoked_tokens table
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenHash string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	VoterID   uint      `gorm:"index;not null" json:"voter_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	RevokedAt time.Time `gorm:"not null" json:"revoked_at"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}

// ============================================================
// Election Tables
// ============================================================

// Election represents elections table
type Election struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	StartDate       time.Time `gorm:"not null;index" json:"start_date"`
	DurationMinutes int       `gorm:"not null" json:"duration"`
	Status          string    `gorm:"size:20;not null;default:'upcoming';index" json:"status"`
	FacultyID       string    `gorm:"size:30;not null;default:'general'" json:"faculty_id"`
	CreatedBy       uint      `gorm:"not null" json:"created_by"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Election) TableName() string {
	return "elections"
}

// Schedule returns the election time window
func (e *Election) Schedule() domain.Schedule {
	return domain.Schedule{StartDate: e.StartDate, DurationMinutes: e.DurationMinutes}
}

// CurrentStatus returns the persisted status
func (e *Election) CurrentStatus() domain.ElectionStatus {
	return domain.ElectionStatus(e.Status)
}

// OpenTo reports whether a voter of faculty may take part
func (e *Election) OpenTo(faculty string) bool {
	return e.FacultyID == domain.FacultyGeneral || e.FacultyID == faculty
}

// Candidate represents candidates table; the candidate id is the voter id
type Candidate struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VoterID    uint      `gorm:"uniqueIndex:idx_candidates_voter_election;not null" json:"candidate_id"`
	ElectionID uint      `gorm:"uniqueIndex:idx_candidates_voter_election;index;not null" json:"election_id"`
	Bio        string    `gorm:"type:text" json:"bio"`
	Manifesto  string    `gorm:"type:text" json:"manifesto"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// Vote represents the append-only votes table
type Vote struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	VoterID         uint      `gorm:"uniqueIndex:idx_votes_voter_election;not null" json:"voter_id"`
	ElectionID      uint      `gorm:"uniqueIndex:idx_votes_voter_election;index;not null" json:"election_id"`
	CandidateID     uint      `gorm:"index;not null" json:"candidate_id"`
	ReferenceNumber string    `gorm:"uniqueIndex;size:20;not null" json:"reference_number"`
	CastAt          time.Time `gorm:"not null" json:"cast_at"`
}

func (Vote) TableName() string {
	return "votes"
}

// Receipt represents receipts table
type Receipt struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ReferenceNumber string         `gorm:"uniqueIndex;size:20;not null" json:"reference_number"`
	VoterID         uint           `gorm:"index;not null" json:"-"`
	Payload         datatypes.JSON `json:"payload"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Receipt) TableName() string {
	return "receipts"
}

// ============================================================
// Verification Tables
// ============================================================

// OTPChallenge represents otp_challenges table, one live challenge per voter
type OTPChallenge struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ChallengeID string     `gorm:"uniqueIndex;size:36;not null" json:"challenge_id"`
	VoterID     uint       `gorm:"uniqueIndex;not null" json:"voter_id"`
	CodeHash    string     `gorm:"size:255;not null" json:"-"`
	Attempts    int        `gorm:"not null;default:0" json:"attempts"`
	ExpiresAt   time.Time  `gorm:"not null;index" json:"expires_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
}

func (OTPChallenge) TableName() string {
	return "otp_challenges"
}

// BiometricReference represents biometric_references table, immutable once written
type BiometricReference struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VoterID   uint      `gorm:"uniqueIndex;not null" json:"voter_id"`
	Format    string    `gorm:"size:10;not null" json:"format"`
	Image     []byte    `gorm:"type:mediumblob;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (BiometricReference) TableName() string {
	return "biometric_references"
}

// StepUpGrant represents step_up_grants table
type StepUpGrant struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	VoterID        uint       `gorm:"uniqueIndex:idx_grants_voter_election;not null" json:"voter_id"`
	ElectionID     uint       `gorm:"uniqueIndex:idx_grants_voter_election;not null" json:"election_id"`
	CandidateID    uint       `gorm:"not null" json:"candidate_id"`
	OTPVerifiedAt  *time.Time `json:"otp_verified_at"`
	FaceVerifiedAt *time.Time `json:"face_verified_at"`
	Similarity     float64    `json:"similarity"`
	RefreshedAt    time.Time  `gorm:"not null;index" json:"refreshed_at"`
}

func (StepUpGrant) TableName() string {
	return "step_up_grants"
}

// PushSubscription represents push_subscriptions table
type PushSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VoterID   uint      `gorm:"index;not null" json:"voter_id"`
	Token     string    `gorm:"uniqueIndex;size:255;not null" json:"push_token"`
	Platform  string    `gorm:"size:20" json:"platform"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PushSubscription) TableName() string {
	return "push_subscriptions"
}

// ============================================================
// Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity
		&Voter{},
		&StudentRecord{},
		&RevokedToken{},
		// Elections
		&Election{},
		&Candidate{},
		&Vote{},
		&Receipt{},
		// Verification
		&OTPChallenge{},
		&BiometricReference{},
		&StepUpGrant{},
		&PushSubscription{},
	)
}
