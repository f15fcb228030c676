package testutil

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/config"
	"campusvote/internal/core/domain"
	"campusvote/internal/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain password of every fixture voter
const Password = "correct-horse-42"

// Epoch is the fixed starting point of test clocks
var Epoch = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

// SetupTestDB opens a private in-memory sqlite database with the full schema
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// TestConfig returns a dev configuration backed by sqlite
func TestConfig() *config.Config {
	return &config.Config{
		AppMode:     "dev",
		Port:        "0",
		HTTPTimeout: 2 * time.Second,
		StepUpTTL:   10 * time.Minute,
		Database: config.DatabaseConfig{
			Dialect:    config.DialectSQLite,
			SQLitePath: ":memory:",
		},
		JWT: config.JWTConfig{
			Secret:          "test_secret",
			AccessTokenMins: 60,
		},
		OTP: config.OTPConfig{
			CodeLength:  6,
			TTL:         5 * time.Minute,
			MaxAttempts: 5,
			Cooldown:    time.Minute,
		},
		Biometric: config.BiometricConfig{
			Threshold:     80.0,
			MaxImageBytes: 10 << 20,
		},
		Push: config.PushConfig{
			BatchSize: 100,
		},
		Scheduler: config.SchedulerConfig{
			SweepSpec:   "@every 30s",
			CleanupSpec: "@every 5m",
		},
	}
}

// ============================================================
// Clock
// ============================================================

// Clock is a settable time source
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a clock at start
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// ============================================================
// Fake collaborators
// ============================================================

// Mailer records codes instead of mailing them
type Mailer struct {
	mu    sync.Mutex
	codes map[string]string
	sent  int
	Fail  error
}

// NewMailer creates an empty mailer
func NewMailer() *Mailer {
	return &Mailer{codes: make(map[string]string)}
}

// SendCode implements services.ChallengeSender
func (m *Mailer) SendCode(_ context.Context, address, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.codes[address] = code
	m.sent++
	return nil
}

// LastCode returns the last code sent to address
func (m *Mailer) LastCode(address string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[address]
}

// Sent returns how many codes went out
func (m *Mailer) Sent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

// Faces answers every comparison with Matches or Err
type Faces struct {
	mu      sync.Mutex
	Matches []domain.FaceCandidate
	Err     error
	calls   int
}

// NewFaces returns a comparer that reports a single face at similarity
func NewFaces(similarity float64) *Faces {
	return &Faces{Matches: []domain.FaceCandidate{{Similarity: similarity}}}
}

// Respond replaces the canned answer
func (f *Faces) Respond(matches []domain.FaceCandidate, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Matches = matches
	f.Err = err
}

// Compare implements services.FaceComparer
func (f *Faces) Compare(_ context.Context, _, _ []byte) ([]domain.FaceCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]domain.FaceCandidate(nil), f.Matches...), nil
}

// Calls returns how many comparisons were made
func (f *Faces) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// PushFunc decides the outcome of one batch
type PushFunc func(addresses []string, msg domain.PushMessage) ([]domain.PushOutcome, error)

// Push records batches; by default every address is accepted
type Push struct {
	mu      sync.Mutex
	Send    PushFunc
	batches [][]string
	msgs    []domain.PushMessage
}

// NewPush creates a push sender that accepts everything
func NewPush() *Push {
	return &Push{}
}

// SendBatch implements services.PushSender
func (p *Push) SendBatch(_ context.Context, addresses []string, msg domain.PushMessage) ([]domain.PushOutcome, error) {
	p.mu.Lock()
	p.batches = append(p.batches, append([]string(nil), addresses...))
	p.msgs = append(p.msgs, msg)
	send := p.Send
	p.mu.Unlock()

	if send != nil {
		return send(addresses, msg)
	}
	outcomes := make([]domain.PushOutcome, len(addresses))
	for i, addr := range addresses {
		outcomes[i] = domain.PushOutcome{Address: addr, OK: true}
	}
	return outcomes, nil
}

// Batches returns every batch attempt in order, retries included
func (p *Push) Batches() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]string(nil), p.batches...)
}

// Messages returns the message of every batch attempt
func (p *Push) Messages() []domain.PushMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.PushMessage(nil), p.msgs...)
}

// Recorder collects published election events
type Recorder struct {
	mu     sync.Mutex
	events []domain.ElectionEvent
}

// Publish implements services.EventPublisher
func (r *Recorder) Publish(event domain.ElectionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []domain.ElectionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ElectionEvent(nil), r.events...)
}

// ============================================================
// Fixtures
// ============================================================

var seq int64

// hashedPassword uses the minimum bcrypt cost so fixtures stay fast
var hashedPassword = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

// CreateVoter inserts a student; an empty faculty leaves the voter unaffiliated
func CreateVoter(t *testing.T, db *gorm.DB, name, faculty string) *models.Voter {
	t.Helper()

	n := atomic.AddInt64(&seq, 1)
	voter := &models.Voter{
		Email:        fmt.Sprintf("voter%d@campus.test", n),
		PasswordHash: hashedPassword,
		FullName:     name,
		Role:         string(domain.RoleStudent),
	}
	if faculty != "" {
		matric := fmt.Sprintf("TST/%04d", n)
		voter.MatricNumber = &matric
		voter.FacultyID = &faculty
	}
	if err := db.Create(voter).Error; err != nil {
		t.Fatalf("Failed to create voter: %v", err)
	}
	return voter
}

// CreateAdmin inserts an admin account
func CreateAdmin(t *testing.T, db *gorm.DB) *models.Voter {
	t.Helper()

	voter := CreateVoter(t, db, "Electoral Officer", "")
	if err := db.Model(voter).Update("role", string(domain.RoleAdmin)).Error; err != nil {
		t.Fatalf("Failed to promote admin: %v", err)
	}
	voter.Role = string(domain.RoleAdmin)
	return voter
}

// CreateElection inserts an election with an explicit stored status
func CreateElection(t *testing.T, db *gorm.DB, start time.Time, minutes int, status domain.ElectionStatus, faculty string) *models.Election {
	t.Helper()

	if faculty == "" {
		faculty = domain.FacultyGeneral
	}
	election := &models.Election{
		Title:           fmt.Sprintf("Election %d", atomic.AddInt64(&seq, 1)),
		StartDate:       start.UTC(),
		DurationMinutes: minutes,
		Status:          string(status),
		FacultyID:       faculty,
		CreatedBy:       1,
	}
	if err := db.Create(election).Error; err != nil {
		t.Fatalf("Failed to create election: %v", err)
	}
	return election
}

// AddCandidate registers voter as a candidate without the status check
func AddCandidate(t *testing.T, db *gorm.DB, electionID uint, voter *models.Voter) {
	t.Helper()

	candidate := &models.Candidate{
		VoterID:    voter.ID,
		ElectionID: electionID,
		Manifesto:  "More study spaces",
	}
	if err := db.Create(candidate).Error; err != nil {
		t.Fatalf("Failed to add candidate: %v", err)
	}
}

// AddStudentRecord inserts a registrar row
func AddStudentRecord(t *testing.T, db *gorm.DB, matric, name, faculty string) {
	t.Helper()

	rec := &models.StudentRecord{MatricNumber: matric, FullName: name, FacultyID: faculty}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("Failed to add student record: %v", err)
	}
}

// Token issues an access token for voter
func Token(t *testing.T, cfg *config.Config, voter *models.Voter) string {
	t.Helper()

	token, err := jwt.GenerateAccessToken(voter.ID, voter.Role, cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// ============================================================
// Images
// ============================================================

func sample() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}

// PNG returns a small valid png
func PNG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, sample()); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// JPEG returns a small valid jpeg
func JPEG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, sample(), nil); err != nil {
		t.Fatalf("Failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}
