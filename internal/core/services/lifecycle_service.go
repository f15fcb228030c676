package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/adapters/persistence/repositories"
	"campusvote/internal/core/domain"
	"campusvote/internal/pkg/metrics"
)

// ============================================================
// Election Lifecycle - upcoming → ongoing → ended
// ============================================================

// LifecycleService owns election status and its time-driven transitions
type LifecycleService struct {
	electionRepo repositories.ElectionRepository
	events       EventPublisher
	now          Clock
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(electionRepo repositories.ElectionRepository, events EventPublisher) *LifecycleService {
	return &LifecycleService{
		electionRepo: electionRepo,
		events:       events,
		now:          SystemClock,
	}
}

// SetClock replaces the time source
func (s *LifecycleService) SetClock(now Clock) {
	s.now = now
}

// CreateElectionInput represents election creation input
type CreateElectionInput struct {
	Title           string    `json:"title" validate:"required,min=3,max=200"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	DurationMinutes int       `json:"duration" validate:"required,min=1,max=43200"`
	FacultyID       string    `json:"faculty_id" validate:"omitempty,max=30"`
}

// Create stores a new upcoming election and announces it
func (s *LifecycleService) Create(ctx context.Context, createdBy uint, input *CreateElectionInput) (*models.Election, error) {
	faculty := strings.TrimSpace(input.FacultyID)
	if faculty == "" {
		faculty = domain.FacultyGeneral
	}

	election := &models.Election{
		Title:           strings.TrimSpace(input.Title),
		StartDate:       input.StartDate.UTC(),
		DurationMinutes: input.DurationMinutes,
		Status:          string(domain.StatusUpcoming),
		FacultyID:       faculty,
		CreatedBy:       createdBy,
	}
	if err := s.electionRepo.Create(ctx, election); err != nil {
		return nil, domain.Transient(err)
	}

	log.Printf("✅ Election %d created: %q starts %s (%d min, scope=%s)",
		election.ID, election.Title, election.StartDate.Format(time.RFC3339), election.DurationMinutes, election.FacultyID)

	s.publish(election, domain.EventElectionCreated, "", domain.StatusUpcoming)
	return election, nil
}

// Get returns the persisted election
func (s *LifecycleService) Get(ctx context.Context, electionID uint) (*models.Election, error) {
	election, err := s.electionRepo.GetByID(ctx, electionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, domain.Transient(err)
	}
	return election, nil
}

// Transition applies an explicitly proposed status.
// Only the next status on the path is accepted, and only once its time has come.
// Re-proposing the current status after it was reached is an idempotent success.
func (s *LifecycleService) Transition(ctx context.Context, electionID uint, proposed domain.ElectionStatus) (*models.Election, error) {
	if !proposed.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	election, err := s.Get(ctx, electionID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, election, proposed, s.now())
}

// Sync advances an election to the status its schedule implies, one step at a time
func (s *LifecycleService) Sync(ctx context.Context, electionID uint) (*models.Election, error) {
	election, err := s.Get(ctx, electionID)
	if err != nil {
		return nil, err
	}
	return s.sync(ctx, election, s.now())
}

// Sweep syncs every election that has started but not ended.
// Per-election failures are logged and left for the next sweep.
func (s *LifecycleService) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	now := s.now()
	due, err := s.electionRepo.ListDue(ctx, now)
	if err != nil {
		return 0, domain.Transient(err)
	}

	moved := 0
	for _, election := range due {
		before := election.CurrentStatus()
		updated, err := s.sync(ctx, election, now)
		if err != nil {
			log.Printf("❌ Lifecycle sweep failed for election %d: %v", election.ID, err)
			continue
		}
		if updated.CurrentStatus() != before {
			moved++
		}
	}
	return moved, nil
}

func (s *LifecycleService) sync(ctx context.Context, election *models.Election, now time.Time) (*models.Election, error) {
	target := election.Schedule().StatusAt(now)

	// at most two forward steps exist; the bound guards against a misbehaving store
	for i := 0; i < 3 && election.CurrentStatus().Before(target); i++ {
		next, _ := election.CurrentStatus().Next()
		updated, err := s.apply(ctx, election, next, now)
		if err != nil {
			if !errors.Is(err, domain.ErrInvalidTransition) {
				return nil, err
			}
			// another caller moved it further; continue from what is stored
			if updated, err = s.Get(ctx, election.ID); err != nil {
				return nil, err
			}
		}
		election = updated
	}
	return election, nil
}

func (s *LifecycleService) apply(ctx context.Context, election *models.Election, proposed domain.ElectionStatus, now time.Time) (*models.Election, error) {
	current := election.CurrentStatus()
	schedule := election.Schedule()

	if current == proposed {
		if proposed != domain.StatusUpcoming && schedule.Due(proposed, now) {
			return election, nil
		}
		return nil, domain.WithMessage(domain.ErrInvalidTransition, "election is already %s", current)
	}

	next, ok := current.Next()
	if !ok || next != proposed {
		return nil, domain.WithMessage(domain.ErrInvalidTransition, "cannot move from %s to %s", current, proposed)
	}
	if !schedule.Due(proposed, now) {
		return nil, domain.WithMessage(domain.ErrInvalidTransition, "election cannot be %s before %s",
			proposed, dueAt(schedule, proposed).Format(time.RFC3339))
	}

	swapped, err := s.electionRepo.CompareAndSetStatus(ctx, election.ID, current, proposed)
	if err != nil {
		return nil, domain.Transient(err)
	}
	if !swapped {
		fresh, err := s.Get(ctx, election.ID)
		if err != nil {
			return nil, err
		}
		if fresh.CurrentStatus() == proposed {
			// a concurrent caller made the same move and owns its side effects
			return fresh, nil
		}
		return nil, domain.WithMessage(domain.ErrInvalidTransition, "election is already %s", fresh.CurrentStatus())
	}

	updated := *election
	updated.Status = string(proposed)

	metrics.Transitions.WithLabelValues(string(proposed)).Inc()
	log.Printf("✅ Election %d moved %s → %s", election.ID, current, proposed)

	s.publish(&updated, domain.EventStatusChanged, current, proposed)
	return &updated, nil
}

func (s *LifecycleService) publish(election *models.Election, eventType string, from, to domain.ElectionStatus) {
	if s.events == nil {
		return
	}
	event := domain.ElectionEvent{
		Type:       eventType,
		ElectionID: election.ID,
		Title:      election.Title,
		FacultyID:  election.FacultyID,
		From:       from,
		To:         to,
		At:         s.now(),
	}
	go s.events.Publish(event)
}

func dueAt(schedule domain.Schedule, status domain.ElectionStatus) time.Time {
	if status == domain.StatusEnded {
		return schedule.EndDate()
	}
	return schedule.StartDate
}
