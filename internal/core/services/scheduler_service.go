package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"campusvote/internal/config"

	"github.com/robfig/cron/v3"
)

// ============================================================
// Scheduler: lifecycle sweep + TTL cleanup
// ============================================================

// jobTimeout bounds a single run of any job
const jobTimeout = 1 * time.Minute

// SchedulerService drives time-based transitions and purges expired state
type SchedulerService struct {
	cron        *cron.Cron
	cfg         config.SchedulerConfig
	lifecycle   *LifecycleService
	challenges  *ChallengeService
	credentials *CredentialService
	stepUp      *StepUpService
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(
	cfg config.SchedulerConfig,
	lifecycle *LifecycleService,
	challenges *ChallengeService,
	credentials *CredentialService,
	stepUp *StepUpService,
) *SchedulerService {
	logger := cron.PrintfLogger(log.Default())
	return &SchedulerService{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		cfg:         cfg,
		lifecycle:   lifecycle,
		challenges:  challenges,
		credentials: credentials,
		stepUp:      stepUp,
	}
}

// Start registers the jobs and starts the cron loop
func (s *SchedulerService) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.SweepSpec, s.RunSweep); err != nil {
		return fmt.Errorf("invalid sweep spec %q: %w", s.cfg.SweepSpec, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.CleanupSpec, s.RunCleanup); err != nil {
		return fmt.Errorf("invalid cleanup spec %q: %w", s.cfg.CleanupSpec, err)
	}

	s.cron.Start()
	log.Printf("🚀 Scheduler started (sweep=%s, cleanup=%s)", s.cfg.SweepSpec, s.cfg.CleanupSpec)

	// catch up on anything that became due while the server was down
	go s.RunSweep()
	return nil
}

// Stop waits for running jobs up to ctx's deadline
func (s *SchedulerService) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		log.Println("🛑 Scheduler stopped")
	case <-ctx.Done():
		log.Println("⚠️ Scheduler stop timed out with jobs still running")
	}
}

// RunSweep advances every due election. Failures wait for the next tick.
func (s *SchedulerService) RunSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	moved, err := s.lifecycle.Sweep(ctx)
	if err != nil {
		log.Printf("❌ Lifecycle sweep error: %v", err)
		return
	}
	if moved > 0 {
		log.Printf("⏱️ Lifecycle sweep moved %d elections", moved)
	}
}

// RunCleanup drops expired challenges, revocations and step-up grants
func (s *SchedulerService) RunCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	jobs := []struct {
		name string
		run  func(context.Context) (int64, error)
	}{
		{"otp challenges", s.challenges.PurgeExpired},
		{"revoked tokens", s.credentials.PurgeRevoked},
		{"step-up grants", s.stepUp.PurgeStale},
	}

	for _, job := range jobs {
		n, err := job.run(ctx)
		if err != nil {
			log.Printf("❌ Cleanup of %s failed: %v", job.name, err)
			continue
		}
		if n > 0 {
			log.Printf("⏱️ Cleanup removed %d expired %s", n, job.name)
		}
	}
}
