package services_test

import (
	"testing"
	"time"

	"campusvote/internal/adapters/persistence/repositories"
	"campusvote/internal/config"
	"campusvote/internal/core/domain"
	"campusvote/internal/core/services"
	"campusvote/internal/testutil"

	"gorm.io/gorm"
)

// harness wires every service over one sqlite database with fake collaborators
type harness struct {
	db     *gorm.DB
	cfg    *config.Config
	clock  *testutil.Clock
	mail   *testutil.Mailer
	faces  *testutil.Faces
	push   *testutil.Push
	events *testutil.Recorder
	hub    *services.EventHub

	credentials   *services.CredentialService
	voters        *services.VoterService
	lifecycle     *services.LifecycleService
	candidates    *services.CandidateService
	votes         *services.VoteService
	challenges    *services.ChallengeService
	biometrics    *services.BiometricService
	stepUp        *services.StepUpService
	ballots       *services.BallotService
	notifications *services.NotificationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		db:     testutil.SetupTestDB(t),
		cfg:    testutil.TestConfig(),
		clock:  testutil.NewClock(testutil.Epoch),
		mail:   testutil.NewMailer(),
		faces:  testutil.NewFaces(92.5),
		push:   testutil.NewPush(),
		events: &testutil.Recorder{},
		hub:    services.NewEventHub(),
	}

	voterRepo := repositories.NewVoterRepository(h.db)
	electionRepo := repositories.NewElectionRepository(h.db)
	candidateRepo := repositories.NewCandidateRepository(h.db)
	subscriptionRepo := repositories.NewSubscriptionRepository(h.db)
	biometricRepo := repositories.NewBiometricRepository(h.db)

	h.notifications = services.NewNotificationService(subscriptionRepo, h.push, h.cfg.Push.BatchSize)
	h.notifications.SetRetryDelay(time.Millisecond)

	h.credentials = services.NewCredentialService(voterRepo, repositories.NewRevocationRepository(h.db), h.cfg)
	h.voters = services.NewVoterService(voterRepo, repositories.NewStudentRecordRepository(h.db), subscriptionRepo, biometricRepo)
	h.lifecycle = services.NewLifecycleService(electionRepo, services.Publishers{h.hub, h.events})
	h.candidates = services.NewCandidateService(electionRepo, candidateRepo, voterRepo)
	h.votes = services.NewVoteService(electionRepo, candidateRepo, repositories.NewVoteRepository(h.db),
		repositories.NewReceiptRepository(h.db), voterRepo)
	h.challenges = services.NewChallengeService(repositories.NewChallengeRepository(h.db), voterRepo, h.mail, h.cfg.OTP, h.cfg.HTTPTimeout)
	h.biometrics = services.NewBiometricService(biometricRepo, h.faces, h.cfg.Biometric, h.cfg.HTTPTimeout)
	h.stepUp = services.NewStepUpService(repositories.NewGrantRepository(h.db), h.cfg.StepUpTTL)
	h.ballots = services.NewBallotService(h.votes, h.challenges, h.biometrics, h.stepUp)

	h.credentials.SetClock(h.clock.Now)
	h.lifecycle.SetClock(h.clock.Now)
	h.candidates.SetClock(h.clock.Now)
	h.votes.SetClock(h.clock.Now)
	h.challenges.SetClock(h.clock.Now)
	h.stepUp.SetClock(h.clock.Now)

	return h
}

// ongoingElection returns a general election that opened an hour ago with one candidate
func (h *harness) ongoingElection(t *testing.T) (electionID, candidateID uint) {
	t.Helper()

	election := testutil.CreateElection(t, h.db, h.clock.Now().Add(-time.Hour), 180, domain.StatusOngoing, "")
	candidate := testutil.CreateVoter(t, h.db, "Candidate One", "science")
	testutil.AddCandidate(t, h.db, election.ID, candidate)
	return election.ID, candidate.ID
}
