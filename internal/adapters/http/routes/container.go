package routes

import (
	"log"

	"campusvote/internal/adapters/external"
	"campusvote/internal/adapters/persistence/repositories"
	"campusvote/internal/config"
	"campusvote/internal/core/services"

	"gorm.io/gorm"
)

// Collaborators are the out-of-process services the core talks to
type Collaborators struct {
	Mail  services.ChallengeSender
	Faces services.FaceComparer
	Push  services.PushSender
}

// DefaultCollaborators builds the fasthttp clients from configuration.
// Without a mail relay in dev mode, codes are written to the log instead.
func DefaultCollaborators(cfg *config.Config) *Collaborators {
	var mail services.ChallengeSender = external.NewMailClient(cfg.Mail, cfg.HTTPTimeout)
	if cfg.Mail.RelayURL == "" {
		if cfg.IsProd() {
			log.Println("⚠️ MAIL_RELAY_URL not set; one-time codes cannot be delivered")
		} else {
			log.Println("⚠️ MAIL_RELAY_URL not set; one-time codes will be logged")
			mail = external.LogSender{}
		}
	}

	return &Collaborators{
		Mail:  mail,
		Faces: external.NewFaceClient(cfg.Biometric, cfg.HTTPTimeout),
		Push:  external.NewPushClient(cfg.Push, cfg.HTTPTimeout),
	}
}

// Services holds every wired service
type Services struct {
	Credentials   *services.CredentialService
	Voters        *services.VoterService
	Lifecycle     *services.LifecycleService
	Candidates    *services.CandidateService
	Votes         *services.VoteService
	Challenges    *services.ChallengeService
	Biometrics    *services.BiometricService
	StepUp        *services.StepUpService
	Ballots       *services.BallotService
	Notifications *services.NotificationService
	Hub           *services.EventHub
	Scheduler     *services.SchedulerService
}

// NewServices initializes repositories and services
func NewServices(db *gorm.DB, cfg *config.Config, collab *Collaborators) *Services {
	// Initialize repositories
	voterRepo := repositories.NewVoterRepository(db)
	recordRepo := repositories.NewStudentRecordRepository(db)
	revocationRepo := repositories.NewRevocationRepository(db)
	electionRepo := repositories.NewElectionRepository(db)
	candidateRepo := repositories.NewCandidateRepository(db)
	voteRepo := repositories.NewVoteRepository(db)
	receiptRepo := repositories.NewReceiptRepository(db)
	challengeRepo := repositories.NewChallengeRepository(db)
	biometricRepo := repositories.NewBiometricRepository(db)
	grantRepo := repositories.NewGrantRepository(db)
	subscriptionRepo := repositories.NewSubscriptionRepository(db)

	// Event consumers
	hub := services.NewEventHub()
	notifications := services.NewNotificationService(subscriptionRepo, collab.Push, cfg.Push.BatchSize)

	// Initialize services
	credentials := services.NewCredentialService(voterRepo, revocationRepo, cfg)
	voters := services.NewVoterService(voterRepo, recordRepo, subscriptionRepo, biometricRepo)
	lifecycle := services.NewLifecycleService(electionRepo, services.Publishers{hub, notifications})
	candidates := services.NewCandidateService(electionRepo, candidateRepo, voterRepo)
	votes := services.NewVoteService(electionRepo, candidateRepo, voteRepo, receiptRepo, voterRepo)
	challenges := services.NewChallengeService(challengeRepo, voterRepo, collab.Mail, cfg.OTP, cfg.HTTPTimeout)
	biometrics := services.NewBiometricService(biometricRepo, collab.Faces, cfg.Biometric, cfg.HTTPTimeout)
	stepUp := services.NewStepUpService(grantRepo, cfg.StepUpTTL)

	return &Services{
		Credentials:   credentials,
		Voters:        voters,
		Lifecycle:     lifecycle,
		Candidates:    candidates,
		Votes:         votes,
		Challenges:    challenges,
		Biometrics:    biometrics,
		StepUp:        stepUp,
		Ballots:       services.NewBallotService(votes, challenges, biometrics, stepUp),
		Notifications: notifications,
		Hub:           hub,
		Scheduler:     services.NewSchedulerService(cfg.Scheduler, lifecycle, challenges, credentials, stepUp),
	}
}

// SetClock moves every time-aware service onto now
func (s *Services) SetClock(now services.Clock) {
	s.Credentials.SetClock(now)
	s.Lifecycle.SetClock(now)
	s.Candidates.SetClock(now)
	s.Votes.SetClock(now)
	s.Challenges.SetClock(now)
	s.StepUp.SetClock(now)
}
