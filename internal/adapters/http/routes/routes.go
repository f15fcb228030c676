package routes

import (
	"time"

	"campusvote/internal/adapters/http/handlers"
	"campusvote/internal/adapters/http/middleware"
	"campusvote/internal/config"
	"campusvote/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// resultsMaxAge lets clients poll results without hammering the tally query
const resultsMaxAge = 5 * time.Second

// Setup configures all routes for the application
func Setup(app *fiber.App, svc *Services, cfg *config.Config) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg)
	authHandler := handlers.NewAuthHandler(svc.Credentials, svc.Voters)
	voterHandler := handlers.NewVoterHandler(svc.Voters, svc.Biometrics, svc.Votes)
	electionHandler := handlers.NewElectionHandler(svc.Lifecycle, svc.Candidates, svc.Votes, svc.Hub)
	ballotHandler := handlers.NewBallotHandler(svc.Ballots, svc.Votes)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Prometheus metrics
	app.Get("/metrics", metrics.Handler())

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	auth := middleware.AuthMiddleware(svc.Credentials)

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, auth)

	// Voter self-service routes
	voterRoutes := apiV1.Group("/voters/me", auth)
	setupVoterRoutes(voterRoutes, voterHandler)

	// Receipts
	apiV1.Get("/receipts/:reference", auth, middleware.NoCacheHeaders(), voterHandler.GetReceipt)

	// Elections, candidates and ballots
	electionRoutes := apiV1.Group("/elections", auth)
	setupElectionRoutes(electionRoutes, electionHandler, ballotHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, h *handlers.AuthHandler, auth fiber.Handler) {
	// Public routes with stricter rate limit
	router.Post("/register", middleware.AuthRateLimiter(), h.Register)
	router.Post("/login", middleware.AuthRateLimiter(), middleware.NoCacheHeaders(), h.Login)

	// Protected routes
	router.Post("/logout", auth, h.Logout)
	router.Get("/me", auth, h.Me)
}

// setupVoterRoutes configures the caller's account routes
func setupVoterRoutes(router fiber.Router, h *handlers.VoterHandler) {
	router.Post("/academic", h.ClaimMatric)
	router.Post("/biometric", h.EnrollBiometric)
	router.Post("/devices", h.RegisterDevice)
}

// setupElectionRoutes configures election routes
func setupElectionRoutes(router fiber.Router, h *handlers.ElectionHandler, b *handlers.BallotHandler) {
	// Admin only
	router.Post("/", middleware.AdminOnly(), h.Create)
	router.Get("/:id/votes", middleware.AdminOnly(), h.ListVotes)

	// Any authenticated voter; transitions are time-gated so polling clients may drive them
	router.Get("/:id", h.Get)
	router.Post("/:id/status", h.Transition)
	router.Get("/:id/results", middleware.CacheControl(resultsMaxAge), h.Results)
	router.Get("/:id/events", h.Events)
	router.Get("/:id/vote-status", middleware.NoCacheHeaders(), b.VoteStatus)

	// Candidates
	router.Get("/:id/candidates", h.ListCandidates)
	router.Post("/:id/candidates", h.RegisterCandidate)

	// Ballot pipeline: OTP → face → vote
	ballot := router.Group("/:id/candidates/:candidateId", middleware.NoCacheHeaders())
	ballot.Post("/otp", middleware.StepUpRateLimiter(), b.RequestCode)
	ballot.Post("/verify-otp", middleware.StepUpRateLimiter(), b.VerifyCode)
	ballot.Post("/verify-face", middleware.StepUpRateLimiter(), b.VerifyFace)
	ballot.Post("/vote", b.Cast)
}
