package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Vote Ledger
	MetricVotesCast = "votes_cast_total"
	// Step-Up
	MetricOTPVerifications = "otp_verifications_total"
	MetricFaceMatches      = "face_matches_total"
	MetricFaceSimilarity   = "face_match_similarity"
	// Lifecycle
	MetricTransitions   = "election_transitions_total"
	MetricSweepDuration = "scheduler_sweep_duration_seconds"
	// Fan-out
	MetricPushBatches = "push_batches_total"
)

var (
	VotesCast = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricVotesCast,
		Help: "Vote cast attempts by outcome code",
	}, []string{"outcome"})

	OTPVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricOTPVerifications,
		Help: "One-time code verifications by outcome code",
	}, []string{"outcome"})

	FaceMatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricFaceMatches,
		Help: "Face comparisons by outcome",
	}, []string{"outcome"})

	FaceSimilarity = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    MetricFaceSimilarity,
		Help:    "Best similarity returned by the comparison service",
		Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 85, 90, 95, 100},
	})

	Transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricTransitions,
		Help: "Committed election status transitions by target status",
	}, []string{"to"})

	SweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: MetricSweepDuration,
		Help: "Duration of the periodic lifecycle sweep",
	})

	PushBatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricPushBatches,
		Help: "Push batches dispatched by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		VotesCast,
		OTPVerifications,
		FaceMatches,
		FaceSimilarity,
		Transitions,
		SweepDuration,
		PushBatches,
	)
}

// Handler exposes the default registry on a Fiber route
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
