package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"campusvote/internal/adapters/persistence/repositories"
	"campusvote/internal/core/domain"
	"campusvote/internal/pkg/metrics"

	"github.com/avast/retry-go/v4"
)

// ============================================================
// Notification Fan-out - batched push alerts for election events
// ============================================================

// Batch retry policy for the push gateway
var (
	PushRetryAttempts = retry.Attempts(3)
	PushRetryDelay    = retry.Delay(400 * time.Millisecond)
	PushRetryErr      = retry.LastErrorOnly(true)
)

// DefaultBatchSize is used when the configured size is not positive
const DefaultBatchSize = 100

// publishTimeout bounds one event's whole fan-out
const publishTimeout = 2 * time.Minute

// BatchFailure records one batch that could not be delivered
type BatchFailure struct {
	Index int    `json:"index"`
	Size  int    `json:"size"`
	Error string `json:"error"`
}

// DispatchReport summarises a fan-out
type DispatchReport struct {
	Batches   int            `json:"batches"`
	Delivered int            `json:"delivered"`
	Rejected  int            `json:"rejected"`
	Failures  []BatchFailure `json:"failures,omitempty"`
}

// NotificationService pushes election alerts to subscribed devices
type NotificationService struct {
	subscriptionRepo repositories.SubscriptionRepository
	sender           PushSender
	batchSize        int
	retryDelay       retry.Option
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	subscriptionRepo repositories.SubscriptionRepository,
	sender PushSender,
	batchSize int,
) *NotificationService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &NotificationService{
		subscriptionRepo: subscriptionRepo,
		sender:           sender,
		batchSize:        batchSize,
		retryDelay:       PushRetryDelay,
	}
}

// SetRetryDelay overrides the delay between batch attempts
func (s *NotificationService) SetRetryDelay(d time.Duration) {
	s.retryDelay = retry.Delay(d)
}

// Dispatch splits addresses into fixed-size batches and sends each on its own.
// A failing batch is retried, then recorded in the report; it never stops the others.
func (s *NotificationService) Dispatch(ctx context.Context, addresses []string, msg domain.PushMessage) *DispatchReport {
	report := &DispatchReport{}

	for start := 0; start < len(addresses); start += s.batchSize {
		end := start + s.batchSize
		if end > len(addresses) {
			end = len(addresses)
		}
		batch := addresses[start:end]
		index := report.Batches
		report.Batches++

		outcomes, err := s.sendBatch(ctx, batch, msg)
		if err != nil {
			metrics.PushBatches.WithLabelValues("failed").Inc()
			log.Printf("❌ Push batch %d (%d addresses) failed: %v", index, len(batch), err)
			report.Failures = append(report.Failures, BatchFailure{Index: index, Size: len(batch), Error: err.Error()})
			continue
		}

		metrics.PushBatches.WithLabelValues("sent").Inc()
		for _, o := range outcomes {
			if o.OK {
				report.Delivered++
			} else {
				report.Rejected++
				log.Printf("⚠️ Push to %s rejected: %s", o.Address, o.Reason)
			}
		}
	}

	return report
}

func (s *NotificationService) sendBatch(ctx context.Context, batch []string, msg domain.PushMessage) (outcomes []domain.PushOutcome, err error) {
	err = retry.Do(func() error {
		var sendErr error
		outcomes, sendErr = s.sender.SendBatch(ctx, batch, msg)
		return sendErr
	},
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool { return domain.KindOf(err) == domain.KindTransient }),
		PushRetryAttempts, s.retryDelay, PushRetryErr,
	)
	return outcomes, err
}

// Publish implements EventPublisher: it alerts every device in the election's scope
func (s *NotificationService) Publish(event domain.ElectionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	tokens, err := s.subscriptionRepo.TokensForFaculty(ctx, event.FacultyID)
	if err != nil {
		log.Printf("❌ Failed to load push subscribers for election %d: %v", event.ElectionID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	report := s.Dispatch(ctx, tokens, MessageFor(event))
	log.Printf("📣 Election %d %s: %d batches, %d delivered, %d rejected, %d batches failed",
		event.ElectionID, event.Type, report.Batches, report.Delivered, report.Rejected, len(report.Failures))
}

// MessageFor renders the push alert for an election event
func MessageFor(event domain.ElectionEvent) domain.PushMessage {
	data := map[string]interface{}{
		"type":        event.Type,
		"election_id": event.ElectionID,
		"status":      string(event.To),
	}

	switch {
	case event.Type == domain.EventElectionCreated:
		return domain.PushMessage{
			Title: "New election",
			Body:  fmt.Sprintf("%s has been scheduled", event.Title),
			Data:  data,
		}
	case event.To == domain.StatusOngoing:
		return domain.PushMessage{
			Title: "Voting is open",
			Body:  fmt.Sprintf("%s is now open for voting", event.Title),
			Data:  data,
		}
	case event.To == domain.StatusEnded:
		return domain.PushMessage{
			Title: "Voting has closed",
			Body:  fmt.Sprintf("%s has ended, results are available", event.Title),
			Data:  data,
		}
	default:
		return domain.PushMessage{
			Title: event.Title,
			Body:  fmt.Sprintf("Status changed to %s", event.To),
			Data:  data,
		}
	}
}
