package services

import (
	"context"
	"time"

	"campusvote/internal/core/domain"
)

// ChallengeSender delivers a one-time code out of band (mail relay, SMS)
type ChallengeSender interface {
	SendCode(ctx context.Context, address, code string) error
}

// FaceComparer compares a probe image against a reference.
// It returns every face in the probe that matched, best first or in any order.
type FaceComparer interface {
	Compare(ctx context.Context, reference, probe []byte) ([]domain.FaceCandidate, error)
}

// PushSender delivers one message to a batch of push addresses
type PushSender interface {
	SendBatch(ctx context.Context, addresses []string, msg domain.PushMessage) ([]domain.PushOutcome, error)
}

// EventPublisher receives committed election events.
// Publish must not block the caller for long and never reports failure.
type EventPublisher interface {
	Publish(event domain.ElectionEvent)
}

// Publishers fans one event out to several publishers
type Publishers []EventPublisher

// Publish forwards event to every publisher
func (p Publishers) Publish(event domain.ElectionEvent) {
	for _, pub := range p {
		pub.Publish(event)
	}
}

// Clock returns the current time; services take one so tests can move time
type Clock func() time.Time

// SystemClock is the wall clock in UTC
func SystemClock() time.Time {
	return time.Now().UTC()
}
