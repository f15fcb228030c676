package services_test

import (
	"context"
	"testing"
	"time"

	"campusvote/internal/core/domain"

	"github.com/stretchr/testify/suite"
)

type stepUpSuite struct {
	suite.Suite
	h   *harness
	ctx context.Context
}

func TestStepUpSuite(t *testing.T) {
	suite.Run(t, new(stepUpSuite))
}

func (s *stepUpSuite) SetupTest() {
	s.h = newHarness(s.T())
	s.ctx = context.Background()
}

func (s *stepUpSuite) TestRequire_WithoutGrant() {
	s.ErrorIs(s.h.stepUp.Require(s.ctx, 1, 2, 3), domain.ErrStepUpRequired)
	s.ErrorIs(s.h.stepUp.RequireOTP(s.ctx, 1, 2, 3), domain.ErrStepUpRequired)
}

func (s *stepUpSuite) TestBothStepsGrantTheBallot() {
	s.Require().NoError(s.h.stepUp.MarkOTP(s.ctx, 1, 2, 3))
	s.NoError(s.h.stepUp.RequireOTP(s.ctx, 1, 2, 3))
	s.ErrorIs(s.h.stepUp.Require(s.ctx, 1, 2, 3), domain.ErrStepUpRequired)

	s.Require().NoError(s.h.stepUp.MarkFace(s.ctx, 1, 2, 3, 91.2))
	s.NoError(s.h.stepUp.Require(s.ctx, 1, 2, 3))
}

func (s *stepUpSuite) TestMarkFace_NeedsOTPFirst() {
	err := s.h.stepUp.MarkFace(s.ctx, 1, 2, 3, 91.2)
	s.ErrorIs(err, domain.ErrStepUpRequired)
}

func (s *stepUpSuite) TestGrantIsBoundToCandidate() {
	s.Require().NoError(s.h.stepUp.MarkOTP(s.ctx, 1, 2, 3))
	s.Require().NoError(s.h.stepUp.MarkFace(s.ctx, 1, 2, 3, 91.2))

	s.ErrorIs(s.h.stepUp.Require(s.ctx, 1, 2, 4), domain.ErrStepUpRequired)
	s.ErrorIs(s.h.stepUp.MarkFace(s.ctx, 1, 2, 4, 91.2), domain.ErrStepUpRequired)
}

func (s *stepUpSuite) TestNewOTPResetsFaceStep() {
	s.Require().NoError(s.h.stepUp.MarkOTP(s.ctx, 1, 2, 3))
	s.Require().NoError(s.h.stepUp.MarkFace(s.ctx, 1, 2, 3, 91.2))

	s.Require().NoError(s.h.stepUp.MarkOTP(s.ctx, 1, 2, 4))
	s.ErrorIs(s.h.stepUp.Require(s.ctx, 1, 2, 4), domain.ErrStepUpRequired)
	s.ErrorIs(s.h.stepUp.Require(s.ctx, 1, 2, 3), domain.ErrStepUpRequired)
}

func (s *stepUpSuite) TestGrantExpires() {
	s.Require().NoError(s.h.stepUp.MarkOTP(s.ctx, 1, 2, 3))
	s.h.clock.Advance(11 * time.Minute)

	s.ErrorIs(s.h.stepUp.RequireOTP(s.ctx, 1, 2, 3), domain.ErrStepUpRequired)
	s.ErrorIs(s.h.stepUp.MarkFace(s.ctx, 1, 2, 3, 91.2), domain.ErrStepUpRequired)
}

func (s *stepUpSuite) TestConsume() {
	s.Require().NoError(s.h.stepUp.MarkOTP(s.ctx, 1, 2, 3))
	s.Require().NoError(s.h.stepUp.MarkFace(s.ctx, 1, 2, 3, 91.2))

	s.h.stepUp.Consume(s.ctx, 1, 2)
	s.ErrorIs(s.h.stepUp.Require(s.ctx, 1, 2, 3), domain.ErrStepUpRequired)
}

func (s *stepUpSuite) TestPurgeStale() {
	s.Require().NoError(s.h.stepUp.MarkOTP(s.ctx, 1, 2, 3))
	s.h.clock.Advance(5 * time.Minute)
	s.Require().NoError(s.h.stepUp.MarkOTP(s.ctx, 5, 2, 3))
	s.h.clock.Advance(6 * time.Minute)

	n, err := s.h.stepUp.PurgeStale(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
	s.NoError(s.h.stepUp.RequireOTP(s.ctx, 5, 2, 3))
}
