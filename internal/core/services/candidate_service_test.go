package services_test

import (
	"context"
	"testing"
	"time"

	"campusvote/internal/core/domain"
	"campusvote/internal/core/services"
	"campusvote/internal/testutil"

	"github.com/stretchr/testify/suite"
)

type candidateSuite struct {
	suite.Suite
	h   *harness
	ctx context.Context
}

func TestCandidateSuite(t *testing.T) {
	suite.Run(t, new(candidateSuite))
}

func (s *candidateSuite) SetupTest() {
	s.h = newHarness(s.T())
	s.ctx = context.Background()
}

func (s *candidateSuite) input() *services.RegisterCandidateInput {
	return &services.RegisterCandidateInput{Bio: " Final year ", Manifesto: "Longer library hours"}
}

func (s *candidateSuite) TestRegister() {
	election := testutil.CreateElection(s.T(), s.h.db, s.h.clock.Now().Add(time.Hour), 60, domain.StatusUpcoming, "")
	voter := testutil.CreateVoter(s.T(), s.h.db, "Ada Okafor", "science")

	candidate, err := s.h.candidates.Register(s.ctx, voter.ID, election.ID, s.input())
	s.Require().NoError(err)
	s.Equal(voter.ID, candidate.VoterID)
	s.Equal("Final year", candidate.Bio)

	views, err := s.h.candidates.List(s.ctx, election.ID)
	s.Require().NoError(err)
	s.Require().Len(views, 1)
	s.Equal(voter.ID, views[0].CandidateID)
	s.Equal("Ada Okafor", views[0].FullName)
	s.Equal("Longer library hours", views[0].Manifesto)
}

func (s *candidateSuite) TestRegister_Twice() {
	election := testutil.CreateElection(s.T(), s.h.db, s.h.clock.Now().Add(time.Hour), 60, domain.StatusUpcoming, "")
	voter := testutil.CreateVoter(s.T(), s.h.db, "Ada Okafor", "science")

	_, err := s.h.candidates.Register(s.ctx, voter.ID, election.ID, s.input())
	s.Require().NoError(err)

	_, err = s.h.candidates.Register(s.ctx, voter.ID, election.ID, s.input())
	s.ErrorIs(err, domain.ErrAlreadyCandidate)
}

func (s *candidateSuite) TestRegister_OnlyWhileUpcoming() {
	voter := testutil.CreateVoter(s.T(), s.h.db, "Ada Okafor", "science")

	for _, status := range []domain.ElectionStatus{domain.StatusOngoing, domain.StatusEnded} {
		election := testutil.CreateElection(s.T(), s.h.db, s.h.clock.Now().Add(-time.Hour), 30, status, "")
		_, err := s.h.candidates.Register(s.ctx, voter.ID, election.ID, s.input())
		s.ErrorIs(err, domain.ErrRegistrationClosed, "status %s", status)
	}
}

func (s *candidateSuite) TestRegister_FacultyScope() {
	election := testutil.CreateElection(s.T(), s.h.db, s.h.clock.Now().Add(time.Hour), 60, domain.StatusUpcoming, "engineering")
	voter := testutil.CreateVoter(s.T(), s.h.db, "Ada Okafor", "science")

	_, err := s.h.candidates.Register(s.ctx, voter.ID, election.ID, s.input())
	s.ErrorIs(err, domain.ErrNotEligible)
}

func (s *candidateSuite) TestRegister_UnknownElection() {
	voter := testutil.CreateVoter(s.T(), s.h.db, "Ada Okafor", "science")

	_, err := s.h.candidates.Register(s.ctx, voter.ID, 999, s.input())
	s.ErrorIs(err, domain.ErrElectionNotFound)
}

func (s *candidateSuite) TestList_Empty() {
	election := testutil.CreateElection(s.T(), s.h.db, s.h.clock.Now().Add(time.Hour), 60, domain.StatusUpcoming, "")

	views, err := s.h.candidates.List(s.ctx, election.ID)
	s.Require().NoError(err)
	s.NotNil(views)
	s.Empty(views)

	_, err = s.h.candidates.List(s.ctx, 999)
	s.ErrorIs(err, domain.ErrElectionNotFound)
}
