package services_test

import (
	"context"
	"testing"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/core/domain"
	"campusvote/internal/testutil"

	"github.com/stretchr/testify/suite"
)

type ballotSuite struct {
	suite.Suite
	h           *harness
	ctx         context.Context
	electionID  uint
	candidateID uint
	voter       *models.Voter
}

func TestBallotSuite(t *testing.T) {
	suite.Run(t, new(ballotSuite))
}

func (s *ballotSuite) SetupTest() {
	s.h = newHarness(s.T())
	s.ctx = context.Background()
	s.electionID, s.candidateID = s.h.ongoingElection(s.T())
	s.voter = testutil.CreateVoter(s.T(), s.h.db, "Bayo Adeyemi", "engineering")
	s.Require().NoError(s.h.biometrics.Enroll(s.ctx, s.voter.ID, testutil.PNG(s.T())))
}

func (s *ballotSuite) passOTP() {
	issued, err := s.h.ballots.RequestCode(s.ctx, s.voter.ID, s.electionID, s.candidateID)
	s.Require().NoError(err)
	s.Require().True(issued.Delivered)

	code := s.h.mail.LastCode(s.voter.Email)
	s.Require().NotEmpty(code)
	s.Require().NoError(s.h.ballots.ConfirmCode(s.ctx, s.voter.ID, s.electionID, s.candidateID, code))
}

func (s *ballotSuite) TestFullPipeline() {
	s.passOTP()

	result, err := s.h.ballots.ConfirmFace(s.ctx, s.voter.ID, s.electionID, s.candidateID, testutil.JPEG(s.T()))
	s.Require().NoError(err)
	s.True(result.IsMatch)
	s.Equal(92.5, result.Similarity)

	cast, err := s.h.ballots.Cast(s.ctx, s.voter.ID, s.electionID, s.candidateID)
	s.Require().NoError(err)
	s.Regexp(referencePattern, cast.ReferenceNumber)

	// the grant is spent with the ballot
	s.ErrorIs(s.h.stepUp.Require(s.ctx, s.voter.ID, s.electionID, s.candidateID), domain.ErrStepUpRequired)

	_, err = s.h.ballots.Cast(s.ctx, s.voter.ID, s.electionID, s.candidateID)
	s.ErrorIs(err, domain.ErrAlreadyVoted)
}

func (s *ballotSuite) TestCast_RequiresStepUp() {
	_, err := s.h.ballots.Cast(s.ctx, s.voter.ID, s.electionID, s.candidateID)
	s.ErrorIs(err, domain.ErrStepUpRequired)

	s.passOTP()
	_, err = s.h.ballots.Cast(s.ctx, s.voter.ID, s.electionID, s.candidateID)
	s.ErrorIs(err, domain.ErrStepUpRequired)

	var count int64
	s.Require().NoError(s.h.db.Model(&models.Vote{}).Count(&count).Error)
	s.Zero(count)
}

func (s *ballotSuite) TestConfirmFace_BeforeOTP() {
	_, err := s.h.ballots.ConfirmFace(s.ctx, s.voter.ID, s.electionID, s.candidateID, testutil.JPEG(s.T()))
	s.ErrorIs(err, domain.ErrStepUpRequired)
	s.Zero(s.h.faces.Calls())
}

func (s *ballotSuite) TestConfirmFace_BelowThreshold() {
	s.passOTP()
	s.h.faces.Respond([]domain.FaceCandidate{{Similarity: 61.3}}, nil)

	result, err := s.h.ballots.ConfirmFace(s.ctx, s.voter.ID, s.electionID, s.candidateID, testutil.JPEG(s.T()))
	s.ErrorIs(err, domain.ErrBelowThreshold)
	s.Require().NotNil(result)
	s.False(result.IsMatch)
	s.Equal(61.3, result.Similarity)

	_, err = s.h.ballots.Cast(s.ctx, s.voter.ID, s.electionID, s.candidateID)
	s.ErrorIs(err, domain.ErrStepUpRequired)

	// the face step can be retried without a new code
	s.h.faces.Respond([]domain.FaceCandidate{{Similarity: 88}}, nil)
	_, err = s.h.ballots.ConfirmFace(s.ctx, s.voter.ID, s.electionID, s.candidateID, testutil.JPEG(s.T()))
	s.Require().NoError(err)
	_, err = s.h.ballots.Cast(s.ctx, s.voter.ID, s.electionID, s.candidateID)
	s.NoError(err)
}

func (s *ballotSuite) TestConfirmFace_NoFace() {
	s.passOTP()
	s.h.faces.Respond(nil, nil)

	result, err := s.h.ballots.ConfirmFace(s.ctx, s.voter.ID, s.electionID, s.candidateID, testutil.JPEG(s.T()))
	s.ErrorIs(err, domain.ErrNoFaceMatch)
	s.Require().NotNil(result)
	s.Zero(result.FacesFound)
}

func (s *ballotSuite) TestRequestCode_RejectsImpossibleBallot() {
	_, err := s.h.ballots.RequestCode(s.ctx, s.candidateID, s.electionID, s.candidateID)
	s.ErrorIs(err, domain.ErrSelfVote)
	s.Zero(s.h.mail.Sent())

	_, err = s.h.ballots.RequestCode(s.ctx, s.voter.ID, 999, s.candidateID)
	s.ErrorIs(err, domain.ErrElectionNotFound)
	s.Zero(s.h.mail.Sent())
}

func (s *ballotSuite) TestConfirmCode_WrongCode() {
	_, err := s.h.ballots.RequestCode(s.ctx, s.voter.ID, s.electionID, s.candidateID)
	s.Require().NoError(err)

	code := s.h.mail.LastCode(s.voter.Email)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	err = s.h.ballots.ConfirmCode(s.ctx, s.voter.ID, s.electionID, s.candidateID, wrong)
	s.ErrorIs(err, domain.ErrChallengeInvalid)
	s.ErrorIs(s.h.stepUp.RequireOTP(s.ctx, s.voter.ID, s.electionID, s.candidateID), domain.ErrStepUpRequired)
}
