package services_test

import (
	"context"
	"testing"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/core/domain"
	"campusvote/internal/core/services"
	"campusvote/internal/testutil"

	"github.com/stretchr/testify/suite"
)

type voterSuite struct {
	suite.Suite
	h   *harness
	ctx context.Context
}

func TestVoterSuite(t *testing.T) {
	suite.Run(t, new(voterSuite))
}

func (s *voterSuite) SetupTest() {
	s.h = newHarness(s.T())
	s.ctx = context.Background()
	testutil.AddStudentRecord(s.T(), s.h.db, "SCI/2021/001", "Ada Okafor", "science")
}

func (s *voterSuite) TestRegister() {
	voter, err := s.h.voters.Register(s.ctx, &services.RegisterInput{
		Email:    " Ada@Campus.Test ",
		Password: "a-long-password",
		FullName: "Ada Okafor",
	})
	s.Require().NoError(err)
	s.Equal("ada@campus.test", voter.Email)
	s.Equal(string(domain.RoleStudent), voter.Role)
	s.Nil(voter.FacultyID)

	_, err = s.h.voters.Register(s.ctx, &services.RegisterInput{
		Email:    "ADA@campus.test",
		Password: "another-password",
		FullName: "Impostor",
	})
	s.ErrorIs(err, domain.ErrEmailTaken)
}

func (s *voterSuite) TestClaimMatric() {
	voter := testutil.CreateVoter(s.T(), s.h.db, "Ada Okafor", "")

	claimed, err := s.h.voters.ClaimMatric(s.ctx, voter.ID, &services.ClaimMatricInput{MatricNumber: " sci/2021/001 "})
	s.Require().NoError(err)
	s.Require().NotNil(claimed.FacultyID)
	s.Equal("science", *claimed.FacultyID)
	s.Equal("SCI/2021/001", *claimed.MatricNumber)

	var stored models.Voter
	s.Require().NoError(s.h.db.First(&stored, voter.ID).Error)
	s.Equal("science", stored.Faculty())
}

func (s *voterSuite) TestClaimMatric_OnlyOnce() {
	voter := testutil.CreateVoter(s.T(), s.h.db, "Ada Okafor", "")
	testutil.AddStudentRecord(s.T(), s.h.db, "ENG/2022/014", "Chidi Nwosu", "engineering")

	_, err := s.h.voters.ClaimMatric(s.ctx, voter.ID, &services.ClaimMatricInput{MatricNumber: "SCI/2021/001"})
	s.Require().NoError(err)

	_, err = s.h.voters.ClaimMatric(s.ctx, voter.ID, &services.ClaimMatricInput{MatricNumber: "ENG/2022/014"})
	s.ErrorIs(err, domain.ErrAffiliationAlreadySet)
}

func (s *voterSuite) TestClaimMatric_OneOwnerPerNumber() {
	first := testutil.CreateVoter(s.T(), s.h.db, "Ada Okafor", "")
	second := testutil.CreateVoter(s.T(), s.h.db, "Someone Else", "")

	_, err := s.h.voters.ClaimMatric(s.ctx, first.ID, &services.ClaimMatricInput{MatricNumber: "SCI/2021/001"})
	s.Require().NoError(err)

	_, err = s.h.voters.ClaimMatric(s.ctx, second.ID, &services.ClaimMatricInput{MatricNumber: "SCI/2021/001"})
	s.ErrorIs(err, domain.ErrMatricAlreadyClaimed)
}

func (s *voterSuite) TestClaimMatric_UnknownNumber() {
	voter := testutil.CreateVoter(s.T(), s.h.db, "Ada Okafor", "")

	_, err := s.h.voters.ClaimMatric(s.ctx, voter.ID, &services.ClaimMatricInput{MatricNumber: "XYZ/1999/999"})
	s.ErrorIs(err, domain.ErrMatricNotFound)
}

func (s *voterSuite) TestProfile() {
	voter := testutil.CreateVoter(s.T(), s.h.db, "Ada Okafor", "science")

	profile, err := s.h.voters.Profile(s.ctx, voter.ID)
	s.Require().NoError(err)
	s.Equal(voter.ID, profile.ID)
	s.False(profile.Enrolled)

	s.Require().NoError(s.h.biometrics.Enroll(s.ctx, voter.ID, testutil.PNG(s.T())))
	profile, err = s.h.voters.Profile(s.ctx, voter.ID)
	s.Require().NoError(err)
	s.True(profile.Enrolled)

	_, err = s.h.voters.Profile(s.ctx, 999)
	s.ErrorIs(err, domain.ErrVoterNotFound)
}

func (s *voterSuite) TestRegisterDevice_TokenMovesWithDevice() {
	first := testutil.CreateVoter(s.T(), s.h.db, "Ada Okafor", "science")
	second := testutil.CreateVoter(s.T(), s.h.db, "Chidi Nwosu", "engineering")
	input := &services.RegisterDeviceInput{PushToken: "ExponentPushToken[abc]", Platform: "ios"}

	s.Require().NoError(s.h.voters.RegisterDevice(s.ctx, first.ID, input))
	s.Require().NoError(s.h.voters.RegisterDevice(s.ctx, second.ID, input))

	var subs []models.PushSubscription
	s.Require().NoError(s.h.db.Find(&subs).Error)
	s.Require().Len(subs, 1)
	s.Equal(second.ID, subs[0].VoterID)
}
