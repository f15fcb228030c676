package repositories_test

import (
	"context"
	"testing"
	"time"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/adapters/persistence/repositories"
	"campusvote/internal/core/domain"
	"campusvote/internal/testutil"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type repositorySuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context
	now time.Time
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(repositorySuite))
}

func (s *repositorySuite) SetupTest() {
	s.db = testutil.SetupTestDB(s.T())
	s.ctx = context.Background()
	s.now = testutil.Epoch
}

func (s *repositorySuite) TestCompareAndSetStatus() {
	repo := repositories.NewElectionRepository(s.db)
	election := testutil.CreateElection(s.T(), s.db, s.now, 60, domain.StatusUpcoming, "")

	ok, err := repo.CompareAndSetStatus(s.ctx, election.ID, domain.StatusUpcoming, domain.StatusOngoing)
	s.Require().NoError(err)
	s.True(ok)

	// a second writer holding the stale state loses
	ok, err = repo.CompareAndSetStatus(s.ctx, election.ID, domain.StatusUpcoming, domain.StatusOngoing)
	s.Require().NoError(err)
	s.False(ok)

	stored, err := repo.GetByID(s.ctx, election.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusOngoing, stored.CurrentStatus())
}

func (s *repositorySuite) TestListDue() {
	repo := repositories.NewElectionRepository(s.db)
	started := testutil.CreateElection(s.T(), s.db, s.now.Add(-time.Minute), 60, domain.StatusUpcoming, "")
	testutil.CreateElection(s.T(), s.db, s.now.Add(time.Minute), 60, domain.StatusUpcoming, "")
	testutil.CreateElection(s.T(), s.db, s.now.Add(-3*time.Hour), 60, domain.StatusEnded, "")

	due, err := repo.ListDue(s.ctx, s.now)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Equal(started.ID, due[0].ID)
}

func (s *repositorySuite) TestGetByID_NotFound() {
	_, err := repositories.NewElectionRepository(s.db).GetByID(s.ctx, 42)
	s.True(repositories.IsNotFound(err))
}

func (s *repositorySuite) TestCreateIfUpcoming() {
	repo := repositories.NewCandidateRepository(s.db)
	voter := testutil.CreateVoter(s.T(), s.db, "Ada Okafor", "science")
	open := testutil.CreateElection(s.T(), s.db, s.now.Add(time.Hour), 60, domain.StatusUpcoming, "")
	running := testutil.CreateElection(s.T(), s.db, s.now, 60, domain.StatusOngoing, "")

	ok, err := repo.CreateIfUpcoming(s.ctx, &models.Candidate{VoterID: voter.ID, ElectionID: open.ID, CreatedAt: s.now})
	s.Require().NoError(err)
	s.True(ok)

	ok, err = repo.CreateIfUpcoming(s.ctx, &models.Candidate{VoterID: voter.ID, ElectionID: running.ID, CreatedAt: s.now})
	s.Require().NoError(err)
	s.False(ok)

	_, err = repo.CreateIfUpcoming(s.ctx, &models.Candidate{VoterID: voter.ID, ElectionID: open.ID, CreatedAt: s.now})
	s.True(repositories.IsDuplicate(err))

	exists, err := repo.Exists(s.ctx, open.ID, voter.ID)
	s.Require().NoError(err)
	s.True(exists)
	exists, err = repo.Exists(s.ctx, running.ID, voter.ID)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *repositorySuite) TestCreateIfOngoing() {
	repo := repositories.NewVoteRepository(s.db)
	running := testutil.CreateElection(s.T(), s.db, s.now, 60, domain.StatusOngoing, "")
	closed := testutil.CreateElection(s.T(), s.db, s.now.Add(-2*time.Hour), 60, domain.StatusEnded, "")

	vote := func(electionID uint, ref string) *models.Vote {
		return &models.Vote{VoterID: 7, ElectionID: electionID, CandidateID: 3, ReferenceNumber: ref, CastAt: s.now}
	}

	ok, err := repo.CreateIfOngoing(s.ctx, vote(running.ID, "AAAA-AAAA-AAAA"))
	s.Require().NoError(err)
	s.True(ok)

	ok, err = repo.CreateIfOngoing(s.ctx, vote(closed.ID, "BBBB-BBBB-BBBB"))
	s.Require().NoError(err)
	s.False(ok)

	_, err = repo.CreateIfOngoing(s.ctx, vote(running.ID, "CCCC-CCCC-CCCC"))
	s.True(repositories.IsDuplicate(err))

	stored, err := repo.GetByVoterAndElection(s.ctx, 7, running.ID)
	s.Require().NoError(err)
	s.Equal("AAAA-AAAA-AAAA", stored.ReferenceNumber)
}

func (s *repositorySuite) TestTally() {
	repo := repositories.NewVoteRepository(s.db)
	election := testutil.CreateElection(s.T(), s.db, s.now, 60, domain.StatusOngoing, "")
	first := testutil.CreateVoter(s.T(), s.db, "First", "science")
	second := testutil.CreateVoter(s.T(), s.db, "Second", "arts")
	testutil.AddCandidate(s.T(), s.db, election.ID, first)
	testutil.AddCandidate(s.T(), s.db, election.ID, second)

	for i, ref := range []string{"AAAA-2222-0001", "AAAA-2222-0002"} {
		ok, err := repo.CreateIfOngoing(s.ctx, &models.Vote{
			VoterID: uint(100 + i), ElectionID: election.ID, CandidateID: second.ID, ReferenceNumber: ref, CastAt: s.now,
		})
		s.Require().NoError(err)
		s.Require().True(ok)
	}

	rows, err := repo.Tally(s.ctx, election.ID)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(second.ID, rows[0].CandidateID)
	s.Equal(int64(2), rows[0].VoteCount)
	s.Equal("First", rows[1].FullName)
	s.Zero(rows[1].VoteCount)
}

func (s *repositorySuite) TestIncrementAttempts() {
	repo := repositories.NewChallengeRepository(s.db)
	challenge := &models.OTPChallenge{
		ChallengeID: "c-1",
		VoterID:     1,
		CodeHash:    "x",
		ExpiresAt:   s.now.Add(5 * time.Minute),
		CreatedAt:   s.now,
	}
	s.Require().NoError(repo.Replace(s.ctx, challenge))

	for i := 0; i < 3; i++ {
		ok, err := repo.IncrementAttempts(s.ctx, challenge.ID, 3)
		s.Require().NoError(err)
		s.True(ok)
	}
	ok, err := repo.IncrementAttempts(s.ctx, challenge.ID, 3)
	s.Require().NoError(err)
	s.False(ok)

	deleted, err := repo.Delete(s.ctx, challenge.ID)
	s.Require().NoError(err)
	s.True(deleted)
	deleted, err = repo.Delete(s.ctx, challenge.ID)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *repositorySuite) TestReplaceSupersedesLiveChallenge() {
	repo := repositories.NewChallengeRepository(s.db)
	for _, id := range []string{"c-1", "c-2"} {
		s.Require().NoError(repo.Replace(s.ctx, &models.OTPChallenge{
			ChallengeID: id, VoterID: 1, CodeHash: "x", ExpiresAt: s.now.Add(time.Minute), CreatedAt: s.now,
		}))
	}

	live, err := repo.GetByVoterID(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("c-2", live.ChallengeID)
}

func (s *repositorySuite) TestClaimMatric() {
	repo := repositories.NewVoterRepository(s.db)
	voter := testutil.CreateVoter(s.T(), s.db, "Ada Okafor", "")
	record := &models.StudentRecord{MatricNumber: "SCI/2021/001", FacultyID: "science"}

	ok, err := repo.ClaimMatric(s.ctx, voter.ID, record)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = repo.ClaimMatric(s.ctx, voter.ID, &models.StudentRecord{MatricNumber: "ENG/2022/014", FacultyID: "engineering"})
	s.Require().NoError(err)
	s.False(ok)

	owner, err := repo.GetByMatric(s.ctx, "SCI/2021/001")
	s.Require().NoError(err)
	s.Equal(voter.ID, owner.ID)
}

func (s *repositorySuite) TestTokensForFaculty() {
	repo := repositories.NewSubscriptionRepository(s.db)
	scientist := testutil.CreateVoter(s.T(), s.db, "Ada", "science")
	artist := testutil.CreateVoter(s.T(), s.db, "Bayo", "arts")
	s.Require().NoError(repo.Upsert(s.ctx, &models.PushSubscription{VoterID: scientist.ID, Token: "t-sci"}))
	s.Require().NoError(repo.Upsert(s.ctx, &models.PushSubscription{VoterID: artist.ID, Token: "t-art"}))

	tokens, err := repo.TokensForFaculty(s.ctx, "science")
	s.Require().NoError(err)
	s.Equal([]string{"t-sci"}, tokens)

	tokens, err = repo.TokensForFaculty(s.ctx, domain.FacultyGeneral)
	s.Require().NoError(err)
	s.Equal([]string{"t-sci", "t-art"}, tokens)
}

func (s *repositorySuite) TestGrantStamps() {
	repo := repositories.NewGrantRepository(s.db)
	s.Require().NoError(repo.StampOTP(s.ctx, 1, 2, 3, s.now))

	// wrong candidate
	ok, err := repo.StampFace(s.ctx, 1, 2, 4, 90, s.now, s.now.Add(-time.Minute))
	s.Require().NoError(err)
	s.False(ok)

	// OTP step older than the window
	ok, err = repo.StampFace(s.ctx, 1, 2, 3, 90, s.now, s.now.Add(time.Second))
	s.Require().NoError(err)
	s.False(ok)

	ok, err = repo.StampFace(s.ctx, 1, 2, 3, 90, s.now, s.now.Add(-time.Minute))
	s.Require().NoError(err)
	s.True(ok)

	// a new OTP clears the face stamp
	s.Require().NoError(repo.StampOTP(s.ctx, 1, 2, 3, s.now.Add(time.Minute)))
	grant, err := repo.Get(s.ctx, 1, 2)
	s.Require().NoError(err)
	s.Nil(grant.FaceVerifiedAt)
	s.Zero(grant.Similarity)

	n, err := repo.DeleteStale(s.ctx, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *repositorySuite) TestRevocation() {
	repo := repositories.NewRevocationRepository(s.db)
	token := &models.RevokedToken{TokenHash: "abc", VoterID: 1, ExpiresAt: s.now.Add(time.Hour), RevokedAt: s.now}
	s.Require().NoError(repo.Revoke(s.ctx, token))
	s.Require().NoError(repo.Revoke(s.ctx, &models.RevokedToken{TokenHash: "abc", VoterID: 1, ExpiresAt: s.now.Add(time.Hour), RevokedAt: s.now}))

	revoked, err := repo.IsRevoked(s.ctx, "abc")
	s.Require().NoError(err)
	s.True(revoked)

	n, err := repo.DeleteExpired(s.ctx, s.now.Add(2*time.Hour))
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}
