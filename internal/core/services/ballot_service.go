package services

import (
	"context"
	"log"
)

// ============================================================
// Ballot Pipeline - OTP → face → ledger
// ============================================================

// BallotService runs the step-up verification pipeline in front of the ledger.
// Each step is retried on its own by the client; nothing here re-runs an earlier step.
type BallotService struct {
	votes      *VoteService
	challenges *ChallengeService
	biometrics *BiometricService
	stepUp     *StepUpService
}

// NewBallotService creates a new ballot service
func NewBallotService(
	votes *VoteService,
	challenges *ChallengeService,
	biometrics *BiometricService,
	stepUp *StepUpService,
) *BallotService {
	return &BallotService{
		votes:      votes,
		challenges: challenges,
		biometrics: biometrics,
		stepUp:     stepUp,
	}
}

// VerifyCodeInput represents the OTP verification body
type VerifyCodeInput struct {
	Code string `json:"code" validate:"required,numeric,min=4,max=10"`
}

// VerifyFaceInput represents the face verification body (base64 image)
type VerifyFaceInput struct {
	Image string `json:"image" validate:"required"`
}

// RequestCode sends a one-time code, but only for a ballot that could be cast
func (s *BallotService) RequestCode(ctx context.Context, voterID, electionID, candidateID uint) (*IssueResult, error) {
	if err := s.votes.Precheck(ctx, voterID, electionID, candidateID); err != nil {
		return nil, err
	}
	return s.challenges.Issue(ctx, voterID)
}

// ConfirmCode checks the code and opens a step-up grant for this ballot
func (s *BallotService) ConfirmCode(ctx context.Context, voterID, electionID, candidateID uint, code string) error {
	if err := s.votes.Precheck(ctx, voterID, electionID, candidateID); err != nil {
		return err
	}
	if err := s.challenges.Verify(ctx, voterID, code); err != nil {
		return err
	}
	return s.stepUp.MarkOTP(ctx, voterID, electionID, candidateID)
}

// ConfirmFace matches the probe and stamps the grant.
// The result is returned with below-threshold and no-face errors so the client sees the score.
func (s *BallotService) ConfirmFace(ctx context.Context, voterID, electionID, candidateID uint, probe []byte) (*MatchResult, error) {
	if err := s.stepUp.RequireOTP(ctx, voterID, electionID, candidateID); err != nil {
		return nil, err
	}

	result, err := s.biometrics.Match(ctx, voterID, probe)
	if err != nil {
		return nil, err
	}
	if err := result.Err(); err != nil {
		return result, err
	}

	if err := s.stepUp.MarkFace(ctx, voterID, electionID, candidateID, result.Similarity); err != nil {
		return nil, err
	}
	return result, nil
}

// Cast commits the ballot once both verification steps are on file
func (s *BallotService) Cast(ctx context.Context, voterID, electionID, candidateID uint) (*CastResult, error) {
	if err := s.votes.Precheck(ctx, voterID, electionID, candidateID); err != nil {
		return nil, err
	}
	if err := s.stepUp.Require(ctx, voterID, electionID, candidateID); err != nil {
		return nil, err
	}

	result, err := s.votes.CastVote(ctx, voterID, electionID, candidateID)
	if err != nil {
		return nil, err
	}

	s.stepUp.Consume(ctx, voterID, electionID)
	log.Printf("✅ Ballot complete for voter %d in election %d (%s)", voterID, electionID, result.ReferenceNumber)
	return result, nil
}
