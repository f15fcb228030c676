package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/adapters/persistence/repositories"
	"campusvote/internal/core/domain"
	"campusvote/internal/pkg/metrics"
	"campusvote/internal/pkg/pagination"

	"github.com/google/uuid"
)

// ============================================================
// Vote Ledger - one committed vote per voter per election
// ============================================================

// referenceAlphabet drops 0/O and 1/I so references survive being read aloud
const referenceAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// maxReferenceAttempts bounds retries after a reference number collision
const maxReferenceAttempts = 3

// VoteService is the authoritative vote ledger
type VoteService struct {
	electionRepo  repositories.ElectionRepository
	candidateRepo repositories.CandidateRepository
	voteRepo      repositories.VoteRepository
	receiptRepo   repositories.ReceiptRepository
	voterRepo     repositories.VoterRepository
	now           Clock
}

// NewVoteService creates a new vote service
func NewVoteService(
	electionRepo repositories.ElectionRepository,
	candidateRepo repositories.CandidateRepository,
	voteRepo repositories.VoteRepository,
	receiptRepo repositories.ReceiptRepository,
	voterRepo repositories.VoterRepository,
) *VoteService {
	return &VoteService{
		electionRepo:  electionRepo,
		candidateRepo: candidateRepo,
		voteRepo:      voteRepo,
		receiptRepo:   receiptRepo,
		voterRepo:     voterRepo,
		now:           SystemClock,
	}
}

// SetClock replaces the time source
func (s *VoteService) SetClock(now Clock) {
	s.now = now
}

// CastResult is returned for a committed vote
type CastResult struct {
	ReferenceNumber string    `json:"reference_number"`
	CastAt          time.Time `json:"cast_at"`
}

// VoteStatus reports whether a voter has voted in an election
type VoteStatus struct {
	HasVoted  bool       `json:"has_voted"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Results is the zero-filled tally of an election
type Results struct {
	ElectionID uint                     `json:"election_id"`
	Status     domain.ElectionStatus    `json:"status"`
	TotalVotes int64                    `json:"total_votes"`
	Candidates []*repositories.TallyRow `json:"candidates"`
}

// ReceiptPayload is the document stored alongside a reference number
type ReceiptPayload struct {
	ReferenceNumber string    `json:"reference_number"`
	ElectionID      uint      `json:"election_id"`
	ElectionTitle   string    `json:"election_title"`
	CandidateID     uint      `json:"candidate_id"`
	CastAt          time.Time `json:"cast_at"`
}

// Precheck evaluates every ballot precondition without writing anything.
// Self-vote is rejected first since it does not depend on any stored state.
func (s *VoteService) Precheck(ctx context.Context, voterID, electionID, candidateID uint) error {
	_, err := s.precheck(ctx, voterID, electionID, candidateID)
	return err
}

func (s *VoteService) precheck(ctx context.Context, voterID, electionID, candidateID uint) (*models.Election, error) {
	if voterID == candidateID {
		return nil, domain.ErrSelfVote
	}

	election, err := s.electionRepo.GetByID(ctx, electionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, domain.Transient(err)
	}
	if election.CurrentStatus() != domain.StatusOngoing {
		return nil, domain.WithMessage(domain.ErrElectionNotOngoing, "election is %s", election.Status)
	}

	isCandidate, err := s.candidateRepo.Exists(ctx, electionID, candidateID)
	if err != nil {
		return nil, domain.Transient(err)
	}
	if !isCandidate {
		return nil, domain.ErrUnknownCandidate
	}

	voter, err := s.voterRepo.GetByID(ctx, voterID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, domain.Transient(err)
	}
	if !election.OpenTo(voter.Faculty()) {
		return nil, domain.ErrNotEligible
	}

	if _, err := s.voteRepo.GetByVoterAndElection(ctx, voterID, electionID); err == nil {
		return nil, domain.ErrAlreadyVoted
	} else if !repositories.IsNotFound(err) {
		return nil, domain.Transient(err)
	}

	return election, nil
}

// CastVote commits the ballot. The (voter, election) unique index is the final
// arbiter: of N concurrent casts exactly one wins and the rest get AlreadyVoted.
func (s *VoteService) CastVote(ctx context.Context, voterID, electionID, candidateID uint) (*CastResult, error) {
	election, err := s.precheck(ctx, voterID, electionID, candidateID)
	if err != nil {
		metrics.VotesCast.WithLabelValues(outcomeOf(err)).Inc()
		return nil, err
	}

	vote, err := s.commit(ctx, voterID, electionID, candidateID)
	if err != nil {
		metrics.VotesCast.WithLabelValues(outcomeOf(err)).Inc()
		return nil, err
	}
	metrics.VotesCast.WithLabelValues(outcomeOf(nil)).Inc()

	log.Printf("🗳️ Vote %s committed: voter=%d election=%d", vote.ReferenceNumber, voterID, electionID)

	s.storeReceipt(ctx, election, vote)
	return &CastResult{ReferenceNumber: vote.ReferenceNumber, CastAt: vote.CastAt}, nil
}

func (s *VoteService) commit(ctx context.Context, voterID, electionID, candidateID uint) (*models.Vote, error) {
	var lastErr error
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		vote := &models.Vote{
			VoterID:         voterID,
			ElectionID:      electionID,
			CandidateID:     candidateID,
			ReferenceNumber: NewReferenceNumber(),
			CastAt:          s.now(),
		}

		inserted, err := s.voteRepo.CreateIfOngoing(ctx, vote)
		if err == nil {
			if !inserted {
				return nil, domain.WithMessage(domain.ErrElectionNotOngoing, "election closed before the vote was recorded")
			}
			return vote, nil
		}
		if !repositories.IsDuplicate(err) {
			return nil, domain.Transient(err)
		}

		// Either this voter already has a row or the reference collided
		if _, getErr := s.voteRepo.GetByVoterAndElection(ctx, voterID, electionID); getErr == nil {
			return nil, domain.ErrAlreadyVoted
		} else if !repositories.IsNotFound(getErr) {
			return nil, domain.Transient(getErr)
		}
		lastErr = err
		log.Printf("⚠️ Reference number collision (attempt %d): %v", attempt+1, err)
	}
	return nil, domain.Transient(lastErr)
}

// storeReceipt persists the receipt document; failure never undoes the vote
func (s *VoteService) storeReceipt(ctx context.Context, election *models.Election, vote *models.Vote) {
	payload, err := json.Marshal(&ReceiptPayload{
		ReferenceNumber: vote.ReferenceNumber,
		ElectionID:      election.ID,
		ElectionTitle:   election.Title,
		CandidateID:     vote.CandidateID,
		CastAt:          vote.CastAt,
	})
	if err != nil {
		log.Printf("❌ Failed to encode receipt %s: %v", vote.ReferenceNumber, err)
		return
	}

	err = s.receiptRepo.Create(ctx, &models.Receipt{
		ReferenceNumber: vote.ReferenceNumber,
		VoterID:         vote.VoterID,
		Payload:         payload,
	})
	if err != nil {
		log.Printf("⚠️ Failed to store receipt %s: %v", vote.ReferenceNumber, err)
	}
}

// VoteStatus reports whether voterID has a committed vote in electionID
func (s *VoteService) VoteStatus(ctx context.Context, voterID, electionID uint) (*VoteStatus, error) {
	if _, err := s.electionRepo.GetByID(ctx, electionID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, domain.Transient(err)
	}

	vote, err := s.voteRepo.GetByVoterAndElection(ctx, voterID, electionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return &VoteStatus{HasVoted: false}, nil
		}
		return nil, domain.Transient(err)
	}
	castAt := vote.CastAt
	return &VoteStatus{HasVoted: true, Timestamp: &castAt}, nil
}

// GetResults tallies committed votes, listing candidates with zero votes too
func (s *VoteService) GetResults(ctx context.Context, electionID uint) (*Results, error) {
	election, err := s.electionRepo.GetByID(ctx, electionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, domain.Transient(err)
	}

	rows, err := s.voteRepo.Tally(ctx, electionID)
	if err != nil {
		return nil, domain.Transient(err)
	}
	if rows == nil {
		rows = []*repositories.TallyRow{}
	}

	var total int64
	for _, row := range rows {
		total += row.VoteCount
	}

	return &Results{
		ElectionID: election.ID,
		Status:     election.CurrentStatus(),
		TotalVotes: total,
		Candidates: rows,
	}, nil
}

// ListVotes pages through the append-only audit trail of an election
func (s *VoteService) ListVotes(ctx context.Context, electionID uint, params *pagination.Params) (*pagination.Page, error) {
	if _, err := s.electionRepo.GetByID(ctx, electionID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, domain.Transient(err)
	}

	votes, total, err := s.voteRepo.ListByElection(ctx, electionID, params.Offset, params.Limit)
	if err != nil {
		return nil, domain.Transient(err)
	}
	return pagination.NewPage(votes, params, total), nil
}

// GetReceipt returns a receipt owned by voterID.
// Someone else's reference reads as not found.
func (s *VoteService) GetReceipt(ctx context.Context, voterID uint, reference string) (*models.Receipt, error) {
	receipt, err := s.receiptRepo.GetByReference(ctx, reference)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, domain.Transient(err)
	}
	if receipt.VoterID != voterID {
		return nil, domain.ErrReceiptNotFound
	}
	return receipt, nil
}

// NewReferenceNumber returns a random reference formatted XXXX-XXXX-XXXX
func NewReferenceNumber() string {
	id := uuid.New()
	// skip the version and variant bytes
	picks := [12]int{0, 1, 2, 3, 4, 5, 7, 9, 10, 11, 12, 13}

	out := make([]byte, 0, 14)
	for i, idx := range picks {
		if i > 0 && i%4 == 0 {
			out = append(out, '-')
		}
		out = append(out, referenceAlphabet[int(id[idx])%len(referenceAlphabet)])
	}
	return string(out)
}

