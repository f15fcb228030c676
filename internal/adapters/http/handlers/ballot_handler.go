package handlers

import (
	"campusvote/internal/adapters/http/middleware"
	"campusvote/internal/core/services"
	"campusvote/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BallotHandler handles the voting pipeline endpoints
type BallotHandler struct {
	ballots *services.BallotService
	votes   *services.VoteService
}

// NewBallotHandler creates a new ballot handler
func NewBallotHandler(ballots *services.BallotService, votes *services.VoteService) *BallotHandler {
	return &BallotHandler{
		ballots: ballots,
		votes:   votes,
	}
}

// VoteStatus reports whether the caller already voted
// @Summary Vote status
// @Tags Voting
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /elections/{id}/vote-status [get]
func (h *BallotHandler) VoteStatus(c *fiber.Ctx) error {
	electionID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	status, err := h.votes.VoteStatus(c.UserContext(), middleware.VoterID(c), electionID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Vote status retrieved", status)
}

// RequestCode issues a one-time code for this ballot
// @Summary Request OTP
// @Description Sends a one-time code; delivered=false means the code did not go out
// @Tags Voting
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param candidateId path int true "Candidate ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /elections/{id}/candidates/{candidateId}/otp [post]
func (h *BallotHandler) RequestCode(c *fiber.Ctx) error {
	electionID, candidateID, err := ballotParams(c)
	if err != nil {
		return response.FromError(c, err)
	}

	result, err := h.ballots.RequestCode(c.UserContext(), middleware.VoterID(c), electionID, candidateID)
	if err != nil {
		return response.FromError(c, err)
	}

	message := "Verification code sent"
	if !result.Delivered {
		message = "Verification code could not be delivered, request a new one"
	}
	return response.Success(c, message, result)
}

// VerifyCode checks the one-time code
// @Summary Verify OTP
// @Tags Voting
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param candidateId path int true "Candidate ID"
// @Param body body services.VerifyCodeInput true "Code"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /elections/{id}/candidates/{candidateId}/verify-otp [post]
func (h *BallotHandler) VerifyCode(c *fiber.Ctx) error {
	electionID, candidateID, err := ballotParams(c)
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.VerifyCodeInput
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	if err := h.ballots.ConfirmCode(c.UserContext(), middleware.VoterID(c), electionID, candidateID, req.Code); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Code verified", fiber.Map{"verified": true})
}

// VerifyFace compares a probe image with the enrolled reference
// @Summary Verify face
// @Description A rejected match still returns the similarity score
// @Tags Voting
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param candidateId path int true "Candidate ID"
// @Param body body services.VerifyFaceInput true "Base64 image"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /elections/{id}/candidates/{candidateId}/verify-face [post]
func (h *BallotHandler) VerifyFace(c *fiber.Ctx) error {
	electionID, candidateID, err := ballotParams(c)
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.VerifyFaceInput
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}
	probe, err := decodeImage(req.Image)
	if err != nil {
		return response.FromError(c, err)
	}

	result, err := h.ballots.ConfirmFace(c.UserContext(), middleware.VoterID(c), electionID, candidateID, probe)
	if err != nil {
		if result != nil {
			return response.FromErrorWithData(c, err, result)
		}
		return response.FromError(c, err)
	}
	return response.Success(c, "Face verified", result)
}

// Cast commits the vote
// @Summary Cast vote
// @Tags Voting
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param candidateId path int true "Candidate ID"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /elections/{id}/candidates/{candidateId}/vote [post]
func (h *BallotHandler) Cast(c *fiber.Ctx) error {
	electionID, candidateID, err := ballotParams(c)
	if err != nil {
		return response.FromError(c, err)
	}

	result, err := h.ballots.Cast(c.UserContext(), middleware.VoterID(c), electionID, candidateID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Vote recorded", result)
}
