package handlers

import (
	"campusvote/internal/adapters/http/middleware"
	"campusvote/internal/core/services"
	"campusvote/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// VoterHandler handles the caller's own account endpoints
type VoterHandler struct {
	voters     *services.VoterService
	biometrics *services.BiometricService
	votes      *services.VoteService
}

// NewVoterHandler creates a new voter handler
func NewVoterHandler(
	voters *services.VoterService,
	biometrics *services.BiometricService,
	votes *services.VoteService,
) *VoterHandler {
	return &VoterHandler{
		voters:     voters,
		biometrics: biometrics,
		votes:      votes,
	}
}

// EnrollRequest represents biometric enrollment body (base64 image)
type EnrollRequest struct {
	Image string `json:"image" validate:"required"`
}

// ClaimMatric verifies the caller's academic affiliation
// @Summary Verify matriculation number
// @Description Sets the voter's faculty once from the student registry
// @Tags Voters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ClaimMatricInput true "Matriculation number"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /voters/me/academic [post]
func (h *VoterHandler) ClaimMatric(c *fiber.Ctx) error {
	var req services.ClaimMatricInput
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	voter, err := h.voters.ClaimMatric(c.UserContext(), middleware.VoterID(c), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Academic affiliation verified", voter)
}

// EnrollBiometric stores the caller's face reference
// @Summary Enroll face reference
// @Description One immutable reference per voter
// @Tags Voters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EnrollRequest true "Base64 image"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /voters/me/biometric [post]
func (h *VoterHandler) EnrollBiometric(c *fiber.Ctx) error {
	var req EnrollRequest
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}
	img, err := decodeImage(req.Image)
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.biometrics.Enroll(c.UserContext(), middleware.VoterID(c), img); err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Biometric reference enrolled", fiber.Map{"enrolled": true})
}

// RegisterDevice stores a push token for the caller
// @Summary Register push device
// @Tags Voters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RegisterDeviceInput true "Push token"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /voters/me/devices [post]
func (h *VoterHandler) RegisterDevice(c *fiber.Ctx) error {
	var req services.RegisterDeviceInput
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	if err := h.voters.RegisterDevice(c.UserContext(), middleware.VoterID(c), &req); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Device registered", nil)
}

// GetReceipt returns one of the caller's vote receipts
// @Summary Get receipt
// @Tags Voting
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Reference number"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /receipts/{reference} [get]
func (h *VoterHandler) GetReceipt(c *fiber.Ctx) error {
	receipt, err := h.votes.GetReceipt(c.UserContext(), middleware.VoterID(c), c.Params("reference"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Receipt retrieved", receipt)
}
