package handlers

import (
	"campusvote/internal/adapters/http/middleware"
	"campusvote/internal/core/services"
	"campusvote/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	credentials *services.CredentialService
	voters      *services.VoterService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(credentials *services.CredentialService, voters *services.VoterService) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		voters:      voters,
	}
}

// Register handles voter self-registration
// @Summary Register new voter
// @Description Create a student account; academic affiliation is verified separately
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	voter, err := h.voters.Register(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Voter registered successfully", voter)
}

// Login handles voter login
// @Summary Login
// @Description Authenticate and return an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	result, err := h.credentials.Login(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Login successful", result)
}

// Logout revokes the presented access token
// @Summary Logout
// @Description Revoke the current access token until it expires
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals(middleware.LocalToken).(string)
	if err := h.credentials.Revoke(c.UserContext(), token); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Logged out", nil)
}

// Me returns the current voter
// @Summary Current voter
// @Description Get the authenticated voter's profile and enrollment status
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	profile, err := h.voters.Profile(c.UserContext(), middleware.VoterID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile retrieved", profile)
}
