package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"campusvote/internal/adapters/http/middleware"
	"campusvote/internal/core/domain"
	"campusvote/internal/core/services"
	"campusvote/internal/pkg/pagination"
	"campusvote/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// heartbeatInterval keeps idle event streams open through proxies
const heartbeatInterval = 30 * time.Second

// ElectionHandler handles election, candidate and results endpoints
type ElectionHandler struct {
	lifecycle  *services.LifecycleService
	candidates *services.CandidateService
	votes      *services.VoteService
	hub        *services.EventHub
}

// NewElectionHandler creates a new election handler
func NewElectionHandler(
	lifecycle *services.LifecycleService,
	candidates *services.CandidateService,
	votes *services.VoteService,
	hub *services.EventHub,
) *ElectionHandler {
	return &ElectionHandler{
		lifecycle:  lifecycle,
		candidates: candidates,
		votes:      votes,
		hub:        hub,
	}
}

// TransitionRequest represents an explicit status change
type TransitionRequest struct {
	Status string `json:"status" validate:"required,election_status"`
}

// Create creates an election (admin)
// @Summary Create election
// @Description Schedule a new upcoming election
// @Tags Elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateElectionInput true "Election"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /elections [post]
func (h *ElectionHandler) Create(c *fiber.Ctx) error {
	var req services.CreateElectionInput
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	election, err := h.lifecycle.Create(c.UserContext(), middleware.VoterID(c), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Election created", election)
}

// Get returns an election after bringing its status up to date
// @Summary Get election
// @Tags Elections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /elections/{id} [get]
func (h *ElectionHandler) Get(c *fiber.Ctx) error {
	electionID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	election, err := h.lifecycle.Sync(c.UserContext(), electionID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Election retrieved", election)
}

// Transition applies an explicit status change
// @Summary Change election status
// @Description Only the next status is accepted, and only once its time has come
// @Tags Elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param body body TransitionRequest true "Proposed status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /elections/{id}/status [post]
func (h *ElectionHandler) Transition(c *fiber.Ctx) error {
	electionID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req TransitionRequest
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	election, err := h.lifecycle.Transition(c.UserContext(), electionID, domain.ElectionStatus(req.Status))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Election status updated", election)
}

// Results returns the zero-filled tally
// @Summary Election results
// @Tags Elections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /elections/{id}/results [get]
func (h *ElectionHandler) Results(c *fiber.Ctx) error {
	electionID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	results, err := h.votes.GetResults(c.UserContext(), electionID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Results retrieved", results)
}

// ListVotes pages through the vote audit trail (admin)
// @Summary List votes
// @Tags Elections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /elections/{id}/votes [get]
func (h *ElectionHandler) ListVotes(c *fiber.Ctx) error {
	electionID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	page, err := h.votes.ListVotes(c.UserContext(), electionID, pagination.FromQuery(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Votes retrieved", page)
}

// ListCandidates lists an election's candidates
// @Summary List candidates
// @Tags Candidates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /elections/{id}/candidates [get]
func (h *ElectionHandler) ListCandidates(c *fiber.Ctx) error {
	electionID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	candidates, err := h.candidates.List(c.UserContext(), electionID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Candidates retrieved", candidates)
}

// RegisterCandidate makes the caller a candidate
// @Summary Stand as candidate
// @Description Only while the election is upcoming
// @Tags Candidates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param body body services.RegisterCandidateInput true "Candidate profile"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /elections/{id}/candidates [post]
func (h *ElectionHandler) RegisterCandidate(c *fiber.Ctx) error {
	electionID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.RegisterCandidateInput
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	candidate, err := h.candidates.Register(c.UserContext(), middleware.VoterID(c), electionID, &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Candidate registered", candidate)
}

// Events streams status changes of one election (SSE)
// @Summary Election event stream
// @Tags Elections
// @Produce text/event-stream
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Router /elections/{id}/events [get]
func (h *ElectionHandler) Events(c *fiber.Ctx) error {
	electionID, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	election, err := h.lifecycle.Get(c.UserContext(), electionID)
	if err != nil {
		return response.FromError(c, err)
	}

	voterID := middleware.VoterID(c)
	clientID := fmt.Sprintf("election-%d-voter-%d-%d", electionID, voterID, time.Now().UnixNano())
	status := election.CurrentStatus()

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		client := h.hub.Subscribe(clientID, voterID, electionID)
		defer h.hub.Unsubscribe(clientID)

		// Send initial connection event
		fmt.Fprintf(w, "event: connected\ndata: {\"client_id\":%q,\"election_id\":%d,\"status\":%q}\n\n",
			clientID, electionID, status)
		if err := w.Flush(); err != nil {
			return
		}

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case event, ok := <-client.Channel:
				if !ok {
					return
				}
				if err := writeEvent(w, event); err != nil {
					log.Printf("📡 Stream client disconnected: %s", clientID)
					return
				}

			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					log.Printf("📡 Stream client disconnected: %s", clientID)
					return
				}
			}
		}
	})

	return nil
}

// writeEvent writes one SSE frame and flushes it
func writeEvent(w *bufio.Writer, event domain.ElectionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	return w.Flush()
}
