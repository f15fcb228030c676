package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"campusvote/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  *domain.Error
		want int
	}{
		{domain.ErrValidation, fiber.StatusBadRequest},
		{domain.ErrElectionNotFound, fiber.StatusNotFound},
		{domain.ErrSelfVote, fiber.StatusBadRequest},
		{domain.ErrAlreadyVoted, fiber.StatusConflict},
		{domain.ErrChallengeBusy, fiber.StatusConflict},
		{domain.ErrNotEligible, fiber.StatusForbidden},
		{domain.ErrBelowThreshold, fiber.StatusUnprocessableEntity},
		{domain.ErrPersistence, fiber.StatusServiceUnavailable},
		{domain.ErrUpstreamTimeout, fiber.StatusGatewayTimeout},
		{domain.ErrTokenRevoked, fiber.StatusUnauthorized},
		{domain.ErrTooManyAttempts, fiber.StatusTooManyRequests},
		{&domain.Error{Code: "MYSTERY"}, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func serve(t *testing.T, err error, data interface{}) (int, Response) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return FromErrorWithData(c, err, data)
	})

	resp, reqErr := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, reqErr)
	defer resp.Body.Close()

	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestFromError_DomainError(t *testing.T) {
	status, body := serve(t, domain.Wrap(domain.ErrPersistence, errors.New("disk full")), nil)

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.False(t, body.Success)
	assert.Equal(t, "PERSISTENCE_ERROR", body.Code)
	assert.True(t, body.Retryable)
	// the cause never reaches the client
	assert.NotContains(t, body.Error, "disk full")
}

func TestFromError_CarriesData(t *testing.T) {
	status, body := serve(t, domain.ErrBelowThreshold, fiber.Map{"similarity": 61.5})

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "BELOW_THRESHOLD", body.Code)
	assert.False(t, body.Retryable)
	assert.Equal(t, map[string]interface{}{"similarity": 61.5}, body.Data)
}

func TestFromError_PlainError(t *testing.T) {
	status, body := serve(t, errors.New("boom"), nil)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Empty(t, body.Code)
	assert.Equal(t, "Internal server error", body.Error)
}
