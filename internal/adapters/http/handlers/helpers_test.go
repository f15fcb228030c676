package handlers

import (
	"encoding/base64"
	"net/http/httptest"
	"testing"

	"campusvote/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImage(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	encoded := base64.StdEncoding.EncodeToString(raw)

	img, err := decodeImage(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, img)

	img, err = decodeImage("data:image/png;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, img)

	img, err = decodeImage("  " + encoded + "\n")
	require.NoError(t, err)
	assert.Equal(t, raw, img)

	_, err = decodeImage("%%% not base64 %%%")
	assert.ErrorIs(t, err, domain.ErrBadImage)
}

func TestBallotParams(t *testing.T) {
	app := fiber.New()
	app.Get("/e/:id/c/:candidateId", func(c *fiber.Ctx) error {
		electionID, candidateID, err := ballotParams(c)
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.JSON(fiber.Map{"election": electionID, "candidate": candidateID})
	})

	tests := []struct {
		path string
		want int
	}{
		{"/e/3/c/7", fiber.StatusOK},
		{"/e/0/c/7", fiber.StatusBadRequest},
		{"/e/abc/c/7", fiber.StatusBadRequest},
		{"/e/3/c/-1", fiber.StatusBadRequest},
		{"/e/99999999999/c/1", fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
