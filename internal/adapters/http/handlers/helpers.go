package handlers

import (
	"encoding/base64"
	"strconv"
	"strings"

	"campusvote/internal/core/domain"
	"campusvote/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// bind parses the JSON body into out and runs its validate tags
func bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.WithMessage(domain.ErrValidation, "invalid request body")
	}
	return validate.Struct(out)
}

// paramID parses a positive numeric path parameter
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.WithMessage(domain.ErrValidation, "invalid %s", name)
	}
	return uint(id), nil
}

// ballotParams parses :id and :candidateId
func ballotParams(c *fiber.Ctx) (electionID, candidateID uint, err error) {
	if electionID, err = paramID(c, "id"); err != nil {
		return 0, 0, err
	}
	if candidateID, err = paramID(c, "candidateId"); err != nil {
		return 0, 0, err
	}
	return electionID, candidateID, nil
}

// decodeImage accepts raw base64 or a data URL
func decodeImage(encoded string) ([]byte, error) {
	if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+len(";base64,"):]
	}
	img, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, domain.WithMessage(domain.ErrBadImage, "image is not valid base64")
	}
	return img, nil
}
