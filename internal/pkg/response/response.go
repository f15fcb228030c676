package response

import (
	"errors"
	"log"

	"campusvote/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Code      string      `json:"code,omitempty"`
	Retryable bool        `json:"retryable,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// Coded sends an error response carrying the domain code and data
func Coded(c *fiber.Ctx, statusCode int, e *domain.Error, data interface{}) error {
	return c.Status(statusCode).JSON(Response{
		Success:   false,
		Error:     e.Message,
		Code:      e.Code,
		Retryable: e.Retryable(),
		Data:      data,
	})
}

// statusByCode overrides the per-kind default status
var statusByCode = map[string]int{
	domain.ErrChallengeNotFound.Code:     fiber.StatusUnauthorized,
	domain.ErrAlreadyVoted.Code:          fiber.StatusConflict,
	domain.ErrAlreadyCandidate.Code:      fiber.StatusConflict,
	domain.ErrAlreadyEnrolled.Code:       fiber.StatusConflict,
	domain.ErrMatricAlreadyClaimed.Code:  fiber.StatusConflict,
	domain.ErrAffiliationAlreadySet.Code: fiber.StatusConflict,
	domain.ErrEmailTaken.Code:            fiber.StatusConflict,
	domain.ErrChallengeBusy.Code:         fiber.StatusConflict,
	domain.ErrNotEligible.Code:           fiber.StatusForbidden,
	domain.ErrStepUpRequired.Code:        fiber.StatusForbidden,
	domain.ErrBelowThreshold.Code:        fiber.StatusUnprocessableEntity,
	domain.ErrNoFaceMatch.Code:           fiber.StatusUnprocessableEntity,
	domain.ErrUpstreamTimeout.Code:       fiber.StatusGatewayTimeout,
	domain.ErrUpstream.Code:              fiber.StatusBadGateway,
	domain.ErrDeliveryFailed.Code:        fiber.StatusBadGateway,
	domain.ErrTooManyAttempts.Code:       fiber.StatusTooManyRequests,
	domain.ErrRateLimited.Code:           fiber.StatusTooManyRequests,
	domain.ErrForbidden.Code:             fiber.StatusForbidden,
}

var statusByKind = map[domain.Kind]int{
	domain.KindInput:     fiber.StatusBadRequest,
	domain.KindNotFound:  fiber.StatusNotFound,
	domain.KindState:     fiber.StatusBadRequest,
	domain.KindTransient: fiber.StatusServiceUnavailable,
	domain.KindSecurity:  fiber.StatusUnauthorized,
}

// StatusOf returns the HTTP status for a domain error
func StatusOf(e *domain.Error) int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// FromError sends the response matching err's domain code
func FromError(c *fiber.Ctx, err error) error {
	return FromErrorWithData(c, err, nil)
}

// FromErrorWithData is FromError with a payload, e.g. the score of a rejected face match
func FromErrorWithData(c *fiber.Ctx, err error, data interface{}) error {
	var de *domain.Error
	if !errors.As(err, &de) {
		log.Printf("❌ Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		return InternalServerError(c, "Internal server error")
	}
	if de.Err != nil {
		log.Printf("⚠️ %s on %s %s: %v", de.Code, c.Method(), c.Path(), de.Err)
	}
	return Coded(c, StatusOf(de), de, data)
}
