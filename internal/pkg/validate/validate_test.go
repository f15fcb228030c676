package validate

import (
	"testing"

	"campusvote/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email  string `json:"email" validate:"required,email"`
	Status string `json:"status" validate:"omitempty,election_status"`
	Hidden string `json:"-" validate:"omitempty,min=3"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(&sample{Email: "ada@campus.test", Status: "ongoing"}))
}

func TestStruct_ReportsJSONNames(t *testing.T) {
	err := Struct(&sample{Email: "nope", Status: "paused"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "email: email")
	assert.Contains(t, err.Error(), "status: election_status")
}

func TestStruct_Param(t *testing.T) {
	err := Struct(&sample{Email: "ada@campus.test", Hidden: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "min=3")
}
