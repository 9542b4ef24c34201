// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type passwordFixture struct {
	Password string `validate:"strong_password"`
}

func TestStrongPasswordValidation(t *testing.T) {
	cases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"all character classes", "Abcdef1!", true},
		{"too short", "Ab1!", false},
		{"missing uppercase", "abcdef1!", false},
		{"missing lowercase", "ABCDEF1!", false},
		{"missing number", "Abcdefg!", false},
		{"missing special", "Abcdefg1", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStruct(passwordFixture{Password: tc.password})
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

type slugFixture struct {
	Slug string `validate:"slug"`
}

func TestSlugValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(slugFixture{Slug: "oak-dining-table"}))
	assert.NoError(t, ValidateStruct(slugFixture{Slug: "lamp2"}))
	assert.NoError(t, ValidateStruct(slugFixture{Slug: ""}))
	assert.Error(t, ValidateStruct(slugFixture{Slug: "Oak-Table"}))
	assert.Error(t, ValidateStruct(slugFixture{Slug: "-leading"}))
	assert.Error(t, ValidateStruct(slugFixture{Slug: "double--hyphen"}))
	assert.Error(t, ValidateStruct(slugFixture{Slug: "with space"}))
}

type movementFixture struct {
	Movement string `validate:"movement"`
}

func TestMovementValidation(t *testing.T) {
	for _, m := range []string{"in", "out", "adjustment", "sale", "return"} {
		assert.NoError(t, ValidateStruct(movementFixture{Movement: m}), m)
	}
	assert.Error(t, ValidateStruct(movementFixture{Movement: "teleport"}))
	assert.Error(t, ValidateStruct(movementFixture{Movement: ""}))
}

type registerFixture struct {
	Email    string `validate:"required,email"`
	FullName string `validate:"required,min=2,max=255"`
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(registerFixture{Email: "not-an-email", FullName: ""})
	assert.Error(t, err)

	errors := GetValidationErrors(err)
	assert.Len(t, errors, 2)

	byField := map[string]ValidationError{}
	for _, e := range errors {
		byField[e.Field] = e
	}

	assert.Equal(t, "email", byField["email"].Tag)
	assert.Equal(t, "Invalid email format", byField["email"].Message)
	assert.Equal(t, "required", byField["fullname"].Tag)
}

func TestGetValidationErrorsWithPlainError(t *testing.T) {
	assert.Empty(t, GetValidationErrors(assert.AnError))
}
