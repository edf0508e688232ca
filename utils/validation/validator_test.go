package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string `validate:"required,email"`
	Role  string `validate:"omitempty,oneof=student instructor"`
	Age   int    `validate:"gte=0,lte=150"`
}

func TestValidateStruct(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateStruct(&sampleRequest{Email: "a@b.co", Role: "student"}))
	assert.Error(t, v.ValidateStruct(&sampleRequest{Email: "not-an-email"}))
	assert.Error(t, v.ValidateStruct(&sampleRequest{Email: "a@b.co", Role: "pirate"}))
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()
	err := v.ValidateStruct(&sampleRequest{Role: "pirate", Age: 200})
	require.Error(t, err)

	out := FormatValidationErrors(err)
	assert.Equal(t, "Email is required", out["email"])
	assert.Contains(t, out["role"], "must be one of")
	assert.Contains(t, out["age"], "less than or equal to")
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.example.co.uk"))
	assert.False(t, ValidateEmail("nope"))
	assert.False(t, ValidateEmail("@example.com"))
	assert.False(t, ValidateEmail("user@"))
}

func TestValidateUsername(t *testing.T) {
	ok, _ := ValidateUsername("ada_lovelace-1")
	assert.True(t, ok)

	ok, msg := ValidateUsername("ab")
	assert.False(t, ok)
	assert.Contains(t, msg, "at least 3")

	ok, msg = ValidateUsername("has space")
	assert.False(t, ok)
	assert.Contains(t, msg, "letters, numbers")
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello \x00 "))
	assert.Equal(t, "", SanitizeString("\x00\x00"))
}
