package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactInput struct {
	FirstName string `json:"first_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,phone10"`
	Address   string `json:"address" binding:"required,max=10"`
}

func TestPhone10(t *testing.T) {
	v := New()

	tests := []struct {
		phone string
		ok    bool
	}{
		{"0123456789", true},
		{"012345678", false},
		{"01234567890", false},
		{"01234a6789", false},
		{"+123456789", false},
	}

	for _, tt := range tests {
		err := v.Var(tt.phone, "phone10")
		assert.Equal(t, tt.ok, err == nil, "phone=%q", tt.phone)
	}
}

func TestMessages(t *testing.T) {
	v := New()

	err := v.Struct(contactInput{Email: "nope", Phone: "123", Address: "far too long an address"})
	require.Error(t, err)

	msgs := Messages(err)
	assert.ElementsMatch(t, []string{
		"first_name is required",
		"email must be a valid email address",
		"phone must be exactly 10 digits",
		"address must be at most 10 characters",
	}, msgs)
}

func TestMessages_NonValidatorError(t *testing.T) {
	assert.Nil(t, Messages(nil))
	assert.Equal(t, []string{"unexpected EOF"}, Messages(errors.New("unexpected EOF")))
}

func TestRegisterGinRules(t *testing.T) {
	assert.NoError(t, RegisterGinRules())
}
