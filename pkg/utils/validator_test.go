package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@company.co.ke",
		"a+tag@sub.domain.org",
	}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), "email %q", email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@missing-local.com",
		"user@",
		"user@domain",
		"user @example.com",
	}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), "email %q", email)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Secure123"))
	assert.NoError(t, ValidatePassword("Abcdefg1"))

	assert.Error(t, ValidatePassword("Short1"), "too short")
	assert.Error(t, ValidatePassword("alllowercase1"), "no upper-case letter")
	assert.Error(t, ValidatePassword("NoDigitsHere"), "no digit")
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(0.01))
	assert.NoError(t, ValidateAmount(1500))
	assert.Error(t, ValidateAmount(0))
	assert.Error(t, ValidateAmount(-10))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello world", SanitizeString("hello\x00 world\x1f"))
	assert.Equal(t, "clean", SanitizeString("clean"))
}
