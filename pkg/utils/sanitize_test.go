package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", SanitizeEmail("  User@Example.COM  "))
	assert.Equal(t, "user@example.com", SanitizeEmail("<b>user@example.com</b>"))
}

func TestSanitizePhone(t *testing.T) {
	assert.Equal(t, "+1 (555) 123-4567", SanitizePhone(" +1 (555) 123-4567 "))
	assert.Equal(t, "+15551234567", SanitizePhone("+15551234567<script>"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;", SanitizeString(" <b>hi</b> "))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@x.com"))
	assert.False(t, IsValidEmail("not-an-email"))
}
