package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	assert.NoError(t, validEmail("ada@example.com"))
	assert.NoError(t, validEmail("  ada@example.com "))
	assert.Error(t, validEmail(""))
	assert.Error(t, validEmail("not-an-email"))
	assert.Error(t, validEmail("Ada <ada@example.com>"))
}

func TestRequired(t *testing.T) {
	check := required("name")
	assert.NoError(t, check("Ada"))
	assert.EqualError(t, check("   "), "name is required")
}
