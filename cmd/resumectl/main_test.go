package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/redmonkez12/cvbuilder/internal/resume"
)

func TestPickTemplate(t *testing.T) {
	r := &resume.Resume{Content: resume.Content{Template: resume.TemplateClassic}}

	assert.Equal(t, resume.TemplateClassic, pickTemplate(r, ""))
	assert.Equal(t, resume.TemplateMinimal, pickTemplate(r, "minimal"))
	assert.Equal(t, resume.TemplateClassic, pickTemplate(r, "fancy"))
}
