package resume

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeContentAcceptsServerFields(t *testing.T) {
	raw := `{
		"_id": "abc", "id": "abc", "userId": "u", "createdAt": "2024-01-01", "updatedAt": "2024-01-02", "__v": 0,
		"title": "Ada CV",
		"personalInfo": {"fullName": "Ada Lovelace", "email": "ada@x.com"},
		"skills": [{"_id": "s1", "name": "Go", "level": "expert"}],
		"template": "classic"
	}`

	c, err := DecodeContent([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Ada CV", c.Title)
	assert.Equal(t, "Ada Lovelace", c.PersonalInfo.FullName)
	assert.Equal(t, []Skill{{Name: "Go", Level: SkillExpert}}, c.Skills)
	assert.Equal(t, TemplateClassic, c.Template)
}

func TestDecodeContentRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"unknown top-level key", `{"title":"x","hobbies":[]}`, "(root)"},
		{"wrong type", `{"title": 42}`, "title"},
		{"bad template", `{"template":"fancy"}`, "template"},
		{"bad skill level", `{"skills":[{"name":"Go","level":"guru"}]}`, "skills.0.level"},
		{"bad proficiency", `{"languages":[{"name":"French","proficiency":"fluent"}]}`, "languages.0.proficiency"},
		{"array expected", `{"experience": {"jobTitle":"x"}}`, "experience"},
		{"not an object", `[1,2,3]`, "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeContent([]byte(tt.raw))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)

			fields := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestDecodeContentInvalidJSON(t *testing.T) {
	_, err := DecodeContent([]byte(`{"title":`))
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestDecodeContentNullsAreBlank(t *testing.T) {
	c, err := DecodeContent([]byte(`{"title": null, "skills": null, "template": null}`))
	require.NoError(t, err)

	require.NoError(t, Prepare(&c))
	assert.Equal(t, DefaultTitle, c.Title)
	assert.Equal(t, DefaultTemplate, c.Template)
	assert.NotNil(t, c.Skills)
	assert.Empty(t, c.Skills)
}

func TestPrepareAppliesDefaults(t *testing.T) {
	c := Content{
		Title:     "   ",
		Skills:    []Skill{{Name: "Go"}},
		Languages: []Language{{Name: "French"}},
	}
	require.NoError(t, Prepare(&c))

	assert.Equal(t, DefaultTitle, c.Title)
	assert.Equal(t, TemplateModern, c.Template)
	assert.Equal(t, SkillIntermediate, c.Skills[0].Level)
	assert.Equal(t, ProficiencyProfessional, c.Languages[0].Proficiency)
	assert.NotNil(t, c.Experience)
	assert.NotNil(t, c.Education)
	assert.NotNil(t, c.Projects)
	assert.NotNil(t, c.Certifications)
}

func TestPrepareKeepsTextAsSent(t *testing.T) {
	c := Content{
		Title: "<b>Ada</b> CV",
		PersonalInfo: PersonalInfo{
			FullName: "Ada Lovelace",
			Summary:  "Rust: Vec<String> and Option<T> everywhere. R&D lead, a < b",
		},
		Experience: []Experience{{Description: "literal &lt;b&gt; in docs"}},
		Skills:     []Skill{{Name: "C++ <templates>", Level: SkillAdvanced}},
	}
	want := c.Clone()
	want.Normalize()

	require.NoError(t, Prepare(&c))
	assert.Equal(t, want, c)
}

func TestPrepareRejectsInvalidFields(t *testing.T) {
	c := Content{
		Title:    strings.Repeat("x", 201),
		Template: "fancy",
		Skills:   []Skill{{Name: "Go", Level: "guru"}},
	}

	err := Prepare(&c)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "must be at most 200 characters", fields["title"])
	assert.Contains(t, fields["template"], "must be one of")
	assert.Contains(t, fields, "skills[0].level")
	assert.Contains(t, verr.Error(), "validation failed")
}
