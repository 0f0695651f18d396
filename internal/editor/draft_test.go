package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/cvbuilder/internal/resume"
)

func TestBlankDraft(t *testing.T) {
	d := BlankDraft()

	assert.Equal(t, resume.DefaultTitle, d.Title())
	assert.Equal(t, resume.TemplateModern, d.Template())
	for _, s := range Sections() {
		assert.Zero(t, d.Len(s), s)
	}

	c := d.Content()
	assert.NotNil(t, c.Experience)
	assert.NotNil(t, c.Languages)
}

func TestAddUsesDefaults(t *testing.T) {
	d, err := BlankDraft().Add(SectionSkills)
	require.NoError(t, err)
	d, err = d.Add(SectionLanguages)
	require.NoError(t, err)

	c := d.Content()
	assert.Equal(t, resume.SkillIntermediate, c.Skills[0].Level)
	assert.Equal(t, resume.ProficiencyProfessional, c.Languages[0].Proficiency)
}

func TestDraftIsNeverMutated(t *testing.T) {
	base, err := BlankDraft().Add(SectionExperience)
	require.NoError(t, err)
	base, err = base.SetField(SectionExperience, 0, "jobTitle", "Engineer")
	require.NoError(t, err)
	before := base.Content()

	// every kind of change, each from the same base
	_, err = base.Add(SectionExperience)
	require.NoError(t, err)
	_, err = base.Remove(SectionExperience, 0)
	require.NoError(t, err)
	_, err = base.SetField(SectionExperience, 0, "company", "Acme")
	require.NoError(t, err)
	_, err = base.SetExperienceCurrent(0, true)
	require.NoError(t, err)
	_, err = base.SetPersonalField("fullName", "Ada")
	require.NoError(t, err)
	_, err = base.SetTemplate("classic")
	require.NoError(t, err)
	_ = base.SetTitle("Other")

	assert.Equal(t, before, base.Content())
}

func TestContentReturnsCopy(t *testing.T) {
	d, err := BlankDraft().Add(SectionSkills)
	require.NoError(t, err)

	c := d.Content()
	c.Skills[0].Name = "changed outside"
	assert.Empty(t, d.Content().Skills[0].Name)
}

func TestAppendDoesNotShareBackingArray(t *testing.T) {
	c := resume.DefaultContent()
	c.Skills = make([]resume.Skill, 1, 4)
	d := NewDraft(c)

	a, err := d.Add(SectionSkills)
	require.NoError(t, err)
	b, err := d.Add(SectionSkills)
	require.NoError(t, err)

	a, err = a.SetField(SectionSkills, 1, "name", "Go")
	require.NoError(t, err)
	assert.Equal(t, "Go", a.Content().Skills[1].Name)
	assert.Empty(t, b.Content().Skills[1].Name)
}

func TestRemoveKeepsOrder(t *testing.T) {
	d := BlankDraft()
	for _, name := range []string{"Go", "Rust", "Zig"} {
		var err error
		d, err = d.Add(SectionSkills)
		require.NoError(t, err)
		d, err = d.SetField(SectionSkills, d.Len(SectionSkills)-1, "name", name)
		require.NoError(t, err)
	}

	d, err := d.Remove(SectionSkills, 1)
	require.NoError(t, err)

	skills := d.Content().Skills
	require.Len(t, skills, 2)
	assert.Equal(t, "Go", skills[0].Name)
	assert.Equal(t, "Zig", skills[1].Name)
}

func TestFailedChangesLeaveDraftUnchanged(t *testing.T) {
	d, err := BlankDraft().Add(SectionSkills)
	require.NoError(t, err)

	cases := []struct {
		name   string
		change func() (Draft, error)
		want   error
	}{
		{"remove out of range", func() (Draft, error) { return d.Remove(SectionSkills, 1) }, ErrOutOfRange},
		{"remove negative", func() (Draft, error) { return d.Remove(SectionSkills, -1) }, ErrOutOfRange},
		{"set out of range", func() (Draft, error) { return d.SetField(SectionEducation, 0, "degree", "BSc") }, ErrOutOfRange},
		{"unknown field", func() (Draft, error) { return d.SetField(SectionSkills, 0, "colour", "red") }, ErrUnknownField},
		{"bad level", func() (Draft, error) { return d.SetField(SectionSkills, 0, "level", "guru") }, ErrInvalidValue},
		{"unknown section", func() (Draft, error) { return d.Add(Section("hobbies")) }, ErrUnknownSection},
		{"unknown personal field", func() (Draft, error) { return d.SetPersonalField("age", "40") }, ErrUnknownField},
		{"unknown template", func() (Draft, error) { return d.SetTemplate("fancy") }, ErrInvalidTemplate},
		{"current on missing entry", func() (Draft, error) { return d.SetField(SectionExperience, 0, "current", "maybe") }, ErrOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.change()
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, d.Content(), got.Content())
		})
	}
}

func TestSetTemplateOnlyChangesTemplate(t *testing.T) {
	d, err := BlankDraft().SetPersonalField("fullName", "Ada")
	require.NoError(t, err)

	next, err := d.SetTemplate("minimal")
	require.NoError(t, err)

	want := d.Content()
	want.Template = resume.TemplateMinimal
	assert.Equal(t, want, next.Content())
}

func TestSetExperienceCurrentKeepsEndDate(t *testing.T) {
	d, err := BlankDraft().Add(SectionExperience)
	require.NoError(t, err)
	d, err = d.SetField(SectionExperience, 0, "endDate", "2023-05")
	require.NoError(t, err)

	d, err = d.SetExperienceCurrent(0, true)
	require.NoError(t, err)
	exp := d.Content().Experience[0]
	assert.True(t, exp.Current)
	assert.Equal(t, "2023-05", exp.EndDate)

	d, err = d.SetExperienceCurrent(0, false)
	require.NoError(t, err)
	assert.False(t, d.Content().Experience[0].Current)
}

func TestEveryListedFieldIsSettable(t *testing.T) {
	for _, s := range Sections() {
		d, err := BlankDraft().Add(s)
		require.NoError(t, err)

		for _, f := range Fields(s) {
			value := "x"
			switch f {
			case "current":
				value = "true"
			case "level":
				value = "expert"
			case "proficiency":
				value = "native"
			}
			_, err := d.SetField(s, 0, f, value)
			assert.NoError(t, err, "%s.%s", s, f)
		}
	}

	for _, f := range PersonalFields() {
		_, err := BlankDraft().SetPersonalField(f, "x")
		assert.NoError(t, err, f)
	}
}
