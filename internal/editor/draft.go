// Package editor holds the resume draft being edited and the terminal forms
// that change it.
package editor

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/redmonkez12/cvbuilder/internal/resume"
)

var (
	ErrOutOfRange      = errors.New("entry position out of range")
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownSection  = errors.New("unknown section")
	ErrInvalidTemplate = errors.New("invalid template")
	ErrInvalidValue    = errors.New("invalid value")
)

// Section is one of the repeatable parts of a resume
type Section string

const (
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
	SectionLanguages      Section = "languages"
)

func Sections() []Section {
	return []Section{
		SectionExperience, SectionEducation, SectionSkills,
		SectionProjects, SectionCertifications, SectionLanguages,
	}
}

// Field names match the JSON names of the resume document
var sectionFields = map[Section][]string{
	SectionExperience:     {"jobTitle", "company", "location", "startDate", "endDate", "current", "description"},
	SectionEducation:      {"degree", "institution", "location", "startDate", "endDate", "gpa", "description"},
	SectionSkills:         {"name", "level"},
	SectionProjects:       {"title", "description", "technologies", "link", "startDate", "endDate"},
	SectionCertifications: {"name", "issuer", "date", "link"},
	SectionLanguages:      {"name", "proficiency"},
}

var personalFields = []string{"fullName", "email", "phone", "location", "linkedin", "website", "summary"}

// Fields lists the editable fields of a section's entries
func Fields(s Section) []string {
	return append([]string(nil), sectionFields[s]...)
}

func PersonalFields() []string {
	return append([]string(nil), personalFields...)
}

// Draft is an immutable snapshot of a resume being edited. Every change
// returns a new Draft; the receiver and the slices it holds are never
// written to. A failed change returns the receiver unchanged.
type Draft struct {
	content resume.Content
}

// NewDraft starts from c. Blank title, template and nil sections get their
// defaults.
func NewDraft(c resume.Content) Draft {
	c = c.Clone()
	c.Normalize()
	return Draft{content: c}
}

func BlankDraft() Draft {
	return NewDraft(resume.DefaultContent())
}

// Content returns a copy safe to hand to other code
func (d Draft) Content() resume.Content {
	return d.content.Clone()
}

func (d Draft) Title() string {
	return d.content.Title
}

func (d Draft) Template() resume.Template {
	return d.content.Template
}

func (d Draft) PersonalInfo() resume.PersonalInfo {
	return d.content.PersonalInfo
}

// Len is the number of entries in a section
func (d Draft) Len(s Section) int {
	switch s {
	case SectionExperience:
		return len(d.content.Experience)
	case SectionEducation:
		return len(d.content.Education)
	case SectionSkills:
		return len(d.content.Skills)
	case SectionProjects:
		return len(d.content.Projects)
	case SectionCertifications:
		return len(d.content.Certifications)
	case SectionLanguages:
		return len(d.content.Languages)
	}
	return 0
}

func (d Draft) SetTitle(title string) Draft {
	next := d.content
	next.Title = title
	return Draft{content: next}
}

// SetTemplate changes the template and nothing else
func (d Draft) SetTemplate(name string) (Draft, error) {
	tpl, ok := resume.ParseTemplate(name)
	if !ok {
		return d, fmt.Errorf("%w: %q", ErrInvalidTemplate, name)
	}
	next := d.content
	next.Template = tpl
	return Draft{content: next}, nil
}

func (d Draft) SetPersonalField(field, value string) (Draft, error) {
	p := d.content.PersonalInfo
	switch field {
	case "fullName":
		p.FullName = value
	case "email":
		p.Email = value
	case "phone":
		p.Phone = value
	case "location":
		p.Location = value
	case "linkedin":
		p.LinkedIn = value
	case "website":
		p.Website = value
	case "summary":
		p.Summary = value
	default:
		return d, fmt.Errorf("%w: personalInfo.%s", ErrUnknownField, field)
	}

	next := d.content
	next.PersonalInfo = p
	return Draft{content: next}, nil
}

// Add appends a blank entry to the section. New skills start at
// intermediate and new languages at professional.
func (d Draft) Add(s Section) (Draft, error) {
	next := d.content
	switch s {
	case SectionExperience:
		next.Experience = appended(next.Experience, resume.Experience{})
	case SectionEducation:
		next.Education = appended(next.Education, resume.Education{})
	case SectionSkills:
		next.Skills = appended(next.Skills, resume.Skill{Level: resume.DefaultSkillLevel})
	case SectionProjects:
		next.Projects = appended(next.Projects, resume.Project{})
	case SectionCertifications:
		next.Certifications = appended(next.Certifications, resume.Certification{})
	case SectionLanguages:
		next.Languages = appended(next.Languages, resume.Language{Proficiency: resume.DefaultProficiency})
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return Draft{content: next}, nil
}

// Remove drops the entry at position i, keeping the order of the rest
func (d Draft) Remove(s Section, i int) (Draft, error) {
	next := d.content
	var err error
	switch s {
	case SectionExperience:
		next.Experience, err = removed(next.Experience, i)
	case SectionEducation:
		next.Education, err = removed(next.Education, i)
	case SectionSkills:
		next.Skills, err = removed(next.Skills, i)
	case SectionProjects:
		next.Projects, err = removed(next.Projects, i)
	case SectionCertifications:
		next.Certifications, err = removed(next.Certifications, i)
	case SectionLanguages:
		next.Languages, err = removed(next.Languages, i)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	if err != nil {
		return d, err
	}
	return Draft{content: next}, nil
}

// SetField updates one field of the entry at position i. "current" takes
// anything strconv.ParseBool accepts; level and proficiency must be one of
// their allowed values.
func (d Draft) SetField(s Section, i int, field, value string) (Draft, error) {
	next := d.content
	var err error
	switch s {
	case SectionExperience:
		next.Experience, err = updated(next.Experience, i, func(e *resume.Experience) error {
			return setExperienceField(e, field, value)
		})
	case SectionEducation:
		next.Education, err = updated(next.Education, i, func(e *resume.Education) error {
			return setEducationField(e, field, value)
		})
	case SectionSkills:
		next.Skills, err = updated(next.Skills, i, func(sk *resume.Skill) error {
			return setSkillField(sk, field, value)
		})
	case SectionProjects:
		next.Projects, err = updated(next.Projects, i, func(p *resume.Project) error {
			return setProjectField(p, field, value)
		})
	case SectionCertifications:
		next.Certifications, err = updated(next.Certifications, i, func(c *resume.Certification) error {
			return setCertificationField(c, field, value)
		})
	case SectionLanguages:
		next.Languages, err = updated(next.Languages, i, func(l *resume.Language) error {
			return setLanguageField(l, field, value)
		})
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	if err != nil {
		return d, err
	}
	return Draft{content: next}, nil
}

// SetExperienceCurrent marks a position as ongoing. The end date is kept so
// unticking brings it back.
func (d Draft) SetExperienceCurrent(i int, current bool) (Draft, error) {
	return d.SetField(SectionExperience, i, "current", strconv.FormatBool(current))
}

func setExperienceField(e *resume.Experience, field, value string) error {
	switch field {
	case "jobTitle":
		e.JobTitle = value
	case "company":
		e.Company = value
	case "location":
		e.Location = value
	case "startDate":
		e.StartDate = value
	case "endDate":
		e.EndDate = value
	case "current":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: current must be true or false", ErrInvalidValue)
		}
		e.Current = b
	case "description":
		e.Description = value
	default:
		return unknownField(SectionExperience, field)
	}
	return nil
}

func setEducationField(e *resume.Education, field, value string) error {
	switch field {
	case "degree":
		e.Degree = value
	case "institution":
		e.Institution = value
	case "location":
		e.Location = value
	case "startDate":
		e.StartDate = value
	case "endDate":
		e.EndDate = value
	case "gpa":
		e.GPA = value
	case "description":
		e.Description = value
	default:
		return unknownField(SectionEducation, field)
	}
	return nil
}

func setSkillField(s *resume.Skill, field, value string) error {
	switch field {
	case "name":
		s.Name = value
	case "level":
		level := resume.SkillLevel(value)
		if !slices.Contains(resume.SkillLevels(), level) {
			return fmt.Errorf("%w: skill level %q", ErrInvalidValue, value)
		}
		s.Level = level
	default:
		return unknownField(SectionSkills, field)
	}
	return nil
}

func setProjectField(p *resume.Project, field, value string) error {
	switch field {
	case "title":
		p.Title = value
	case "description":
		p.Description = value
	case "technologies":
		p.Technologies = value
	case "link":
		p.Link = value
	case "startDate":
		p.StartDate = value
	case "endDate":
		p.EndDate = value
	default:
		return unknownField(SectionProjects, field)
	}
	return nil
}

func setCertificationField(c *resume.Certification, field, value string) error {
	switch field {
	case "name":
		c.Name = value
	case "issuer":
		c.Issuer = value
	case "date":
		c.Date = value
	case "link":
		c.Link = value
	default:
		return unknownField(SectionCertifications, field)
	}
	return nil
}

func setLanguageField(l *resume.Language, field, value string) error {
	switch field {
	case "name":
		l.Name = value
	case "proficiency":
		p := resume.LanguageProficiency(value)
		if !slices.Contains(resume.Proficiencies(), p) {
			return fmt.Errorf("%w: proficiency %q", ErrInvalidValue, value)
		}
		l.Proficiency = p
	default:
		return unknownField(SectionLanguages, field)
	}
	return nil
}

func unknownField(s Section, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnknownField, s, field)
}

// appended never writes into s's backing array
func appended[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

func removed[T any](s []T, i int) ([]T, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, len(s))
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...), nil
}

func updated[T any](s []T, i int, apply func(*T) error) ([]T, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, len(s))
	}
	out := make([]T, len(s))
	copy(out, s)
	if err := apply(&out[i]); err != nil {
		return nil, err
	}
	return out, nil
}
