package resume

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Template selects one of the three visual layouts
type Template string

const (
	TemplateModern  Template = "modern"
	TemplateClassic Template = "classic"
	TemplateMinimal Template = "minimal"
)

// Templates lists every template in display order
func Templates() []Template {
	return []Template{TemplateModern, TemplateClassic, TemplateMinimal}
}

// ParseTemplate reports whether s names a known template
func ParseTemplate(s string) (Template, bool) {
	switch t := Template(s); t {
	case TemplateModern, TemplateClassic, TemplateMinimal:
		return t, true
	default:
		return "", false
	}
}

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
)

func SkillLevels() []SkillLevel {
	return []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert}
}

type LanguageProficiency string

const (
	ProficiencyBasic          LanguageProficiency = "basic"
	ProficiencyConversational LanguageProficiency = "conversational"
	ProficiencyProfessional   LanguageProficiency = "professional"
	ProficiencyNative         LanguageProficiency = "native"
)

func Proficiencies() []LanguageProficiency {
	return []LanguageProficiency{ProficiencyBasic, ProficiencyConversational, ProficiencyProfessional, ProficiencyNative}
}

const (
	DefaultTitle       = "My Resume"
	DefaultTemplate    = TemplateModern
	DefaultSkillLevel  = SkillIntermediate
	DefaultProficiency = ProficiencyProfessional
)

type PersonalInfo struct {
	FullName string `json:"fullName" bson:"fullName" validate:"max=200"`
	Email    string `json:"email" bson:"email" validate:"max=254"`
	Phone    string `json:"phone" bson:"phone" validate:"max=50"`
	Location string `json:"location" bson:"location" validate:"max=200"`
	LinkedIn string `json:"linkedin" bson:"linkedin" validate:"max=2048"`
	Website  string `json:"website" bson:"website" validate:"max=2048"`
	Summary  string `json:"summary" bson:"summary" validate:"max=5000"`
}

type Experience struct {
	JobTitle    string `json:"jobTitle" bson:"jobTitle" validate:"max=200"`
	Company     string `json:"company" bson:"company" validate:"max=200"`
	Location    string `json:"location" bson:"location" validate:"max=200"`
	StartDate   string `json:"startDate" bson:"startDate" validate:"max=32"`
	EndDate     string `json:"endDate" bson:"endDate" validate:"max=32"`
	Current     bool   `json:"current" bson:"current"`
	Description string `json:"description" bson:"description" validate:"max=5000"`
}

type Education struct {
	Degree      string `json:"degree" bson:"degree" validate:"max=200"`
	Institution string `json:"institution" bson:"institution" validate:"max=200"`
	Location    string `json:"location" bson:"location" validate:"max=200"`
	StartDate   string `json:"startDate" bson:"startDate" validate:"max=32"`
	EndDate     string `json:"endDate" bson:"endDate" validate:"max=32"`
	GPA         string `json:"gpa" bson:"gpa" validate:"max=20"`
	Description string `json:"description" bson:"description" validate:"max=5000"`
}

type Skill struct {
	Name  string     `json:"name" bson:"name" validate:"max=200"`
	Level SkillLevel `json:"level" bson:"level" validate:"oneof=beginner intermediate advanced expert"`
}

type Project struct {
	Title        string `json:"title" bson:"title" validate:"max=200"`
	Description  string `json:"description" bson:"description" validate:"max=5000"`
	Technologies string `json:"technologies" bson:"technologies" validate:"max=1000"`
	Link         string `json:"link" bson:"link" validate:"max=2048"`
	StartDate    string `json:"startDate" bson:"startDate" validate:"max=32"`
	EndDate      string `json:"endDate" bson:"endDate" validate:"max=32"`
}

type Certification struct {
	Name   string `json:"name" bson:"name" validate:"max=200"`
	Issuer string `json:"issuer" bson:"issuer" validate:"max=200"`
	Date   string `json:"date" bson:"date" validate:"max=32"`
	Link   string `json:"link" bson:"link" validate:"max=2048"`
}

type Language struct {
	Name        string              `json:"name" bson:"name" validate:"max=100"`
	Proficiency LanguageProficiency `json:"proficiency" bson:"proficiency" validate:"oneof=basic conversational professional native"`
}

// Content is everything the owner edits. Sub-collections have no identity of
// their own and are always replaced as whole arrays.
type Content struct {
	Title          string          `json:"title" bson:"title" validate:"required,max=200"`
	PersonalInfo   PersonalInfo    `json:"personalInfo" bson:"personalInfo"`
	Experience     []Experience    `json:"experience" bson:"experience" validate:"max=100,dive"`
	Education      []Education     `json:"education" bson:"education" validate:"max=100,dive"`
	Skills         []Skill         `json:"skills" bson:"skills" validate:"max=200,dive"`
	Projects       []Project       `json:"projects" bson:"projects" validate:"max=100,dive"`
	Certifications []Certification `json:"certifications" bson:"certifications" validate:"max=100,dive"`
	Languages      []Language      `json:"languages" bson:"languages" validate:"max=100,dive"`
	Template       Template        `json:"template" bson:"template" validate:"oneof=modern classic minimal"`
}

// Resume is a stored document
type Resume struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"userId"`
	Content
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultContent is what a brand new resume starts from
func DefaultContent() Content {
	c := Content{}
	c.Normalize()
	return c
}

// Normalize applies defaults: title and template when blank, empty arrays
// instead of nil, and default enum values for blank levels.
func (c *Content) Normalize() {
	if trimmed := strings.TrimSpace(c.Title); trimmed == "" {
		c.Title = DefaultTitle
	} else {
		c.Title = trimmed
	}
	if c.Template == "" {
		c.Template = DefaultTemplate
	}

	c.Experience = orEmpty(c.Experience)
	c.Education = orEmpty(c.Education)
	c.Skills = orEmpty(c.Skills)
	c.Projects = orEmpty(c.Projects)
	c.Certifications = orEmpty(c.Certifications)
	c.Languages = orEmpty(c.Languages)

	for i := range c.Skills {
		if c.Skills[i].Level == "" {
			c.Skills[i].Level = DefaultSkillLevel
		}
	}
	for i := range c.Languages {
		if c.Languages[i].Proficiency == "" {
			c.Languages[i].Proficiency = DefaultProficiency
		}
	}
}

// Clone returns a copy that shares no slices with c
func (c Content) Clone() Content {
	c.Experience = cloneSlice(c.Experience)
	c.Education = cloneSlice(c.Education)
	c.Skills = cloneSlice(c.Skills)
	c.Projects = cloneSlice(c.Projects)
	c.Certifications = cloneSlice(c.Certifications)
	c.Languages = cloneSlice(c.Languages)
	return c
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
