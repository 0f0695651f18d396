package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/redmonkez12/cvbuilder/internal/render"
	"github.com/redmonkez12/cvbuilder/internal/resume"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

var sectionTitles = map[Section]string{
	SectionExperience:     "Experience",
	SectionEducation:      "Education",
	SectionSkills:         "Skills",
	SectionProjects:       "Projects",
	SectionCertifications: "Certifications",
	SectionLanguages:      "Languages",
}

var fieldLabels = map[string]string{
	"fullName":     "Full name",
	"email":        "Email",
	"phone":        "Phone",
	"location":     "Location",
	"linkedin":     "LinkedIn",
	"website":      "Website",
	"summary":      "Professional summary",
	"jobTitle":     "Job title",
	"company":      "Company",
	"startDate":    "Start date (YYYY-MM)",
	"endDate":      "End date (YYYY-MM)",
	"current":      "I currently work here",
	"description":  "Description",
	"degree":       "Degree",
	"institution":  "Institution",
	"gpa":          "GPA",
	"name":         "Name",
	"level":        "Level",
	"title":        "Title",
	"technologies": "Technologies",
	"link":         "Link",
	"issuer":       "Issuer",
	"date":         "Date (YYYY-MM)",
	"proficiency":  "Proficiency",
}

const (
	actionPersonal = "personal"
	actionTitle    = "title"
	actionTemplate = "template"
	actionSave     = "save"
	actionQuit     = "quit"

	choiceAdd  = "add"
	choiceBack = "back"
)

// Run edits e interactively until the user quits. Saving goes through
// e.Save; a failed save is reported and the draft stays as it was.
func Run(ctx context.Context, e *Editor, out io.Writer) error {
	for {
		action, err := mainMenu(ctx, e.Draft())
		if err != nil {
			return err
		}

		switch action {
		case actionQuit:
			return nil
		case actionSave:
			saved, err := e.Save(ctx)
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render("Error: "+err.Error()))
				continue
			}
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Saved %q (%s)", saved.Title, saved.ID)))
		case actionPersonal:
			err = interact(e, func(d Draft) (Draft, error) { return editPersonal(ctx, d) })
		case actionTitle:
			err = interact(e, func(d Draft) (Draft, error) { return editTitle(ctx, d) })
		case actionTemplate:
			err = interact(e, func(d Draft) (Draft, error) { return chooseTemplate(ctx, d) })
		default:
			err = editSection(ctx, e, Section(action))
		}

		if errors.Is(err, huh.ErrUserAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("Error: "+err.Error()))
		}
	}
}

// interact runs a form against a snapshot without holding the editor's lock
// while the user types, then applies the result.
func interact(e *Editor, form func(Draft) (Draft, error)) error {
	next, err := form(e.Draft())
	if err != nil {
		return err
	}
	e.Apply(next)
	return nil
}

func mainMenu(ctx context.Context, d Draft) (string, error) {
	opts := []huh.Option[string]{
		huh.NewOption("Title: "+d.Title(), actionTitle),
		huh.NewOption("Personal info", actionPersonal),
	}
	for _, s := range Sections() {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%d)", sectionTitles[s], d.Len(s)), string(s)))
	}
	opts = append(opts,
		huh.NewOption("Template: "+string(d.Template()), actionTemplate),
		huh.NewOption("Save", actionSave),
		huh.NewOption("Quit", actionQuit),
	)

	var action string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Edit resume").
				Options(opts...).
				Value(&action),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return actionQuit, nil
		}
		return "", err
	}
	return action, nil
}

func editTitle(ctx context.Context, d Draft) (Draft, error) {
	title := d.Title()
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Resume title").
				Placeholder(resume.DefaultTitle).
				Value(&title),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.RunWithContext(ctx); err != nil {
		return d, err
	}
	return d.SetTitle(strings.TrimSpace(title)), nil
}

func chooseTemplate(ctx context.Context, d Draft) (Draft, error) {
	choice := string(d.Template())
	opts := make([]huh.Option[string], 0, len(resume.Templates()))
	for _, t := range resume.Templates() {
		opts = append(opts, huh.NewOption(render.Capitalize(string(t)), string(t)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Template").
				Options(opts...).
				Value(&choice),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.RunWithContext(ctx); err != nil {
		return d, err
	}
	return d.SetTemplate(choice)
}

func editPersonal(ctx context.Context, d Draft) (Draft, error) {
	values := personalValues(d.PersonalInfo())

	fields := make([]huh.Field, 0, len(personalFields))
	for _, f := range personalFields {
		fields = append(fields, fieldInput("", f, values[f]))
	}

	form := huh.NewForm(huh.NewGroup(fields...).Title("Personal info")).WithTheme(huh.ThemeCatppuccin())
	if err := form.RunWithContext(ctx); err != nil {
		return d, err
	}
	return applyPersonal(d, deref(values))
}

func editSection(ctx context.Context, e *Editor, s Section) error {
	if _, ok := sectionFields[s]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}

	for {
		d := e.Draft()

		opts := make([]huh.Option[string], 0, d.Len(s)+2)
		for i := 0; i < d.Len(s); i++ {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%d. %s", i+1, entryLabel(d, s, i)), strconv.Itoa(i)))
		}
		opts = append(opts,
			huh.NewOption("+ Add "+strings.ToLower(sectionTitles[s]), choiceAdd),
			huh.NewOption("Back", choiceBack),
		)

		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(sectionTitles[s]).
					Options(opts...).
					Value(&choice),
			),
		).WithTheme(huh.ThemeCatppuccin())
		if err := form.RunWithContext(ctx); err != nil {
			return err
		}

		switch choice {
		case choiceBack:
			return nil
		case choiceAdd:
			if err := e.Update(func(d Draft) (Draft, error) { return d.Add(s) }); err != nil {
				return err
			}
			i := e.Draft().Len(s) - 1
			if err := interact(e, func(d Draft) (Draft, error) { return editEntry(ctx, d, s, i) }); err != nil && !errors.Is(err, huh.ErrUserAborted) {
				return err
			}
		default:
			i, err := strconv.Atoi(choice)
			if err != nil {
				return err
			}
			if err := interact(e, func(d Draft) (Draft, error) { return editEntry(ctx, d, s, i) }); err != nil && !errors.Is(err, huh.ErrUserAborted) {
				return err
			}
		}
	}
}

func editEntry(ctx context.Context, d Draft, s Section, i int) (Draft, error) {
	values, err := entryValues(d, s, i)
	if err != nil {
		return d, err
	}

	var remove bool
	fields := make([]huh.Field, 0, len(sectionFields[s])+1)
	for _, f := range sectionFields[s] {
		fields = append(fields, fieldInput(s, f, values[f]))
	}
	fields = append(fields, huh.NewConfirm().Title("Remove this entry?").Value(&remove))

	title := fmt.Sprintf("%s %d", strings.TrimSuffix(sectionTitles[s], "s"), i+1)
	form := huh.NewForm(huh.NewGroup(fields...).Title(title)).WithTheme(huh.ThemeCatppuccin())
	if err := form.RunWithContext(ctx); err != nil {
		return d, err
	}

	if remove {
		return d.Remove(s, i)
	}
	return applyEntry(d, s, i, deref(values))
}

func fieldInput(s Section, field string, value *string) huh.Field {
	label := fieldLabels[field]
	switch {
	case s == SectionSkills && field == "level":
		return huh.NewSelect[string]().Title(label).Options(enumOptions(resume.SkillLevels())...).Value(value)
	case s == SectionLanguages && field == "proficiency":
		return huh.NewSelect[string]().Title(label).Options(enumOptions(resume.Proficiencies())...).Value(value)
	case field == "current":
		return huh.NewSelect[string]().Title(label).Options(
			huh.NewOption("No", "false"),
			huh.NewOption("Yes", "true"),
		).Value(value)
	case field == "description" || field == "summary":
		return huh.NewText().Title(label).Value(value)
	default:
		return huh.NewInput().Title(label).Value(value)
	}
}

func enumOptions[T ~string](values []T) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(values))
	for _, v := range values {
		opts = append(opts, huh.NewOption(render.Capitalize(string(v)), string(v)))
	}
	return opts
}

// entryValues reads an entry's fields by their JSON names
func entryValues(d Draft, s Section, i int) (map[string]*string, error) {
	if i < 0 || i >= d.Len(s) {
		return nil, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, d.Len(s))
	}

	var entry any
	switch s {
	case SectionExperience:
		entry = d.content.Experience[i]
	case SectionEducation:
		entry = d.content.Education[i]
	case SectionSkills:
		entry = d.content.Skills[i]
	case SectionProjects:
		entry = d.content.Projects[i]
	case SectionCertifications:
		entry = d.content.Certifications[i]
	case SectionLanguages:
		entry = d.content.Languages[i]
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return jsonValues(entry, sectionFields[s])
}

func personalValues(p resume.PersonalInfo) map[string]*string {
	values, _ := jsonValues(p, personalFields)
	return values
}

func jsonValues(v any, fields []string) (map[string]*string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	values := make(map[string]*string, len(fields))
	for _, f := range fields {
		var s string
		switch x := raw[f].(type) {
		case string:
			s = x
		case bool:
			s = strconv.FormatBool(x)
		}
		values[f] = &s
	}
	return values, nil
}

func deref(values map[string]*string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = *v
	}
	return out
}

// applyEntry sets every field in values on entry i, all or nothing
func applyEntry(d Draft, s Section, i int, values map[string]string) (Draft, error) {
	next := d
	for _, f := range sectionFields[s] {
		v, ok := values[f]
		if !ok {
			continue
		}
		var err error
		if next, err = next.SetField(s, i, f, strings.TrimSpace(v)); err != nil {
			return d, err
		}
	}
	return next, nil
}

func applyPersonal(d Draft, values map[string]string) (Draft, error) {
	next := d
	for _, f := range personalFields {
		v, ok := values[f]
		if !ok {
			continue
		}
		var err error
		if next, err = next.SetPersonalField(f, strings.TrimSpace(v)); err != nil {
			return d, err
		}
	}
	return next, nil
}

// entryLabel is the one line summary shown in a section's list
func entryLabel(d Draft, s Section, i int) string {
	values, err := entryValues(d, s, i)
	if err != nil {
		return ""
	}
	v := deref(values)

	var label string
	switch s {
	case SectionExperience:
		label = joinNonEmpty(" at ", v["jobTitle"], v["company"])
	case SectionEducation:
		label = joinNonEmpty(", ", v["degree"], v["institution"])
	case SectionSkills:
		label = joinNonEmpty(" ", v["name"], parenthesised(v["level"]))
	case SectionProjects:
		label = v["title"]
	case SectionCertifications:
		label = joinNonEmpty(", ", v["name"], v["issuer"])
	case SectionLanguages:
		label = joinNonEmpty(" ", v["name"], parenthesised(v["proficiency"]))
	}
	if strings.TrimSpace(label) == "" || strings.HasPrefix(label, "(") {
		return "Untitled entry"
	}
	return label
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func parenthesised(s string) string {
	if s == "" {
		return ""
	}
	return "(" + s + ")"
}
