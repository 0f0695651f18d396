package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Credentials collected by the register and login prompts
type Credentials struct {
	Name     string
	Email    string
	Password string
}

// PromptCredentials asks for whatever is still blank in c. withName adds the
// name field for registration.
func PromptCredentials(c Credentials, withName bool) (Credentials, error) {
	var fields []huh.Field

	if withName && c.Name == "" {
		fields = append(fields, huh.NewInput().
			Title("Full name").
			Value(&c.Name).
			Validate(required("name")))
	}
	if c.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&c.Email).
			Validate(validEmail))
	}
	if c.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&c.Password).
			Validate(required("password")))
	}

	if len(fields) == 0 {
		return c, nil
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCatppuccin())
	if err := form.Run(); err != nil {
		return c, err
	}

	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	return c, nil
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

func validEmail(s string) error {
	if err := validate.Var(strings.TrimSpace(s), "required,email,max=254"); err != nil {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
