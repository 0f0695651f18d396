package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/redmonkez12/cvbuilder/internal/resume"
	"github.com/redmonkez12/cvbuilder/internal/user"
)

// PrintTitle prints a section heading.
func PrintTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

// PrintSuccess prints a success line.
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(msg))
}

// PrintError prints an error message. This is the only way failures reach
// the user.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+msg))
}

// PrintHint prints a dimmed line.
func PrintHint(w io.Writer, msg string) {
	fmt.Fprintln(w, subtleStyle.Render(msg))
}

// PrintUser prints who is signed in.
func PrintUser(w io.Writer, u *user.User) {
	PrintTitle(w, "Signed in")
	fmt.Fprintf(w, "  Name:  %s\n", u.Name)
	fmt.Fprintf(w, "  Email: %s\n", u.Email)
	fmt.Fprintf(w, "  Since: %s\n", u.CreatedAt.Format("2 Jan 2006"))
}

// ResumeTable renders the dashboard list, newest first as the API returns it.
func ResumeTable(list []resume.Resume) string {
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		name := r.PersonalInfo.FullName
		if name == "" {
			name = "-"
		}
		rows = append(rows, []string{
			r.ID.String(),
			r.Title,
			name,
			string(r.Template),
			r.UpdatedAt.Local().Format("2 Jan 2006 15:04"),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(subtleStyle).
		Headers("ID", "TITLE", "NAME", "TEMPLATE", "UPDATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

// PrintResumes prints the list, or a hint when there is nothing yet.
func PrintResumes(w io.Writer, list []resume.Resume) {
	if len(list) == 0 {
		PrintHint(w, "No resumes yet. Run \"resumectl new\" to create one.")
		return
	}
	fmt.Fprintln(w, ResumeTable(list))
}
