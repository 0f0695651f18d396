package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/cvbuilder/cmd/resumectl/ui"
	"github.com/redmonkez12/cvbuilder/internal/editor"
	"github.com/redmonkez12/cvbuilder/internal/export"
	"github.com/redmonkez12/cvbuilder/internal/render"
	"github.com/redmonkez12/cvbuilder/internal/resume"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your resumes, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.state.FetchResumes(cmd.Context()); err != nil {
				return a.stateErr(err)
			}
			ui.PrintResumes(cmd.OutOrStdout(), a.state.Resumes())
			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a resume as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			r, err := a.state.FetchResume(cmd.Context(), args[0])
			if err != nil {
				return a.stateErr(err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		},
	}
}

func (a *app) newCmd() *cobra.Command {
	var (
		title    string
		template string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a resume in the interactive editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			ed := editor.New(a.state, nil)
			if title != "" {
				ed.Apply(ed.Draft().SetTitle(title))
			}
			if template != "" {
				if err := ed.Update(func(d editor.Draft) (editor.Draft, error) { return d.SetTemplate(template) }); err != nil {
					return err
				}
			}
			return editor.Run(cmd.Context(), ed, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Resume title")
	cmd.Flags().StringVar(&template, "template", "", "modern, classic or minimal")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a resume in the interactive editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			r, err := a.state.FetchResume(cmd.Context(), args[0])
			if err != nil {
				return a.stateErr(err)
			}
			return editor.Run(cmd.Context(), editor.New(a.state, r), cmd.OutOrStdout())
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a resume",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if !yes {
				ok, err := ui.Confirm("Are you sure you want to delete this resume?")
				if err != nil || !ok {
					return err
				}
			}
			if err := a.state.DeleteResume(cmd.Context(), args[0]); err != nil {
				return a.stateErr(err)
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Resume deleted successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

func (a *app) previewCmd() *cobra.Command {
	var (
		template string
		out      string
		remote   bool
	)

	cmd := &cobra.Command{
		Use:   "preview <id>",
		Short: "Write the rendered resume to an HTML file",
		Long:  "Renders locally by default. --remote asks the server to render instead.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			r, err := a.state.FetchResume(cmd.Context(), args[0])
			if err != nil {
				return a.stateErr(err)
			}

			var page []byte
			if remote {
				if page, err = a.api.Preview(cmd.Context(), args[0], template); err != nil {
					return err
				}
			} else {
				var buf bytes.Buffer
				if err := render.Render(&buf, pickTemplate(r, template), r); err != nil {
					return err
				}
				page = buf.Bytes()
			}

			if out == "" {
				out = filepath.Join(a.cfg.OutputDir, strings.TrimSuffix(export.FileName(r.PersonalInfo.FullName), ".pdf")+".html")
			}
			if err := os.WriteFile(out, page, 0o644); err != nil {
				return fmt.Errorf("failed to write preview: %w", err)
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Preview written to "+out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Override the template: modern, classic or minimal")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file")
	cmd.Flags().BoolVar(&remote, "remote", false, "Use the server rendered preview")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		template string
		dir      string
	)

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a resume to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			r, err := a.state.FetchResume(cmd.Context(), args[0])
			if err != nil {
				return a.stateErr(err)
			}

			renderer, err := render.New()
			if err != nil {
				return err
			}
			exporter := export.NewExporter(renderer, export.NewChromeRasterizer(a.cfg.ChromePath))

			if dir == "" {
				dir = a.cfg.OutputDir
			}
			path, err := exporter.Export(cmd.Context(), r, pickTemplate(r, template), dir)
			if err != nil {
				if errors.Is(err, export.ErrPreviewNotFound) {
					return errors.New("failed to generate PDF: resume preview not found")
				}
				return fmt.Errorf("failed to generate PDF: %w", err)
			}

			ui.PrintSuccess(cmd.OutOrStdout(), "PDF written to "+path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Override the template: modern, classic or minimal")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory")
	return cmd
}

// pickTemplate uses override when it names a template, else the resume's own
func pickTemplate(r *resume.Resume, override string) resume.Template {
	if t, ok := resume.ParseTemplate(override); ok {
		return t
	}
	return r.Template
}
