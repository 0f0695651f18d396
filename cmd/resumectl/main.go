package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/redmonkez12/cvbuilder/cmd/resumectl/ui"
	"github.com/redmonkez12/cvbuilder/internal/client"
)

// app is what every command works with once flags are parsed
type app struct {
	cfg      client.Config
	sessions *client.SessionStore
	api      *client.Client
	state    *client.State
}

func main() {
	a := &app{cfg: client.LoadConfig()}

	rootCmd := &cobra.Command{
		Use:           "resumectl",
		Short:         "Build resumes from the terminal",
		Long:          "Create, edit, preview and export resumes stored by the cvbuilder API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfg.APIURL, "api", a.cfg.APIURL, "API base URL")
	rootCmd.PersistentFlags().StringVar(&a.cfg.SessionFile, "session", a.cfg.SessionFile, "Session file")

	rootCmd.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.deleteAccountCmd(),
		a.listCmd(),
		a.showCmd(),
		a.newCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.previewCmd(),
		a.exportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, huh.ErrUserAborted) {
			ui.PrintError(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
}

func (a *app) setup() error {
	a.sessions = client.NewSessionStore(a.cfg.SessionFile)

	sess, err := a.sessions.Load()
	if err != nil {
		return err
	}

	a.api = client.New(a.cfg.APIURL, sess, a.cfg.Timeout)
	a.state = client.NewState(a.api, a.sessions)
	return nil
}

// requireSession fails early with a hint instead of a 401 from the server
func (a *app) requireSession() error {
	if !a.api.Session().SignedIn() {
		return errors.New(`not signed in, run "resumectl login" first`)
	}
	return nil
}
