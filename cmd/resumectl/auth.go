package main

import (
	"github.com/spf13/cobra"

	"github.com/redmonkez12/cvbuilder/cmd/resumectl/ui"
)

func (a *app) registerCmd() *cobra.Command {
	var creds ui.Credentials

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ui.PromptCredentials(creds, true)
			if err != nil {
				return err
			}
			if err := a.state.Register(cmd.Context(), c.Name, c.Email, c.Password); err != nil {
				return a.stateErr(err)
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Welcome, "+a.state.User().Name+"!")
			return nil
		},
	}

	cmd.Flags().StringVar(&creds.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&creds.Email, "email", "", "Email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var creds ui.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ui.PromptCredentials(creds, false)
			if err != nil {
				return err
			}
			if err := a.state.Login(cmd.Context(), c.Email, c.Password); err != nil {
				return a.stateErr(err)
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Signed in as "+a.state.User().Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "Email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.state.Logout(cmd.Context()); err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.state.Restore(cmd.Context()); err != nil {
				return err
			}
			ui.PrintUser(cmd.OutOrStdout(), a.state.User())
			return nil
		},
	}
}

func (a *app) deleteAccountCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete your account and every resume in it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if !yes {
				ok, err := ui.Confirm("Delete your account and all of its resumes? This cannot be undone.")
				if err != nil || !ok {
					return err
				}
			}
			if err := a.state.DeleteAccount(cmd.Context()); err != nil {
				return a.stateErr(err)
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Account deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

// stateErr prefers the message State recorded for the user
func (a *app) stateErr(err error) error {
	if msg := a.state.Err(); msg != "" {
		return &displayError{msg: msg, err: err}
	}
	return err
}

type displayError struct {
	msg string
	err error
}

func (e *displayError) Error() string { return e.msg }
func (e *displayError) Unwrap() error { return e.err }
