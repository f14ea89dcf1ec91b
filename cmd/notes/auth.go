package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ViniZap4/lumi-notes/domain"
)

func registerCmd(a *app) *cobra.Command {
	var req domain.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  `Create an account on the server. Registering does not log in; run "notes login" afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				pass, err := readSecret(cmd, "Password: ")
				if err != nil {
					return err
				}
				req.Password = pass
			}
			user, err := a.client.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s <%s>\n", user.Username, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "user name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (prompted when omitted)")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	return cmd
}

func loginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				pass, err := readSecret(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = pass
			}
			if email == "" || password == "" {
				return errors.New("email and password are required")
			}
			user, err := a.session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			user, _ := a.session.User()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s <%s>", user.Username, user.Email)
			if user.FullName != "" {
				fmt.Fprintf(w, " %s", user.FullName)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
}
