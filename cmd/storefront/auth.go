package main

import (
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var creds domain.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			nav, err := a.sess.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", a.sess.User())
			a.follow(nav)
			return nil
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "password")
	return cmd
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var reg domain.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			nav, err := a.sess.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Registered %s, please log in\n", reg.Username)
			a.follow(nav)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&reg.Username, "username", "u", "", "username (required)")
	f.StringVarP(&reg.Password, "password", "p", "", "password (required)")
	f.StringVar(&reg.Email, "email", "", "email (required)")
	f.StringVar(&reg.FullName, "full-name", "", "full name (required)")
	f.StringVar(&reg.FirstName, "first-name", "", "first name")
	f.StringVar(&reg.LastName, "last-name", "", "last name")
	f.StringVar(&reg.Phone, "phone", "", "phone")
	f.StringVar(&reg.Address, "address", "", "address")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			a.sess.Logout(cmd.Context())
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			if !a.sess.LoggedIn() {
				fmt.Fprintln(a.out, "Not logged in")
				return nil
			}
			if !remote {
				fmt.Fprintln(a.out, a.sess.User())
				return nil
			}
			me, err := a.client.Me(cmd.Context())
			if err != nil {
				return fmt.Errorf("session no longer valid on the server: %w", err)
			}
			fmt.Fprintln(a.out, me.Username)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "confirm the session with the server")
	return cmd
}
