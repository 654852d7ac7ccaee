package main

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"
)

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Trainer account",
	}

	var username, password string
	credentials := func(c *cobra.Command) {
		c.Flags().StringVarP(&username, "username", "u", "", "username")
		c.Flags().StringVarP(&password, "password", "p", "", "password")
		_ = c.MarkFlagRequired("username")
		_ = c.MarkFlagRequired("password")
	}
	issue := func(path, done string) func(*cobra.Command, []string) error {
		return func(c *cobra.Command, _ []string) error {
			payload := map[string]string{"username": username, "password": password}
			var resp authResponse
			if err := a.call(c.Context(), http.MethodPost, path, "", payload, &resp); err != nil {
				return err
			}
			if err := saveToken(a.tokenPath, resp.Token); err != nil {
				return err
			}
			a.printf(c, "✅ %s as %s\n", done, resp.User.Username)
			return nil
		}
	}

	login := &cobra.Command{Use: "login", Short: "Log in and store the token", RunE: issue("/auth/login", "logged in")}
	register := &cobra.Command{Use: "register", Short: "Create an account and log in", RunE: issue("/auth/register", "registered and logged in")}
	credentials(login)
	credentials(register)

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and forget it",
		RunE: func(c *cobra.Command, _ []string) error {
			token, err := readToken(a.tokenPath)
			if err == nil {
				// the local token goes either way
				if err := a.call(c.Context(), http.MethodPost, "/auth/logout", token, nil, nil); err != nil {
					a.printf(c, "server logout failed: %v\n", err)
				}
			}
			if err := clearToken(a.tokenPath); err != nil {
				return err
			}
			a.printf(c, "✅ logged out\n")
			return nil
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in trainer",
		RunE: func(c *cobra.Command, _ []string) error {
			token, err := readToken(a.tokenPath)
			if err != nil {
				return err
			}
			var me struct {
				Username string `json:"username"`
			}
			if err := a.call(c.Context(), http.MethodGet, "/auth/me", token, nil, &me); err != nil {
				var ae *apiError
				if errors.As(err, &ae) && ae.Status == http.StatusUnauthorized {
					return errors.New("session expired, please login")
				}
				return err
			}
			a.printf(c, "%s\n", me.Username)
			return nil
		},
	}

	cmd.AddCommand(login, register, logout, whoami)
	return cmd
}
