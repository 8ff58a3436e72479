package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"medbot-backend/pkg/intake"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the refresh token and forget the session",
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().String("email", "", "Account email (required)")
	loginCmd.Flags().String("password", "", "Password (read from MEDBOT_PASSWORD or stdin when empty)")
	_ = loginCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	store, err := sessionStore(cmd)
	if err != nil {
		return err
	}
	existing, err := store.Load()
	if err != nil {
		return err
	}

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("MEDBOT_PASSWORD")
	}
	if password == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimSpace(line)
	}

	server := serverURL(cmd, existing)
	timeout, _ := cmd.Flags().GetDuration("timeout")

	session, err := intake.NewClient(server, timeout).Login(cmd.Context(), email, password)
	if err != nil {
		var rejected *intake.RejectedError
		if errors.As(err, &rejected) && rejected.Message != "" {
			return errors.New(rejected.Message)
		}
		return err
	}
	session.Server = server

	if err := store.Save(session); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", session.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	store, err := sessionStore(cmd)
	if err != nil {
		return err
	}
	session, err := store.Load()
	if err != nil {
		return err
	}

	if session.RefreshToken != "" {
		client := intake.NewClient(serverURL(cmd, session), 5*time.Second)
		if err := client.Logout(cmd.Context(), session.RefreshToken); err != nil {
			// The local session is still removed
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not revoke session: %v\n", err)
		}
	}

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}
