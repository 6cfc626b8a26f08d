package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/oauth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Google account connection",
	Long: `Sign in to Google, inspect the stored token, or remove it.

Sign-in uses the OAuth client secrets file downloaded from Google Cloud
(google.credentials_file, default ~/.google/workspace_agent_credentials.json).
The resulting token is stored at google.token_file.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google in the browser",
	RunE:  runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored token",
	RunE:  runAuthStatus,
}

var authRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Delete the stored token",
	RunE:  runAuthRevoke,
}

var (
	authLoginPort      int
	authLoginNoBrowser bool
	authLoginTimeout   time.Duration
)

// openBrowser is replaced in tests.
var openBrowser = oauth.OpenBrowser

func init() {
	authLoginCmd.Flags().IntVarP(&authLoginPort, "port", "p", 0, "callback port (0 = any free port)")
	authLoginCmd.Flags().BoolVar(&authLoginNoBrowser, "no-browser", false, "print the sign-in URL instead of opening it")
	authLoginCmd.Flags().DurationVar(&authLoginTimeout, "timeout", oauth.DefaultLoginTimeout, "how long to wait for sign-in")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRevokeCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	open := openBrowser
	if authLoginNoBrowser {
		open = func(string) error { return nil }
	}

	err := oauth.Login(commandContext(cmd), authService, oauth.LoginOptions{
		Port:    authLoginPort,
		Timeout: authLoginTimeout,
		Open:    open,
		Out:     cmd.OutOrStdout(),
	})
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	status, err := authService.Status(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	cmd.Printf("Token file: %s\n", status.TokenPath)
	if !status.Authenticated {
		cmd.Println("Status:     not signed in")
		cmd.Println("Run 'wsagent auth login' to connect your Google account.")
		return nil
	}

	cmd.Println("Status:     signed in")
	if !status.Expiry.IsZero() {
		state := "valid"
		if time.Now().After(status.Expiry) {
			state = "expired"
		}
		cmd.Printf("Expiry:     %s (%s)\n", status.Expiry.Local().Format(time.RFC1123), state)
	}
	if status.CanRefresh {
		cmd.Println("Refresh:    available")
	} else {
		cmd.Println("Refresh:    not available, sign in again when the token expires")
	}
	return nil
}

func runAuthRevoke(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	if err := authService.Revoke(commandContext(cmd)); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	cmd.Println("Token removed. Run 'wsagent auth login' to sign in again.")
	return nil
}
