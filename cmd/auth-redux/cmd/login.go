package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Long: `Sign in to the account server.

On success the bearer token and user record are written to
$HOME/.auth-redux/credentials.json so later commands reuse the session.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (prompted if omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := loginEmail
	if email == "" {
		var err error
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	manager, err := newManager()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	if err := manager.Login(ctx, email, password); err != nil {
		if msg := manager.Snapshot().Error; msg != "" {
			return fmt.Errorf("login failed: %s", msg)
		}
		return fmt.Errorf("login failed: %w", err)
	}

	snap := manager.Snapshot()
	fmt.Printf("Signed in as %s <%s>\n", snap.User.Name, snap.User.Email)
	return nil
}
