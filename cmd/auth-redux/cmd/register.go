package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	registerName  string
	registerEmail string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Long: `Create an account on the server and sign in as it.

On success the bearer token and user record are written to
$HOME/.auth-redux/credentials.json.`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name (prompted if omitted)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email (prompted if omitted)")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	name := registerName
	if name == "" {
		var err error
		name, err = promptLine("Name: ")
		if err != nil {
			return err
		}
	}
	email := registerEmail
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

	if err := manager.Register(ctx, name, email, password); err != nil {
		if msg := manager.Snapshot().Error; msg != "" {
			return fmt.Errorf("registration failed: %s", msg)
		}
		return fmt.Errorf("registration failed: %w", err)
	}

	snap := manager.Snapshot()
	fmt.Printf("Account created. Signed in as %s <%s>\n", snap.User.Name, snap.User.Email)
	return nil
}
