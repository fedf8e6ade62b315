package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long: `Validate the stored session against the server and print the
signed-in user's record. An expired or revoked token clears the stored
session.`,
	RunE: runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	manager, err := newManager()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	if err := manager.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	snap := manager.Snapshot()
	if !snap.IsAuthenticated {
		if snap.Error != "" {
			return fmt.Errorf("not signed in: %s", snap.Error)
		}
		return fmt.Errorf("not signed in")
	}

	fmt.Printf("ID:      %s\n", snap.User.ID)
	fmt.Printf("Name:    %s\n", snap.User.Name)
	fmt.Printf("Email:   %s\n", snap.User.Email)
	fmt.Printf("Created: %s\n", snap.User.CreatedAt.Format(time.RFC3339))
	return nil
}
