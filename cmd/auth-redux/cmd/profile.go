package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/missionkuamar/auth-redux/pkg/client"
)

var (
	profileName  string
	profileEmail string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update the signed-in user's name or email",
	Long: `Update the signed-in user's profile. Only the fields passed as
flags change; the rest keep their current values. The stored session is
updated to match.`,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&profileName, "name", "", "new display name")
	profileCmd.Flags().StringVar(&profileEmail, "email", "", "new email")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	if profileName == "" && profileEmail == "" {
		return fmt.Errorf("nothing to update: pass --name or --email")
	}

	manager, err := newManager()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	if err := manager.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if !manager.Snapshot().IsAuthenticated {
		return fmt.Errorf("not signed in")
	}

	updated, err := manager.UpdateProfile(ctx, client.UserUpdate{
		Name:  profileName,
		Email: profileEmail,
	})
	if err != nil {
		return fmt.Errorf("profile update failed: %w", err)
	}

	fmt.Printf("Profile updated: %s <%s>\n", updated.Name, updated.Email)
	return nil
}
