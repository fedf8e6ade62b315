package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/missionkuamar/auth-redux/pkg/client"
)

var (
	userUpdateName  string
	userUpdateEmail string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List, inspect, update, or delete accounts",
	Long: `Manage the account roster on the server.

All subcommands require a stored session (login or register first).`,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every account",
	RunE:  runUsersList,
}

var usersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersGet,
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an account's name or email",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersUpdate,
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account",
	Long: `Delete an account. Deleting the account you are signed in as also
clears the stored session.`,
	Args: cobra.ExactArgs(1),
	RunE: runUsersDelete,
}

func init() {
	usersUpdateCmd.Flags().StringVar(&userUpdateName, "name", "", "new display name")
	usersUpdateCmd.Flags().StringVar(&userUpdateEmail, "email", "", "new email")

	usersCmd.AddCommand(usersListCmd, usersGetCmd, usersUpdateCmd, usersDeleteCmd)
	rootCmd.AddCommand(usersCmd)
}

// bootstrapManager restores the stored session and fails if it is not valid.
func bootstrapManager(ctx context.Context) (*client.Manager, error) {
	manager, err := newManager()
	if err != nil {
		return nil, err
	}
	if err := manager.Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	if !manager.Snapshot().IsAuthenticated {
		return nil, fmt.Errorf("not signed in")
	}
	return manager, nil
}

func runUsersList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	manager, err := bootstrapManager(ctx)
	if err != nil {
		return err
	}

	users, err := manager.LoadUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runUsersGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	manager, err := bootstrapManager(ctx)
	if err != nil {
		return err
	}

	u, err := manager.GetUser(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	fmt.Printf("ID:      %s\n", u.ID)
	fmt.Printf("Name:    %s\n", u.Name)
	fmt.Printf("Email:   %s\n", u.Email)
	fmt.Printf("Created: %s\n", u.CreatedAt.Format(time.RFC3339))
	return nil
}

func runUsersUpdate(cmd *cobra.Command, args []string) error {
	if userUpdateName == "" && userUpdateEmail == "" {
		return fmt.Errorf("nothing to update: pass --name or --email")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	manager, err := bootstrapManager(ctx)
	if err != nil {
		return err
	}

	u, err := manager.UpdateUser(ctx, args[0], client.UserUpdate{
		Name:  userUpdateName,
		Email: userUpdateEmail,
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	fmt.Printf("Updated: %s <%s>\n", u.Name, u.Email)
	return nil
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	manager, err := bootstrapManager(ctx)
	if err != nil {
		return err
	}

	ownID := manager.Snapshot().User.ID
	if err := manager.DeleteUser(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Printf("Deleted %s\n", args[0])
	if args[0] == ownID {
		fmt.Println("That was your own account. Signed out.")
	}
	return nil
}
