// Package cmd provides the CLI commands for auth-redux.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/missionkuamar/auth-redux/internal/config"
	"github.com/missionkuamar/auth-redux/pkg/client"
)

var cfgFile string
var serverURL string

var rootCmd = &cobra.Command{
	Use:   "auth-redux",
	Short: "auth-redux - user account service and client",
	Long: `auth-redux is a user account service with a matching command line client.

The serve command runs the JSON REST API: registration, login, bearer token
authentication, profile updates, and a user roster.

The remaining commands talk to a running server. Login and register persist
the bearer token plus the signed-in user's record to
$HOME/.auth-redux/credentials.json, so the session survives between
invocations until the token expires or logout clears it.

Configuration:
  The server reads auth-redux.yaml from the current directory,
  $HOME/.auth-redux/, or /etc/auth-redux/.

  Environment variables override config values with the AUTH_REDUX_ prefix.
  Example: AUTH_REDUX_SERVER_HTTP_ADDR=:9090

Commands:
  serve       Run the account API server
  register    Create an account and sign in
  login       Sign in with email and password
  logout      Clear the stored session
  whoami      Show the signed-in user
  profile     Update the signed-in user's name or email
  users       List, inspect, update, or delete accounts
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./auth-redux.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server base URL for client commands (default: $AUTH_REDUX_SERVER_ADDR or http://localhost:5000)")
}

func initConfig() {
	config.InitViper(cfgFile)
}

// newManager builds a session manager backed by the on-disk credentials file.
// Client commands share it so every command sees the same stored session.
func newManager() (*client.Manager, error) {
	path, err := client.DefaultCredentialsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credentials path: %w", err)
	}

	opts := []client.Option{
		client.WithTokenStore(client.NewFileTokenStore(path)),
	}
	if serverURL != "" {
		opts = append(opts, client.WithBaseURL(serverURL))
	}
	return client.NewManager(client.NewClient(opts...)), nil
}
