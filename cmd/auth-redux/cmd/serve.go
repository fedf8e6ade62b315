package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/missionkuamar/auth-redux/internal/adapter/inbound/api"
	"github.com/missionkuamar/auth-redux/internal/adapter/outbound/memory"
	"github.com/missionkuamar/auth-redux/internal/adapter/outbound/sqlite"
	"github.com/missionkuamar/auth-redux/internal/config"
	"github.com/missionkuamar/auth-redux/internal/domain/auth"
	"github.com/missionkuamar/auth-redux/internal/domain/user"
	"github.com/missionkuamar/auth-redux/internal/service"
)

var seedFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the account API server",
	Long: `Run the auth-redux account API server.

The server exposes the JSON REST API under /api and Prometheus metrics
under /metrics. User records live in memory by default; configure
storage.driver: sqlite with a storage.path to persist them.

Examples:
  # Run with config file settings
  auth-redux serve

  # Run with a specific config file
  auth-redux --config /path/to/auth-redux.yaml serve

  # Pre-create accounts from a YAML file
  auth-redux serve --seed users.yaml`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&seedFile, "seed", "", "YAML file of accounts to create at startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
	if configFile := config.ConfigFileUsed(); configFile != "" {
		logger.Info("loaded config", "file", configFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := openUserStore(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	users := service.NewUserService(store, logger)
	tokens := auth.NewTokenIssuer([]byte(cfg.Auth.TokenSecret), cfg.TokenTTLDuration())

	if seedFile != "" {
		if err := seedUsers(ctx, users, seedFile, logger); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
	}

	handler := api.NewHandler(users, tokens,
		api.WithLogger(logger),
		api.WithMetrics(api.NewMetrics(prometheus.NewRegistry())),
	)

	server := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: handler.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", cfg.Server.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("signal received, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err)
			return err
		}
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	logger.Info("auth-redux stopped")
	return nil
}

// openUserStore builds the configured store backend. The returned cleanup
// closes the backend and is safe to call even for in-memory stores.
func openUserStore(cfg *config.Config, logger *slog.Logger) (user.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		store, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("using sqlite store", "path", cfg.Storage.Path)
		return store, func() { _ = store.Close() }, nil
	default:
		logger.Info("using in-memory store")
		return memory.NewUserStore(), func() {}, nil
	}
}

// seedEntry is one account in a --seed file.
type seedEntry struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// seedUsers creates accounts listed in a YAML file. Accounts whose email is
// already registered are skipped, so seeding is safe to repeat against a
// persistent store.
func seedUsers(ctx context.Context, users *service.UserService, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var entries []seedEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("invalid seed file %s: %w", path, err)
	}

	for _, e := range entries {
		_, err := users.Register(ctx, service.RegisterInput{
			Name:     e.Name,
			Email:    e.Email,
			Password: e.Password,
		})
		if errors.Is(err, user.ErrDuplicateEmail) {
			logger.Debug("seed user already exists", "email", e.Email)
			continue
		}
		if err != nil {
			return fmt.Errorf("seed user %s: %w", e.Email, err)
		}
		logger.Info("seeded user", "email", e.Email)
	}
	return nil
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
