package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ecofinder/backend/config"
	"github.com/ecofinder/backend/internal/app"
	"github.com/ecofinder/backend/internal/domain"
	"github.com/ecofinder/backend/internal/infrastructure/credentials"
	"github.com/ecofinder/backend/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "ecofinder",
	Short:         "Find eco-friendly alternatives from the terminal",
	Long:          "Run the EcoFinder enrichment pipeline and suggestion lookup against a product record, and manage the API keys they use",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(credentialsCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(alternativesCmd)
}

// loadConfig reads configuration and installs a logger at the requested level
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, _ := cmd.Flags().GetString("log-level")
	logger, err := logging.New(cfg.Server.Environment, level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	// The CLI always reads the OS keychain; env keys remain a fallback
	cfg.Credentials.Backend = "keyring"
	return cfg, nil
}

// newCredentialStore returns a keychain store backed by env keys for reads
func newCredentialStore(cfg *config.Config) domain.CredentialStore {
	return credentials.NewChainStore(
		credentials.NewKeyringStore(cfg.Credentials.KeyringService),
		credentials.NewStaticStore(cfg.Credentials.StaticCredentials()),
	)
}

// newApp wires the services for a lookup command
func newApp(ctx context.Context, cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}
