package cli

import (
	"context"
	"fmt"

	"resumepanel/internal/config"
	"resumepanel/internal/errors"
	"resumepanel/internal/server"
	"resumepanel/internal/weights"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis server",
	Long: `Start an HTTP server exposing the analysis engine.

Available endpoints:
- POST /analyze: Full seven-dimension analysis (?format=json|markdown|text)
- POST /analyze/{dimension}: Single expert analysis
- POST /route: Classify a chat message and run the matching expert
- GET /profiles: Weight profile table
- GET /health: Model availability check
- GET /stats: Circuit breaker and rate limiting statistics

TLS is enabled when server.tls.certFile and server.tls.keyFile are set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveOverrides struct {
	host     string
	port     string
	certFile string
	keyFile  string
}

func init() {
	serveCmd.Flags().StringVarP(&serveOverrides.port, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveOverrides.host, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&serveOverrides.certFile, "cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().StringVar(&serveOverrides.keyFile, "key-file", "", "Server private key file (PEM, overrides config)")
}

// applyServeOverrides copies explicitly set flags onto the server config.
func applyServeOverrides(cfg *config.Config) error {
	if serveOverrides.host != "" {
		cfg.Server.Host = serveOverrides.host
	}
	if serveOverrides.port != "" {
		cfg.Server.Port = serveOverrides.port
	}
	if serveOverrides.certFile != "" {
		cfg.Server.TLS.CertFile = serveOverrides.certFile
	}
	if serveOverrides.keyFile != "" {
		cfg.Server.TLS.KeyFile = serveOverrides.keyFile
	}
	return cfg.Validate()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	if err := applyServeOverrides(cfg); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}

	eng, err := newEngine(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize analysis engine: %w", err)
	}
	defer eng.Close(context.Background())

	if cfg.Analysis.WatchProfiles && cfg.Analysis.ProfilesFile != "" {
		watcher := weights.NewWatcher(cfg.Analysis.ProfilesFile, eng.coordinator.Registry(), 0, logger, nil)
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to watch weight profiles: %w", err)
		}
		defer func() {
			if err := watcher.Stop(); err != nil {
				logger.LogError(err, "Failed to stop profile watcher")
			}
		}()
	}

	// The key watcher is created before the server it updates; it only
	// starts polling once the server runs.
	var srv *server.Server
	keyWatcher, err := newKeyWatcher(cfg, logger, func(keys []string) { srv.SetAPIKeys(keys) })
	if err != nil {
		return err
	}

	srv = server.NewServer(server.ConfigFromApp(cfg, Version), server.Deps{
		Engine:        eng.coordinator,
		Health:        eng.gateways,
		Observability: eng.obs,
		KeyWatcher:    keyWatcher,
	}, logger)
	return srv.Run(cmd.Context())
}

// newKeyWatcher returns nil unless Vault polling of the API keys is
// configured.
func newKeyWatcher(cfg *config.Config, logger *errors.Logger, onChange func([]string)) (*server.VaultKeyWatcher, error) {
	if !cfg.Vault.Enabled || cfg.Vault.PollInterval <= 0 || cfg.Vault.Secrets.APIKeys == "" {
		return nil, nil
	}
	client, err := config.NewVaultClient(cfg.Vault, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vault client: %w", err)
	}
	return server.NewVaultKeyWatcher(client, cfg.Vault.Secrets.APIKeys, cfg.Vault.PollInterval, onChange, logger), nil
}
