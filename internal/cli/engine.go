package cli

import (
	"context"
	"fmt"

	"resumepanel/internal/config"
	"resumepanel/internal/coordinator"
	"resumepanel/internal/errors"
	"resumepanel/internal/experts"
	"resumepanel/internal/llm"
	"resumepanel/internal/observability"
	"resumepanel/internal/weights"
)

// engine bundles the collaborators built for one command invocation.
type engine struct {
	cfg         *config.Config
	logger      *errors.Logger
	gateways    *llm.Set
	coordinator *coordinator.Coordinator
	obs         *observability.ObservabilityManager
}

// newRegistry builds the weight registry with the configured profiles file
// applied. A default named in the file takes precedence over
// analysis.defaultProfile.
func newRegistry(cfg *config.Config) (*weights.Registry, error) {
	registry := weights.NewRegistry()
	fileDefault := ""
	if cfg.Analysis.ProfilesFile != "" {
		contents, err := weights.LoadFile(cfg.Analysis.ProfilesFile)
		if err != nil {
			return nil, err
		}
		if err := registry.Apply(contents); err != nil {
			return nil, err
		}
		fileDefault = contents.Default
	}
	if fileDefault == "" && cfg.Analysis.DefaultProfile != "" {
		if err := registry.SetDefault(cfg.Analysis.DefaultProfile); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// newEngine resolves Vault secrets and wires gateways, experts,
// observability and the coordinator.
func newEngine(cfg *config.Config, logger *errors.Logger) (*engine, error) {
	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return nil, err
	}

	registry, err := newRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load weight profiles: %w", err)
	}

	obs, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	gateways, err := llm.NewGeminiSet(cfg, logger)
	if err != nil {
		_ = obs.Shutdown(context.Background())
		return nil, err
	}
	gateways = gateways.Wrap(obs.WrapGateway)

	all := experts.NewAll(gateways,
		experts.WithLogger(logger),
		experts.WithTextLimit(cfg.Analysis.ResumeTextLimit),
		experts.WithObserver(obs),
	)
	coord := coordinator.New(all, gateways.Summary, registry,
		coordinator.WithLogger(logger),
		coordinator.WithSummary(cfg.Analysis.SummaryEnabled),
		coordinator.WithRecommendationLimits(cfg.Analysis.MaxRecommendations, cfg.Analysis.RecommendationMaxLen),
		coordinator.WithTextLimit(cfg.Analysis.ResumeTextLimit),
		coordinator.WithObserver(obs),
	)

	return &engine{
		cfg:         cfg,
		logger:      logger,
		gateways:    gateways,
		coordinator: coord,
		obs:         obs,
	}, nil
}

// analysisContext bounds ctx by the configured analysis timeout.
func (e *engine) analysisContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.Analysis.Timeout > 0 {
		return context.WithTimeout(ctx, e.cfg.Analysis.Timeout)
	}
	return context.WithCancel(ctx)
}

func (e *engine) Close(ctx context.Context) {
	if err := e.obs.Shutdown(ctx); err != nil {
		e.logger.Warn("Observability shutdown failed", "error", err)
	}
}
