package server

import (
	"context"
	"sync"
	"time"

	"resumepanel/internal/config"
	"resumepanel/internal/errors"
	"resumepanel/internal/formatters"
	"resumepanel/internal/llm"
	"resumepanel/internal/observability"
	"resumepanel/internal/router"
	"resumepanel/internal/types"
	"resumepanel/internal/weights"
)

// RouteRequest is the body of POST /route.
type RouteRequest struct {
	Message         string                 `json:"message"`
	Resume          *types.Resume          `json:"resume,omitempty"`
	JobRequirements *types.JobRequirements `json:"job_requirements,omitempty"`
}

// RouteResponse reports the classification and, when an expert ran, its
// result and report.
type RouteResponse struct {
	Intent       types.Intent           `json:"intent"`
	Confidence   float64                `json:"confidence"`
	ShouldInvoke bool                   `json:"should_invoke"`
	Expert       string                 `json:"expert,omitempty"`
	Result       *types.ExpertResult    `json:"result,omitempty"`
	Aggregate    *types.AggregateResult `json:"aggregate,omitempty"`
	Report       string                 `json:"report,omitempty"`
}

// ProfilesResponse is the JSON form of GET /profiles.
type ProfilesResponse struct {
	Default  string                        `json:"default"`
	Profiles map[string]map[string]float64 `json:"profiles"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Engine is the analysis backend the handlers call.
type Engine interface {
	router.Analyzer
	AnalyzeRequest(ctx context.Context, req types.AnalysisRequest) *types.AggregateResult
	Registry() *weights.Registry
}

// HealthSource reports model availability and breaker state. *llm.Set
// implements it.
type HealthSource interface {
	ModelInfo(ctx context.Context) map[string]*llm.ModelInfo
	Stats() map[string]any
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	TLSConfig config.TLSConfig

	// API Authentication
	apiKeysMu sync.RWMutex
	apiKeys   map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	HealthCheckTimeout time.Duration

	engine        Engine
	router        *router.Router
	health        HealthSource
	formatters    *formatters.FormatterRegistry
	observability *observability.ObservabilityManager
	keyWatcher    *VaultKeyWatcher

	Logger *errors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host               string
	Port               string
	Version            string
	TLSConfig          config.TLSConfig
	APIKeys            []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	MaxRequestSize     int64
	RateLimit          *config.RateLimitConfig
	HealthCheckTimeout time.Duration
}

// Deps are the collaborators the handlers need. Health and Observability
// may be nil.
type Deps struct {
	Engine        Engine
	Health        HealthSource
	Observability *observability.ObservabilityManager
	KeyWatcher    *VaultKeyWatcher
}

// ConfigFromApp maps the application configuration onto a ServerConfig.
func ConfigFromApp(cfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		Version:            version,
		TLSConfig:          cfg.Server.TLS,
		APIKeys:            cfg.Server.APIKeys,
		ReadTimeout:        cfg.Server.ReadTimeout,
		WriteTimeout:       cfg.Server.WriteTimeout,
		IdleTimeout:        cfg.Server.IdleTimeout,
		MaxRequestSize:     cfg.Server.MaxRequestSize,
		RateLimit:          &cfg.Server.RateLimit,
		HealthCheckTimeout: cfg.Observability.HealthCheck.Timeout,
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(cfg ServerConfig, deps Deps, logger *errors.Logger) *Server {
	if logger == nil {
		logger = errors.Discard()
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	healthTimeout := cfg.HealthCheckTimeout
	if healthTimeout <= 0 {
		healthTimeout = 10 * time.Second
	}

	s := &Server{
		Host:               cfg.Host,
		Port:               cfg.Port,
		Version:            cfg.Version,
		TLSConfig:          cfg.TLSConfig,
		ReadTimeout:        cfg.ReadTimeout,
		WriteTimeout:       cfg.WriteTimeout,
		IdleTimeout:        cfg.IdleTimeout,
		MaxRequestSize:     cfg.MaxRequestSize,
		RateLimit:          cfg.RateLimit,
		RateLimiter:        rateLimiter,
		HealthCheckTimeout: healthTimeout,
		engine:             deps.Engine,
		health:             deps.Health,
		formatters:         formatters.NewFormatterRegistry(),
		observability:      deps.Observability,
		keyWatcher:         deps.KeyWatcher,
		Logger:             logger,
	}
	s.SetAPIKeys(cfg.APIKeys)
	if deps.Engine != nil {
		s.router = router.New(deps.Engine, "", logger)
	}
	return s
}

// SetAPIKeys replaces the accepted key set. An empty set disables
// authentication.
func (s *Server) SetAPIKeys(keys []string) {
	next := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key != "" {
			next[key] = true
		}
	}
	s.apiKeysMu.Lock()
	s.apiKeys = next
	s.apiKeysMu.Unlock()
}

func (s *Server) apiKeyCount() int {
	s.apiKeysMu.RLock()
	defer s.apiKeysMu.RUnlock()
	return len(s.apiKeys)
}

func (s *Server) validAPIKey(key string) bool {
	s.apiKeysMu.RLock()
	defer s.apiKeysMu.RUnlock()
	return s.apiKeys[key]
}
