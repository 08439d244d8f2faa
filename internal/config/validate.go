package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"resumepanel/internal/types"
	"resumepanel/internal/weights"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks if the configuration is valid. The API key is checked
// when a gateway is built so that offline commands work without one.
func (c *Config) Validate() error {
	var problems []string

	if c.AI.Provider != "gemini" {
		problems = append(problems, fmt.Sprintf("unsupported AI provider: %s", c.AI.Provider))
	}
	if c.AI.Model == "" {
		problems = append(problems, "AI model is required")
	}
	if c.AI.Timeout <= 0 {
		problems = append(problems, "AI timeout must be positive")
	}
	if c.AI.MaxRetries < 0 {
		problems = append(problems, "AI maxRetries must not be negative")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		problems = append(problems, fmt.Sprintf("AI temperature %.2f out of range [0, 2]", c.AI.Temperature))
	}
	problems = append(problems, c.validateOperations()...)

	if c.Analysis.DefaultProfile != "" {
		if _, ok := weights.NewRegistry().Lookup(c.Analysis.DefaultProfile); !ok && c.Analysis.ProfilesFile == "" {
			problems = append(problems, fmt.Sprintf("unknown default weight profile: %s", c.Analysis.DefaultProfile))
		}
	}
	if c.Analysis.ProfilesFile != "" {
		if _, err := os.Stat(c.Analysis.ProfilesFile); err != nil {
			problems = append(problems, fmt.Sprintf("profiles file not accessible: %s", c.Analysis.ProfilesFile))
		}
	}
	if c.Analysis.MaxRecommendations < 1 {
		problems = append(problems, "analysis maxRecommendations must be at least 1")
	}
	if c.Analysis.RecommendationMaxLen < 1 {
		problems = append(problems, "analysis recommendationMaxLen must be at least 1")
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid server port: %q", c.Server.Port))
	}
	if (c.Server.TLS.CertFile == "") != (c.Server.TLS.KeyFile == "") {
		problems = append(problems, "server TLS needs both certFile and keyFile")
	}
	if rl := c.Server.RateLimit; rl.Enabled && (rl.RequestsPerMin <= 0 || rl.BurstCapacity <= 0) {
		problems = append(problems, "rate limit requestsPerMin and burstCapacity must be positive when enabled")
	}

	if !slices.Contains(validLogLevels, c.App.LogLevel) {
		problems = append(problems, fmt.Sprintf("invalid log level: %s", c.App.LogLevel))
	}
	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		problems = append(problems, fmt.Sprintf("invalid default format: %s", c.App.DefaultFormat))
	}

	if c.Observability.SampleRate < 0 || c.Observability.SampleRate > 1 {
		problems = append(problems, "observability sampleRate must be within [0, 1]")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateOperations() []string {
	var problems []string
	check := func(name string, op OperationAIConfig) {
		if op.Temperature != nil && (*op.Temperature < 0 || *op.Temperature > 2) {
			problems = append(problems, fmt.Sprintf("%s temperature out of range", name))
		}
		if op.Timeout != nil && *op.Timeout <= 0 {
			problems = append(problems, fmt.Sprintf("%s timeout must be positive", name))
		}
	}
	for key, op := range c.AI.Experts {
		if _, ok := types.ParseDimension(key); !ok {
			problems = append(problems, fmt.Sprintf("unknown expert in ai.experts: %s", key))
			continue
		}
		check("ai.experts."+key, op)
	}
	check("ai.summary", c.AI.Summary)
	return problems
}
