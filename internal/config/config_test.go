package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"resumepanel/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigFromDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	path := writeFile(t, t.TempDir(), "config.yaml", "app:\n  logLevel: info\n")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "env-key", cfg.AI.APIKey)
	assert.Equal(t, 0, cfg.AI.MaxRetries)
	assert.InDelta(t, 0.5, cfg.AI.Temperature, 0.0001)
	assert.Equal(t, "standard", cfg.Analysis.DefaultProfile)
	assert.Equal(t, 7, cfg.Analysis.MaxRecommendations)
	assert.Equal(t, 100, cfg.Analysis.RecommendationMaxLen)
	assert.Equal(t, 2000, cfg.Analysis.ResumeTextLimit)
	assert.True(t, cfg.Analysis.SummaryEnabled)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Server.TLS.Enabled())
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	promptPath := writeFile(t, dir, "skills.txt", "  你是一名技能评估专家。  \n")
	path := writeFile(t, dir, "config.yaml", `
ai:
  model: gemini-2.5-pro
  experts:
    skills:
      model: gemini-2.5-flash
      temperature: 0.2
      systemPromptFile: `+promptPath+`
analysis:
  maxRecommendations: 5
server:
  rateLimit:
    enabled: true
`)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("RESUMEPANEL_AI_APIKEY", "prefixed-key")
	t.Setenv("RESUMEPANEL_SERVER_PORT", "9191")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "prefixed-key", cfg.AI.APIKey)
	assert.Equal(t, "9191", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Analysis.MaxRecommendations)
	assert.True(t, cfg.Server.RateLimit.Enabled)

	skills := cfg.GetExpertConfig(types.DimensionSkills)
	assert.Equal(t, "gemini-2.5-flash", skills.Model)
	require.NotNil(t, skills.Temperature)
	assert.InDelta(t, 0.2, *skills.Temperature, 0.0001)
	assert.Equal(t, "prefixed-key", skills.APIKey)
	assert.Equal(t, "你是一名技能评估专家。", skills.SystemPrompt)

	education := cfg.GetExpertConfig(types.DimensionEducation)
	assert.Equal(t, "gemini-2.5-pro", education.Model)
	assert.Empty(t, education.SystemPrompt)
}

func TestLoadConfigFromMissingFile(t *testing.T) {
	_, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestOperationDefaults(t *testing.T) {
	timeout := 10 * time.Second
	retries := 2
	cfg := &Config{
		AI: AIConfig{
			Provider:         "gemini",
			Model:            "gemini-2.0-flash",
			Timeout:          time.Minute,
			APIKey:           "global",
			Temperature:      0.5,
			UseSystemPrompts: true,
			JSONResponse:     true,
			CircuitBreaker:   CircuitBreakerConfig{Enabled: true, MaxRequests: 3},
			Experts: map[string]OperationAIConfig{
				"Soft-Skills": {Timeout: &timeout, MaxRetries: &retries},
			},
		},
	}

	soft := cfg.GetExpertConfig(types.DimensionSoftSkills)
	assert.Equal(t, timeout, *soft.Timeout)
	assert.Equal(t, 2, *soft.MaxRetries)
	assert.Equal(t, "global", soft.APIKey)
	assert.True(t, *soft.JSONResponse)
	require.NotNil(t, soft.CircuitBreaker)
	assert.Equal(t, uint32(3), soft.CircuitBreaker.MaxRequests)

	summary := cfg.GetSummaryConfig()
	assert.Equal(t, time.Minute, *summary.Timeout)
	assert.Equal(t, "gemini-2.0-flash", summary.Model)
}

func validConfig() *Config {
	return &Config{
		AI: AIConfig{Provider: "gemini", Model: "gemini-2.0-flash", Timeout: time.Minute, Temperature: 0.5},
		Analysis: AnalysisConfig{
			DefaultProfile:       "standard",
			MaxRecommendations:   7,
			RecommendationMaxLen: 100,
		},
		Server:        ServerConfig{Port: "8080"},
		App:           AppConfig{LogLevel: "info", DefaultFormat: "json", SupportedFormats: []string{"json", "text", "markdown"}},
		Observability: ObservabilityConfig{SampleRate: 1},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "provider", mutate: func(c *Config) { c.AI.Provider = "openai" }, wantErr: "unsupported AI provider"},
		{name: "temperature", mutate: func(c *Config) { c.AI.Temperature = 3 }, wantErr: "temperature"},
		{name: "unknown profile", mutate: func(c *Config) { c.Analysis.DefaultProfile = "nope" }, wantErr: "unknown default weight profile"},
		{name: "recommendations", mutate: func(c *Config) { c.Analysis.MaxRecommendations = 0 }, wantErr: "maxRecommendations"},
		{name: "port", mutate: func(c *Config) { c.Server.Port = "http" }, wantErr: "invalid server port"},
		{name: "tls half", mutate: func(c *Config) { c.Server.TLS.CertFile = "cert.pem" }, wantErr: "both certFile and keyFile"},
		{name: "rate limit", mutate: func(c *Config) { c.Server.RateLimit.Enabled = true }, wantErr: "rate limit"},
		{name: "log level", mutate: func(c *Config) { c.App.LogLevel = "verbose" }, wantErr: "invalid log level"},
		{name: "format", mutate: func(c *Config) { c.App.DefaultFormat = "html" }, wantErr: "invalid default format"},
		{
			name: "unknown expert",
			mutate: func(c *Config) {
				c.AI.Experts = map[string]OperationAIConfig{"charisma": {}}
			},
			wantErr: "unknown expert",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadPromptFromFile(t *testing.T) {
	dir := t.TempDir()

	_, err := loadPromptFromFile(writeFile(t, dir, "empty.txt", "  \n"), "summary")
	assert.ErrorContains(t, err, "is empty")

	_, err = loadPromptFromFile(filepath.Join(dir, "missing.txt"), "summary")
	assert.ErrorContains(t, err, "not found")
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitAndTrim(" a, ,b ,"))
	assert.Empty(t, SplitAndTrim(""))
}
