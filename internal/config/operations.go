package config

import (
	"resumepanel/internal/types"
)

// applyOperationDefaults fills unset operation fields from the global AI config.
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
	if opCfg.JSONResponse == nil {
		opCfg.JSONResponse = &c.AI.JSONResponse
	}
	if opCfg.CircuitBreaker == nil {
		cb := c.AI.CircuitBreaker
		opCfg.CircuitBreaker = &cb
	}
}

// GetExpertConfig returns the resolved AI configuration for one dimension.
func (c *Config) GetExpertConfig(d types.Dimension) OperationAIConfig {
	var op OperationAIConfig
	for key, candidate := range c.AI.Experts {
		if parsed, ok := types.ParseDimension(key); ok && parsed == d {
			op = candidate
			break
		}
	}
	c.applyOperationDefaults(&op)
	if content, ok := c.prompts.experts[d]; ok {
		op.SystemPrompt = content
	}
	return op
}

// GetSummaryConfig returns the resolved AI configuration for the
// narrative summary call.
func (c *Config) GetSummaryConfig() OperationAIConfig {
	op := c.AI.Summary
	c.applyOperationDefaults(&op)
	if c.prompts.summary != "" {
		op.SystemPrompt = c.prompts.summary
	}
	return op
}
