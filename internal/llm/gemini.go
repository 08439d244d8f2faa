package llm

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"resumepanel/internal/config"
	"resumepanel/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

// modelsAPI is the part of genai.Models the gateway calls.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// GeminiGateway implements Gateway for Google Gemini. Each analysis
// operation gets its own instance and breaker.
type GeminiGateway struct {
	models         modelsAPI
	op             string
	config         config.OperationAIConfig
	circuitBreaker *CircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	modelCheck     time.Duration
	logger         *errors.Logger
}

var (
	_ Gateway        = (*GeminiGateway)(nil)
	_ HealthReporter = (*GeminiGateway)(nil)
)

// NewGeminiGateway creates a gateway for one operation from its resolved
// configuration.
func NewGeminiGateway(cfg config.OperationAIConfig, op string, logger *errors.Logger) (*GeminiGateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"Gemini API key is required (set GEMINI_API_KEY or RESUMEPANEL_AI_APIKEY)", nil)
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to create Gemini client", err)
	}
	return newGeminiGateway(client.Models, cfg, op, logger), nil
}

func newGeminiGateway(models modelsAPI, cfg config.OperationAIConfig, op string, logger *errors.Logger) *GeminiGateway {
	if logger == nil {
		logger = errors.Discard()
	}
	return &GeminiGateway{
		models:         models,
		op:             op,
		config:         cfg,
		circuitBreaker: NewCircuitBreaker(op, cfg.CircuitBreaker, logger),
		modelBreaker:   NewModelCircuitBreaker(op, cfg.CircuitBreaker, logger),
		modelCheck:     10 * time.Second,
		logger:         logger.With("operation", op),
	}
}

// SetModelCheckTimeout bounds GetModelInfo.
func (g *GeminiGateway) SetModelCheckTimeout(d time.Duration) {
	if d > 0 {
		g.modelCheck = d
	}
}

// Invoke sends the prompt inside a span and the operation's breaker.
func (g *GeminiGateway) Invoke(ctx context.Context, prompt string, params Params) (string, *TokenUsage, error) {
	tracer := otel.Tracer("resumepanel.llm")
	ctx, span := tracer.Start(ctx, "llm.invoke")
	defer span.End()

	genCfg, preamble := g.buildConfig(params)
	if preamble != "" {
		prompt = preamble + "\n\n" + prompt
	}
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.operation", g.op),
		attribute.String("ai.model", g.config.Model),
		attribute.Int("input.prompt_length", len(prompt)),
	)
	if genCfg.Temperature != nil {
		span.SetAttributes(attribute.Float64("ai.temperature", float64(*genCfg.Temperature)))
	}

	if g.config.Timeout != nil && *g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *g.config.Timeout)
		defer cancel()
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, func() (*genai.GenerateContentResponse, error) {
			return g.models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), genCfg)
		})
	})
	if err != nil {
		gwErr := classify(g.op, err)
		span.RecordError(gwErr)
		span.SetAttributes(attribute.Bool("success", false), attribute.String("error.kind", string(gwErr.Kind)))
		return "", nil, gwErr
	}

	text := ""
	if result != nil {
		text = result.Text()
	}
	if strings.TrimSpace(text) == "" {
		gwErr := errors.NewGatewayError(errors.GatewayEmptyResponse, g.op, nil)
		span.RecordError(gwErr)
		span.SetAttributes(attribute.Bool("success", false), attribute.String("error.kind", string(gwErr.Kind)))
		return "", nil, gwErr
	}

	usage := extractTokenUsage(result)
	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true), attribute.Int("output.length", len(text)))
	return text, usage, nil
}

// buildConfig resolves the generation settings. When system instructions
// are disabled the system text is returned as a prompt preamble instead.
func (g *GeminiGateway) buildConfig(params Params) (*genai.GenerateContentConfig, string) {
	genCfg := &genai.GenerateContentConfig{}

	temperature := params.Temperature
	if g.config.Temperature != nil && params.Temperature == nil {
		temperature = g.config.Temperature
	}
	if temperature != nil {
		t := *temperature
		genCfg.Temperature = &t
	}

	jsonResponse := params.JSONResponse
	if g.config.JSONResponse != nil && !*g.config.JSONResponse {
		jsonResponse = false
	}
	if jsonResponse {
		genCfg.ResponseMIMEType = "application/json"
	}
	if params.MaxOutputTokens > 0 {
		genCfg.MaxOutputTokens = params.MaxOutputTokens
	}

	system := params.System
	if g.config.SystemPrompt != "" {
		system = g.config.SystemPrompt
	}
	if system == "" {
		return genCfg, ""
	}
	if g.config.UseSystemPrompts != nil && !*g.config.UseSystemPrompts {
		return genCfg, system
	}
	genCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	return genCfg, ""
}

// executeWithRetry executes a call with retry logic and exponential backoff
func (g *GeminiGateway) executeWithRetry(ctx context.Context, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	maxRetries := 0
	if g.config.MaxRetries != nil {
		maxRetries = *g.config.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying model call",
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitter := time.Duration(0)
			if jitterMax := int64(float64(baseDelay) * 0.1); jitterMax > 0 {
				if j, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
					jitter = time.Duration(j.Int64())
				}
			}
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("Model call succeeded after retry", "successful_attempt", attempt+1)
			}
			return result, nil
		}
		lastErr = err
		if !isRetryableError(err) {
			break
		}
	}

	g.logger.LogError(lastErr, "Model call failed", "total_attempts_allowed", maxRetries+1)
	return nil, lastErr
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiGateway) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{Name: g.config.Model}

	checkCtx, cancel := context.WithTimeout(ctx, g.modelCheck)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed", "model", g.config.Model, "error", err.Error())
		return info
	}

	info.Available = true
	if model != nil {
		info.DisplayName = model.DisplayName
		info.Version = model.Version
	}
	return info
}

// Stats returns the breaker state of this gateway.
func (g *GeminiGateway) Stats() map[string]any {
	return map[string]any{
		"operation":       g.op,
		"model":           g.config.Model,
		"ai_operations":   g.circuitBreaker.Stats(),
		"overall_healthy": g.circuitBreaker.IsHealthy() && g.modelBreaker.IsHealthy(),
	}
}

// extractTokenUsage extracts token usage information from a Gemini response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}
	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
