package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"resumepanel/internal/config"
	"resumepanel/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

type fakeModels struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	calls    int
	lastCfg  *genai.GenerateContentConfig
	model    *genai.Model
	modelErr error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	f.lastCfg = cfg
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	text := ""
	if i < len(f.replies) {
		text = f.replies[i]
	} else if len(f.replies) > 0 {
		text = f.replies[len(f.replies)-1]
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(text, genai.RoleModel)}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 8,
			TotalTokenCount:      20,
		},
	}, nil
}

func (f *fakeModels) Get(ctx context.Context, model string, cfg *genai.GetModelConfig) (*genai.Model, error) {
	return f.model, f.modelErr
}

func ptr[T any](v T) *T { return &v }

func testOpConfig() config.OperationAIConfig {
	return config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "gemini-test",
		Timeout:          ptr(5 * time.Second),
		MaxRetries:       ptr(0),
		Temperature:      ptr(float32(0.5)),
		UseSystemPrompts: ptr(true),
		JSONResponse:     ptr(true),
	}
}

func TestInvokeReturnsText(t *testing.T) {
	models := &fakeModels{replies: []string{`{"score": 80}`}}
	gw := newGeminiGateway(models, testOpConfig(), "skills", nil)

	text, usage, err := gw.Invoke(context.Background(), "评估", Params{System: "你是专家", JSONResponse: true})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if text != `{"score": 80}` {
		t.Errorf("text = %q", text)
	}
	if usage == nil || usage.TotalTokens != 20 {
		t.Errorf("usage = %+v, want total 20", usage)
	}
	if models.lastCfg.ResponseMIMEType != "application/json" {
		t.Errorf("ResponseMIMEType = %q", models.lastCfg.ResponseMIMEType)
	}
	if models.lastCfg.SystemInstruction == nil {
		t.Error("expected system instruction to be set")
	}
}

func TestBuildConfig(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(c *config.OperationAIConfig)
		params     Params
		wantTemp   float32
		wantJSON   bool
		wantSystem bool
	}{
		{
			name:       "params temperature wins over configured",
			mutate:     func(c *config.OperationAIConfig) {},
			params:     Params{Temperature: ptr(float32(0.7)), System: "sys", JSONResponse: true},
			wantTemp:   0.7,
			wantJSON:   true,
			wantSystem: true,
		},
		{
			name:     "configured temperature applies when params leave it unset",
			mutate:   func(c *config.OperationAIConfig) { c.Temperature = ptr(float32(0.2)) },
			params:   Params{},
			wantTemp: 0.2,
		},
		{
			name: "json disabled by operation",
			mutate: func(c *config.OperationAIConfig) {
				c.JSONResponse = ptr(false)
			},
			params:     Params{JSONResponse: true, System: "sys"},
			wantTemp:   0.5,
			wantSystem: true,
		},
		{
			name:     "system prompts disabled",
			mutate:   func(c *config.OperationAIConfig) { c.UseSystemPrompts = ptr(false) },
			params:   Params{System: "sys"},
			wantTemp: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testOpConfig()
			tt.mutate(&cfg)
			gw := newGeminiGateway(&fakeModels{}, cfg, "op", nil)
			got, preamble := gw.buildConfig(tt.params)

			if got.Temperature == nil || *got.Temperature != tt.wantTemp {
				t.Errorf("Temperature = %v, want %v", got.Temperature, tt.wantTemp)
			}
			if (got.ResponseMIMEType == "application/json") != tt.wantJSON {
				t.Errorf("ResponseMIMEType = %q, want json %t", got.ResponseMIMEType, tt.wantJSON)
			}
			if (got.SystemInstruction != nil) != tt.wantSystem {
				t.Errorf("SystemInstruction set = %t, want %t", got.SystemInstruction != nil, tt.wantSystem)
			}
			if tt.params.System != "" && !tt.wantSystem && preamble != tt.params.System {
				t.Errorf("preamble = %q, want the system text inlined", preamble)
			}
		})
	}
}

func TestConfiguredSystemPromptOverridesParams(t *testing.T) {
	cfg := testOpConfig()
	cfg.SystemPrompt = "custom"
	gw := newGeminiGateway(&fakeModels{}, cfg, "op", nil)

	got, _ := gw.buildConfig(Params{System: "built-in"})
	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "custom" {
		t.Errorf("SystemInstruction = %+v, want custom prompt", got.SystemInstruction)
	}
}

func TestInvokeEmptyResponse(t *testing.T) {
	gw := newGeminiGateway(&fakeModels{replies: []string{"   "}}, testOpConfig(), "education", nil)

	_, _, err := gw.Invoke(context.Background(), "p", Params{})
	if !errors.IsGatewayKind(err, errors.GatewayEmptyResponse) {
		t.Fatalf("err = %v, want empty_response", err)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

type refusedErr struct{}

func (refusedErr) Error() string   { return "connection refused" }
func (refusedErr) Timeout() bool   { return false }
func (refusedErr) Temporary() bool { return false }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.GatewayKind
	}{
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, errors.GatewayAuthentication},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, errors.GatewayAuthentication},
		{"rate limited", &googleapi.Error{Code: http.StatusTooManyRequests}, errors.GatewayRateLimit},
		{"gateway timeout", &googleapi.Error{Code: http.StatusGatewayTimeout}, errors.GatewayTimeout},
		{"server error", &googleapi.Error{Code: http.StatusInternalServerError}, errors.GatewayTransport},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), errors.GatewayTimeout},
		{"net timeout", timeoutErr{}, errors.GatewayTimeout},
		{"net refused", refusedErr{}, errors.GatewayTransport},
		{"breaker open", gobreaker.ErrOpenState, errors.GatewayUnavailable},
		{"half open limit", gobreaker.ErrTooManyRequests, errors.GatewayUnavailable},
		{"unknown", stderrors.New("boom"), errors.GatewayTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("skills", tt.err)
			if got.Kind != tt.want {
				t.Errorf("classify() kind = %s, want %s", got.Kind, tt.want)
			}
			if got.Op != "skills" {
				t.Errorf("classify() op = %s, want skills", got.Op)
			}
		})
	}
}

func TestInvokeNoRetryByDefault(t *testing.T) {
	models := &fakeModels{errs: []error{&googleapi.Error{Code: http.StatusServiceUnavailable}}, replies: []string{"", "ok"}}
	gw := newGeminiGateway(models, testOpConfig(), "experience", nil)

	_, _, err := gw.Invoke(context.Background(), "p", Params{})
	if !errors.IsGatewayKind(err, errors.GatewayTransport) {
		t.Fatalf("err = %v, want transport", err)
	}
	if models.calls != 1 {
		t.Errorf("calls = %d, want 1", models.calls)
	}
}

func TestInvokeRetriesRetryableErrors(t *testing.T) {
	cfg := testOpConfig()
	cfg.MaxRetries = ptr(1)
	models := &fakeModels{errs: []error{&googleapi.Error{Code: http.StatusTooManyRequests}}, replies: []string{"", "recovered"}}
	gw := newGeminiGateway(models, cfg, "experience", nil)

	text, _, err := gw.Invoke(context.Background(), "p", Params{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if text != "recovered" || models.calls != 2 {
		t.Errorf("text = %q calls = %d, want recovered after 2 calls", text, models.calls)
	}
}

func TestInvokeAuthNotRetried(t *testing.T) {
	cfg := testOpConfig()
	cfg.MaxRetries = ptr(3)
	models := &fakeModels{errs: []error{&googleapi.Error{Code: http.StatusUnauthorized}}}
	gw := newGeminiGateway(models, cfg, "skills", nil)

	_, _, err := gw.Invoke(context.Background(), "p", Params{})
	if !errors.IsGatewayKind(err, errors.GatewayAuthentication) {
		t.Fatalf("err = %v, want authentication", err)
	}
	if models.calls != 1 {
		t.Errorf("calls = %d, want 1", models.calls)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	cfg := testOpConfig()
	cfg.CircuitBreaker = &config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}
	failures := []error{stderrors.New("a"), stderrors.New("b"), stderrors.New("c")}
	models := &fakeModels{errs: failures}
	gw := newGeminiGateway(models, cfg, "stability", nil)

	for range 2 {
		_, _, _ = gw.Invoke(context.Background(), "p", Params{})
	}
	_, _, err := gw.Invoke(context.Background(), "p", Params{})
	if !errors.IsGatewayKind(err, errors.GatewayUnavailable) {
		t.Fatalf("err = %v, want unavailable once the breaker opens", err)
	}
	if models.calls != 2 {
		t.Errorf("calls = %d, want 2", models.calls)
	}
	if gw.circuitBreaker.IsHealthy() {
		t.Error("breaker should report unhealthy when open")
	}
}

func TestGetModelInfo(t *testing.T) {
	gw := newGeminiGateway(&fakeModels{model: &genai.Model{DisplayName: "Gemini Test", Version: "001"}}, testOpConfig(), "summary", nil)
	info := gw.GetModelInfo(context.Background())
	if !info.Available || info.DisplayName != "Gemini Test" || info.Version != "001" {
		t.Errorf("GetModelInfo() = %+v", info)
	}

	gw = newGeminiGateway(&fakeModels{modelErr: stderrors.New("not found")}, testOpConfig(), "summary", nil)
	info = gw.GetModelInfo(context.Background())
	if info.Available || info.Error == "" {
		t.Errorf("GetModelInfo() = %+v, want unavailable with error", info)
	}
}

func TestNewGeminiGatewayRequiresKey(t *testing.T) {
	_, err := NewGeminiGateway(testOpConfig(), "skills", nil)
	if err == nil {
		t.Fatal("expected error without API key")
	}
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeMissingAPIKey {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeMissingAPIKey)
	}
}

func TestExtractTokenUsage(t *testing.T) {
	if extractTokenUsage(nil) != nil {
		t.Error("nil response should yield nil usage")
	}
	if extractTokenUsage(&genai.GenerateContentResponse{}) != nil {
		t.Error("missing metadata should yield nil usage")
	}
}
