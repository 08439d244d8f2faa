package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resumepanel/internal/config"
	"resumepanel/internal/coordinator"
	"resumepanel/internal/experts"
	"resumepanel/internal/llm"
	"resumepanel/internal/llm/llmtest"
	"resumepanel/internal/types"
	"resumepanel/internal/weights"
)

const resumeBody = `{"resume": {"extracted_text": "张三，5年Go开发经验"}, "job_requirements": {"title": "后端工程师"}}`

type fakeHealth struct {
	available bool
}

func (f fakeHealth) ModelInfo(_ context.Context) map[string]*llm.ModelInfo {
	return map[string]*llm.ModelInfo{"skills": {Name: "gemini-test", Available: f.available}}
}

func (f fakeHealth) Stats() map[string]any {
	return map[string]any{"skills": map[string]any{"state": "closed"}}
}

func newTestServer(t *testing.T, cfg ServerConfig, health HealthSource) *Server {
	t.Helper()
	set := &llm.Set{Experts: map[types.Dimension]llm.Gateway{}}
	for _, d := range types.AllDimensions {
		set.Experts[d] = &llmtest.Gateway{Reply: `{"score": 80, "score_reason": "匹配"}`}
	}
	engine := coordinator.New(experts.NewAll(set), nil, weights.NewRegistry(), coordinator.WithSummary(false))
	return NewServer(cfg, Deps{Engine: engine, Health: health}, nil)
}

func do(t *testing.T, h http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	h := newTestServer(t, ServerConfig{}, nil).Handler()

	rec := do(t, h, http.MethodPost, "/analyze", resumeBody, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got types.AggregateResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.OverallScore != 80 || got.Profile != weights.Standard || got.DimensionCount != 7 {
		t.Errorf("got overall=%d profile=%q dims=%d", got.OverallScore, got.Profile, got.DimensionCount)
	}

	rec = do(t, h, http.MethodPost, "/analyze?format=markdown", resumeBody, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("markdown status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "综合评分: **80/100**") {
		t.Errorf("markdown report missing overall score:\n%s", rec.Body.String())
	}
}

func TestAnalyzeValidation(t *testing.T) {
	h := newTestServer(t, ServerConfig{MaxRequestSize: 256}, nil).Handler()

	tests := []struct {
		name   string
		target string
		body   string
		header map[string]string
		status int
		code   string
	}{
		{"empty resume", "/analyze", `{"resume": {}}`, nil, http.StatusBadRequest, "MISSING_RESUME"},
		{"bad json", "/analyze", `{"resume":`, nil, http.StatusBadRequest, "INVALID_REQUEST"},
		{"wrong content type", "/analyze", resumeBody, map[string]string{"Content-Type": "text/plain"}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unsupported format", "/analyze?format=xml", resumeBody, nil, http.StatusBadRequest, "UNSUPPORTED_FORMAT"},
		{"body too large", "/analyze", `{"resume": {"extracted_text": "` + strings.Repeat("x", 300) + `"}}`, nil, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown dimension", "/analyze/charisma", resumeBody, nil, http.StatusNotFound, "UNKNOWN_DIMENSION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.target, tt.body, tt.header)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestAnalyzeDimensionEndpoint(t *testing.T) {
	h := newTestServer(t, ServerConfig{}, nil).Handler()

	rec := do(t, h, http.MethodPost, "/analyze/soft_skills", resumeBody, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got types.ExpertResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Dimension != types.DimensionSoftSkills || got.Score != 80 || got.ScoreReason != "匹配" {
		t.Errorf("got %+v", got)
	}
}

func TestRouteEndpoint(t *testing.T) {
	h := newTestServer(t, ServerConfig{}, nil).Handler()

	tests := []struct {
		name       string
		body       string
		intent     types.Intent
		invoke     bool
		wantResult bool
	}{
		{
			name:       "education with resume",
			body:       `{"message": "请分析教育背景", "resume": {"extracted_text": "清华大学 计算机"}}`,
			intent:     types.IntentEducation,
			invoke:     true,
			wantResult: true,
		},
		{
			name:   "education without resume",
			body:   `{"message": "请分析教育背景"}`,
			intent: types.IntentEducation,
			invoke: true,
		},
		{
			name:   "small talk",
			body:   `{"message": "hello there", "resume": {"extracted_text": "x"}}`,
			intent: types.IntentGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/route", tt.body, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			var got RouteResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Intent != tt.intent || got.ShouldInvoke != tt.invoke {
				t.Errorf("intent=%q invoke=%v, want %q %v", got.Intent, got.ShouldInvoke, tt.intent, tt.invoke)
			}
			if (got.Result != nil) != tt.wantResult {
				t.Errorf("result present = %v, want %v", got.Result != nil, tt.wantResult)
			}
			if tt.wantResult && got.Report == "" {
				t.Error("expected a rendered report")
			}
		})
	}

	if rec := do(t, h, http.MethodPost, "/route", `{"message": "  "}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("blank message status = %d", rec.Code)
	}
}

func TestProfilesEndpoint(t *testing.T) {
	h := newTestServer(t, ServerConfig{}, nil).Handler()

	rec := do(t, h, http.MethodGet, "/profiles", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got ProfilesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Default != weights.Standard {
		t.Errorf("default = %q", got.Default)
	}
	if w := got.Profiles[weights.Standard]["skills"]; w != 20 {
		t.Errorf("standard skills weight = %v, want 20", w)
	}

	rec = do(t, h, http.MethodGet, "/profiles?format=markdown", "", nil)
	if !strings.Contains(rec.Body.String(), "| standard | 20 | 20 | 15 | 15 | 15 | 10 | 5 |") {
		t.Errorf("markdown table missing standard row:\n%s", rec.Body.String())
	}
}

func TestAuthMiddleware(t *testing.T) {
	h := newTestServer(t, ServerConfig{APIKeys: []string{"secret-key-123"}}, nil).Handler()

	tests := []struct {
		name   string
		header map[string]string
		status int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"invalid key", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header key", map[string]string{"X-API-Key": "secret-key-123"}, http.StatusOK},
		{"bearer token", map[string]string{"Authorization": "Bearer secret-key-123"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, h, http.MethodGet, "/profiles", "", tt.header); rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}

	// health stays public
	if rec := do(t, h, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Errorf("/health status = %d", rec.Code)
	}
}

func TestSetAPIKeysRotates(t *testing.T) {
	s := newTestServer(t, ServerConfig{APIKeys: []string{"old"}}, nil)
	h := s.Handler()

	s.SetAPIKeys([]string{"new"})
	if rec := do(t, h, http.MethodGet, "/profiles", "", map[string]string{"X-API-Key": "old"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("old key status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/profiles", "", map[string]string{"X-API-Key": "new"}); rec.Code != http.StatusOK {
		t.Errorf("new key status = %d", rec.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer(t, ServerConfig{RateLimit: &config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 1,
		BurstCapacity:  2,
		ByIP:           true,
	}}, nil)
	defer s.RateLimiter.Close()
	h := s.Handler()

	var codes []int
	for range 3 {
		codes = append(codes, do(t, h, http.MethodGet, "/profiles", "", nil).Code)
	}
	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i, codes[i], want[i])
		}
	}
	if got := s.RateLimiter.GetStats()["rejected_requests"]; got != int64(1) {
		t.Errorf("rejected_requests = %v, want 1", got)
	}
}

func TestHealthAndStats(t *testing.T) {
	tests := []struct {
		name      string
		available bool
		status    int
		want      string
	}{
		{"healthy", true, http.StatusOK, "healthy"},
		{"model unavailable", false, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, ServerConfig{}, fakeHealth{available: tt.available}).Handler()
			rec := do(t, h, http.MethodGet, "/health", "", nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["status"] != tt.want {
				t.Errorf("status field = %v, want %s", body["status"], tt.want)
			}
		})
	}

	h := newTestServer(t, ServerConfig{}, fakeHealth{available: true}).Handler()
	rec := do(t, h, http.MethodGet, "/stats", "", nil)
	var stats map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"circuit_breakers", "rate_limiting", "weight_profiles"} {
		if _, ok := stats[key]; !ok {
			t.Errorf("stats missing %q", key)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "10.0.0.1:1234", nil, "10.0.0.1"},
		{"forwarded for", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "bogus, 203.0.113.7"}, "203.0.113.7"},
		{"real ip", "10.0.0.1:1234", map[string]string{"X-Real-IP": "198.51.100.2"}, "198.51.100.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
