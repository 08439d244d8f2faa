package errors

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMalformedResponseErrorTruncatesPrefix(t *testing.T) {
	raw := strings.Repeat("简", 800)
	err := NewMalformedResponseError(raw, nil)

	if got := utf8.RuneCountInString(err.Prefix); got != MalformedResponseMaxPrefix {
		t.Errorf("prefix length = %d, want %d", got, MalformedResponseMaxPrefix)
	}

	short := NewMalformedResponseError("oops", nil)
	if short.Prefix != "oops" {
		t.Errorf("short prefix = %q", short.Prefix)
	}
}

func TestGatewayErrorKind(t *testing.T) {
	base := NewGatewayError(GatewayRateLimit, "expert.skills", context.DeadlineExceeded)
	wrapped := fmt.Errorf("analyze: %w", base)

	tests := []struct {
		name string
		err  error
		kind GatewayKind
		want bool
	}{
		{"direct match", base, GatewayRateLimit, true},
		{"wrapped match", wrapped, GatewayRateLimit, true},
		{"other kind", wrapped, GatewayTimeout, false},
		{"plain error", stderrors.New("x"), GatewayRateLimit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGatewayKind(tt.err, tt.kind); got != tt.want {
				t.Errorf("IsGatewayKind() = %v, want %v", got, tt.want)
			}
		})
	}

	if !stderrors.Is(wrapped, context.DeadlineExceeded) {
		t.Error("gateway error should unwrap to its cause")
	}
}

func TestLogErrorIncludesAppErrorFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)

	err := NewConfigError(ErrCodeInvalidProfile, "weights do not sum to 100", nil).
		WithContext("profile", "junior")
	logger.LogError(fmt.Errorf("load: %w", err), "profile rejected")

	out := buf.String()
	for _, want := range []string{`"error_code":"INVALID_PROFILE"`, `"profile":"junior"`, `"error_type":"config"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New("warn"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
