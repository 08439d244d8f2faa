package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeAI         ErrorType = "ai"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeGateway    ErrorType = "gateway"
	ErrorTypeExtraction ErrorType = "extraction"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    typ,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error constructors for different types
func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, code, message, cause)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

func NewAIError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeAI, code, message, cause)
}

func NewNetworkError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// GatewayKind categorises a failed language model call.
type GatewayKind string

const (
	GatewayAuthentication GatewayKind = "authentication"
	GatewayRateLimit      GatewayKind = "rate_limit"
	GatewayTimeout        GatewayKind = "timeout"
	GatewayTransport      GatewayKind = "transport"
	GatewayUnavailable    GatewayKind = "unavailable"
	GatewayEmptyResponse  GatewayKind = "empty_response"
)

// GatewayError is returned by the language model gateway. Callers in the
// analysis path treat every kind the same way.
type GatewayError struct {
	Kind  GatewayKind
	Op    string
	Cause error
}

func NewGatewayError(kind GatewayKind, op string, cause error) *GatewayError {
	return &GatewayError{Kind: kind, Op: op, Cause: cause}
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gateway %s (%s): %v", e.Kind, e.Op, e.Cause)
	}
	return fmt.Sprintf("gateway %s (%s)", e.Kind, e.Op)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// MalformedResponseMaxPrefix bounds the text kept for diagnostics.
const MalformedResponseMaxPrefix = 500

// MalformedResponseError means no extraction stage could recover an object.
type MalformedResponseError struct {
	Prefix string
	Cause  error
}

func NewMalformedResponseError(raw string, cause error) *MalformedResponseError {
	prefix := raw
	if r := []rune(raw); len(r) > MalformedResponseMaxPrefix {
		prefix = string(r[:MalformedResponseMaxPrefix])
	}
	return &MalformedResponseError{Prefix: prefix, Cause: cause}
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %q", e.Prefix)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// IsGatewayKind reports whether err wraps a GatewayError of the given kind.
func IsGatewayKind(err error, kind GatewayKind) bool {
	var gwErr *GatewayError
	if stderrors.As(err, &gwErr) {
		return gwErr.Kind == kind
	}
	return false
}

// Logger wraps slog with application-specific methods
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a new structured logger
func NewLogger(level slog.Level) *Logger {
	return NewLoggerWithWriter(os.Stdout, level)
}

func NewLoggerWithWriter(w io.Writer, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(w, opts)
	return &Logger{logger: slog.New(handler)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewLoggerWithWriter(io.Discard, slog.LevelError)
}

// LogError logs an application error with appropriate level and context
func (l *Logger) LogError(err error, message string, args ...any) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		logArgs := []any{
			"error_type", appErr.Type,
			"error_code", appErr.Code,
			"error_message", appErr.Message,
		}

		for key, value := range appErr.Context {
			logArgs = append(logArgs, key, value)
		}
		if appErr.Cause != nil {
			logArgs = append(logArgs, "cause", appErr.Cause.Error())
		}

		logArgs = append(logArgs, args...)
		l.logger.Error(message, logArgs...)
		return
	}

	var gwErr *GatewayError
	if stderrors.As(err, &gwErr) {
		logArgs := append([]any{"error", err.Error(), "gateway_kind", gwErr.Kind}, args...)
		l.logger.Error(message, logArgs...)
		return
	}

	logArgs := append([]any{"error", err.Error()}, args...)
	l.logger.Error(message, logArgs...)
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

// DebugContext is used on hot paths so trace handlers can pick up the span.
func (l *Logger) DebugContext(ctx context.Context, message string, args ...any) {
	l.logger.DebugContext(ctx, message, args...)
}

// With returns a logger carrying the given attributes on every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// New creates a new logger instance
func New(level string) (*Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	return NewLogger(slogLevel), nil
}

// Common error codes
const (
	ErrCodeFileNotFound       = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable    = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat      = "INVALID_FORMAT"
	ErrCodeAIServiceFailed    = "AI_SERVICE_FAILED"
	ErrCodeAITimeout          = "AI_TIMEOUT"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeMissingAPIKey      = "MISSING_API_KEY"
	ErrCodeNetworkTimeout     = "NETWORK_TIMEOUT"
	ErrCodeInvalidConfig      = "INVALID_CONFIG"
	ErrCodeInvalidProfile     = "INVALID_PROFILE"
	ErrCodeUnknownDimension   = "UNKNOWN_DIMENSION"
	ErrCodeMissingResume      = "MISSING_RESUME"
	ErrCodeUnsupportedFormat  = "UNSUPPORTED_FORMAT"
	ErrCodeDocumentExtraction = "DOCUMENT_EXTRACTION_FAILED"
)
