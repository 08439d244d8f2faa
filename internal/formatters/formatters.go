package formatters

import (
	"encoding/json"
	"fmt"
	"sort"

	"resumepanel/internal/types"
	"resumepanel/internal/weights"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter(FormatJSON, "any", &JSONFormatter{})
	registry.RegisterFormatter(FormatMarkdown, "AggregateResult", &AggregateFormatter{style: markdownStyle})
	registry.RegisterFormatter(FormatText, "AggregateResult", &AggregateFormatter{style: textStyle})
	registry.RegisterFormatter(FormatMarkdown, "ExpertResult", &ExpertFormatter{style: markdownStyle})
	registry.RegisterFormatter(FormatText, "ExpertResult", &ExpertFormatter{style: textStyle})
	registry.RegisterFormatter(FormatMarkdown, "Profiles", &ProfilesFormatter{style: markdownStyle})
	registry.RegisterFormatter(FormatText, "Profiles", &ProfilesFormatter{style: textStyle})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case *types.AggregateResult, types.AggregateResult:
		return "AggregateResult"
	case *types.ExpertResult, types.ExpertResult:
		return "ExpertResult"
	case []weights.Profile:
		return "Profiles"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// Grade maps a score onto its letter and label.
func Grade(score int) (letter, label string) {
	switch {
	case score >= 90:
		return "A", "优秀"
	case score >= 70:
		return "B", "良好"
	case score >= 50:
		return "C", "一般"
	default:
		return "D", "较差"
	}
}
