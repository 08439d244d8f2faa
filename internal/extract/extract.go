// Package extract recovers a JSON object from free-form model output.
//
// Stages run in order and the first one that yields an object wins:
// direct parse, fenced code block, brace span, then textual repairs
// applied to each earlier candidate.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	apperrors "resumepanel/internal/errors"
)

// Object is a decoded JSON object.
type Object = map[string]any

// Stage is one step of the extraction chain.
type Stage interface {
	Name() string
	Extract(text string) (Object, bool)
}

// Extractor runs its stages in order.
type Extractor struct {
	stages []Stage
}

// New builds an extractor from explicit stages.
func New(stages ...Stage) *Extractor {
	return &Extractor{stages: stages}
}

// Default returns the standard four-stage chain.
func Default() *Extractor {
	return New(DirectStage{}, FencedStage{}, BraceSpanStage{}, RepairStage{})
}

// Extract returns the first object any stage recovers, or a
// MalformedResponseError once every stage has failed.
func (e *Extractor) Extract(raw string) (Object, error) {
	obj, _, err := e.ExtractWithStage(raw)
	return obj, err
}

// ExtractWithStage also reports which stage succeeded.
func (e *Extractor) ExtractWithStage(raw string) (Object, string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, "", apperrors.NewMalformedResponseError(raw, fmt.Errorf("empty response"))
	}
	for _, stage := range e.stages {
		if obj, ok := stage.Extract(raw); ok {
			return obj, stage.Name(), nil
		}
	}
	return nil, "", apperrors.NewMalformedResponseError(raw, fmt.Errorf("no extraction stage produced an object"))
}

func parseObject(s string) (Object, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var obj Object
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// DirectStage parses the whole text.
type DirectStage struct{}

func (DirectStage) Name() string { return "direct" }

func (DirectStage) Extract(text string) (Object, bool) {
	return parseObject(text)
}

var (
	jsonFence    = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	genericFence = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*```")
)

// fencedBodies returns fenced block contents, language-tagged json blocks first.
func fencedBodies(text string) []string {
	var bodies []string
	for _, re := range []*regexp.Regexp{jsonFence, genericFence} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			bodies = append(bodies, m[1])
		}
	}
	return bodies
}

// FencedStage parses the body of a markdown code fence.
type FencedStage struct{}

func (FencedStage) Name() string { return "fenced" }

func (FencedStage) Extract(text string) (Object, bool) {
	for _, body := range fencedBodies(text) {
		if obj, ok := parseObject(body); ok {
			return obj, true
		}
	}
	return nil, false
}

// braceSpans returns the first-to-last brace span, then the first
// balanced object when it differs.
func braceSpans(text string) []string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil
	}
	spans := []string{text[start : end+1]}

	level := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				if i != end {
					spans = append(spans, text[start:i+1])
				}
				return spans
			}
		}
	}
	return spans
}

// BraceSpanStage parses the text between the outermost braces.
type BraceSpanStage struct{}

func (BraceSpanStage) Name() string { return "brace_span" }

func (BraceSpanStage) Extract(text string) (Object, bool) {
	for _, span := range braceSpans(text) {
		if obj, ok := parseObject(span); ok {
			return obj, true
		}
	}
	return nil, false
}

// Repair applies the cosmetic fixes models most often need: comments
// removed, single-quoted strings turned into double-quoted ones, trailing
// commas dropped. Content of double-quoted strings is never touched.
func Repair(s string) string {
	return dropTrailingCommas(normalizeQuotesAndComments(s))
}

// normalizeQuotesAndComments strips // and /* */ comments outside strings
// and rewrites 'single-quoted' strings as JSON strings.
func normalizeQuotesAndComments(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == '"':
			end := stringEnd(s, i, '"')
			sb.WriteString(s[i:end])
			i = end
		case c == '\'':
			end := stringEnd(s, i, '\'')
			if end-i < 2 || s[end-1] != '\'' {
				// Unterminated: a stray apostrophe, keep the rest as is.
				sb.WriteString(s[i:])
				return sb.String()
			}
			sb.WriteByte('"')
			writeRequoted(&sb, s[i+1:end-1])
			sb.WriteByte('"')
			i = end
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			nl := strings.IndexByte(s[i:], '\n')
			if nl == -1 {
				return sb.String()
			}
			i += nl
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			closing := strings.Index(s[i+2:], "*/")
			if closing == -1 {
				return sb.String()
			}
			i += closing + 4
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// stringEnd returns the index just past the string literal opening at
// start, honouring backslash escapes. An unterminated literal runs to the
// end of s.
func stringEnd(s string, start int, quote byte) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(s)
}

// writeRequoted writes the body of a single-quoted literal as the body of
// a double-quoted one.
func writeRequoted(sb *strings.Builder, body string) {
	for i := 0; i < len(body); i++ {
		switch c := body[i]; c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			if i+1 < len(body) && body[i+1] == '\'' {
				sb.WriteByte('\'')
				i++
				continue
			}
			sb.WriteByte(c)
			if i+1 < len(body) {
				sb.WriteByte(body[i+1])
				i++
			}
		default:
			sb.WriteByte(c)
		}
	}
}

// dropTrailingCommas removes a comma, and the whitespace after it, when the
// next token closes an object or array.
func dropTrailingCommas(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c == '"' {
			end := stringEnd(s, i, '"')
			sb.WriteString(s[i:end])
			i = end
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && strings.IndexByte(" \t\r\n", s[j]) >= 0 {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				i = j
				continue
			}
		}
		sb.WriteByte(c)
		i++
	}
	return sb.String()
}

// RepairStage repairs each earlier candidate (fence bodies, brace spans,
// whole text) and parses the result.
type RepairStage struct{}

func (RepairStage) Name() string { return "repair" }

func (RepairStage) Extract(text string) (Object, bool) {
	candidates := fencedBodies(text)
	candidates = append(candidates, braceSpans(text)...)
	candidates = append(candidates, braceSpans(Repair(text))...)
	candidates = append(candidates, text)
	for _, c := range candidates {
		if obj, ok := parseObject(Repair(c)); ok {
			return obj, true
		}
	}
	return nil, false
}
