package server

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"resumepanel/internal/errors"
	"resumepanel/internal/formatters"
	"resumepanel/internal/router"
	"resumepanel/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// requestFormat reads ?format=, defaulting to json.
func (s *Server) requestFormat(r *http.Request) (string, error) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	switch format {
	case "":
		return formatters.FormatJSON, nil
	case "md":
		format = formatters.FormatMarkdown
	}
	if !slices.Contains(s.formatters.GetSupportedFormats(), format) {
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unsupported format %q (supported: %s)", format, strings.Join(s.formatters.GetSupportedFormats(), ", ")), nil)
	}
	return format, nil
}

// readAnalysisRequest parses and validates the input envelope.
func (s *Server) readAnalysisRequest(r *http.Request) (types.AnalysisRequest, error) {
	var req types.AnalysisRequest
	if err := parseJSONRequest(r, &req); err != nil {
		return req, errors.NewValidationError(errors.ErrCodeInvalidRequest, err.Error(), err)
	}
	if req.Resume.IsEmpty() {
		return req, errors.NewValidationError(errors.ErrCodeMissingResume, "resume must carry extracted_text or structured sections", nil)
	}
	req.Resume = router.PrepareResume(req.Resume)
	return req, nil
}

// analyzeHandler runs all seven experts: POST /analyze.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.observability.Tracer("resumepanel.api").Start(r.Context(), "api.analyze")
	defer span.End()

	format, err := s.requestFormat(r)
	if err != nil {
		span.RecordError(err)
		writeAppError(w, err, http.StatusBadRequest)
		return
	}
	req, err := s.readAnalysisRequest(r)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeAppError(w, err, http.StatusBadRequest)
		return
	}

	span.SetAttributes(
		attribute.String("request.profile", req.WeightProfileName),
		attribute.Bool("request.has_job", !req.JobRequirements.IsEmpty()),
		attribute.String("request.format", format),
	)

	result := s.engine.AnalyzeRequest(ctx, req)

	span.SetAttributes(
		attribute.Int("response.overall_score", result.OverallScore),
		attribute.Int("response.degraded", len(result.DegradedDimensions)),
	)
	s.writeFormatted(w, result, format)
}

// analyzeDimensionHandler runs one expert: POST /analyze/{dimension}.
func (s *Server) analyzeDimensionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.observability.Tracer("resumepanel.api").Start(r.Context(), "api.analyze_dimension")
	defer span.End()

	raw := r.PathValue("dimension")
	d, ok := types.ParseDimension(raw)
	if !ok {
		err := errors.NewValidationError(errors.ErrCodeUnknownDimension, fmt.Sprintf("unknown dimension %q", raw), nil)
		span.RecordError(err)
		writeAppError(w, err, http.StatusNotFound)
		return
	}
	span.SetAttributes(attribute.String("request.dimension", string(d)))

	format, err := s.requestFormat(r)
	if err != nil {
		writeAppError(w, err, http.StatusBadRequest)
		return
	}
	req, err := s.readAnalysisRequest(r)
	if err != nil {
		span.RecordError(err)
		writeAppError(w, err, http.StatusBadRequest)
		return
	}

	actx := types.NewAnalysisContext(req.Resume, req.JobRequirements)
	result, err := s.engine.AnalyzeDimension(ctx, d, actx)
	if err != nil {
		span.RecordError(err)
		s.Logger.LogError(err, "Dimension analysis failed", "dimension", d)
		writeAppError(w, err, http.StatusInternalServerError)
		return
	}

	span.SetAttributes(
		attribute.Int("response.score", result.Score),
		attribute.Bool("response.degraded", result.Degraded),
	)
	s.writeFormatted(w, result, format)
}

// routeHandler classifies a chat message and runs the matching expert:
// POST /route.
func (s *Server) routeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.observability.Tracer("resumepanel.api").Start(r.Context(), "api.route")
	defer span.End()

	var req RouteRequest
	if err := parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		writeErrorResponse(w, "Invalid request body", errors.ErrCodeInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeErrorResponse(w, "Missing message", errors.ErrCodeInvalidRequest, "message field is required", http.StatusBadRequest)
		return
	}

	intent, confidence := router.Classify(req.Message)
	resp := RouteResponse{
		Intent:       intent,
		Confidence:   confidence,
		ShouldInvoke: router.ShouldInvokeExpert(req.Message),
	}
	span.SetAttributes(
		attribute.String("route.intent", string(intent)),
		attribute.Float64("route.confidence", confidence),
	)

	outcome, err := s.router.Route(ctx, req.Message, req.Resume, req.JobRequirements)
	if err != nil {
		span.RecordError(err)
		s.Logger.LogError(err, "Routing failed", "intent", intent)
		writeAppError(w, err, http.StatusInternalServerError)
		return
	}
	if outcome != nil {
		resp.Expert = outcome.Expert
		resp.Result = outcome.Result
		resp.Aggregate = outcome.Aggregate
		resp.Report = outcome.Report
	}
	writeJSON(w, http.StatusOK, resp)
}

// profilesHandler lists the weight profiles: GET /profiles.
func (s *Server) profilesHandler(w http.ResponseWriter, r *http.Request) {
	format, err := s.requestFormat(r)
	if err != nil {
		writeAppError(w, err, http.StatusBadRequest)
		return
	}

	registry := s.engine.Registry()
	profiles := registry.Profiles()
	if format != formatters.FormatJSON {
		s.writeFormatted(w, profiles, format)
		return
	}

	resp := ProfilesResponse{
		Default:  registry.DefaultName(),
		Profiles: make(map[string]map[string]float64, len(profiles)),
	}
	for _, p := range profiles {
		resp.Profiles[p.Name] = p.AsMap()
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeFormatted writes data as JSON or as a rendered report.
func (s *Server) writeFormatted(w http.ResponseWriter, data any, format string) {
	if format == formatters.FormatJSON {
		writeJSON(w, http.StatusOK, data)
		return
	}

	out, err := s.formatters.Format(data, format)
	if err != nil {
		s.Logger.LogError(err, "Failed to format response", "format", format)
		writeErrorResponse(w, "Failed to format response", errors.ErrCodeUnsupportedFormat, err.Error(), http.StatusInternalServerError)
		return
	}

	contentType := "text/plain; charset=utf-8"
	if format == formatters.FormatMarkdown {
		contentType = "text/markdown; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(out)); err != nil {
		s.Logger.LogError(err, "Failed to write response")
	}
}

// writeAppError maps an error onto the standard error body, keeping the
// AppError code when there is one.
func writeAppError(w http.ResponseWriter, err error, status int) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		writeErrorResponse(w, appErr.Message, appErr.Code, "", status)
		return
	}
	writeErrorResponse(w, http.StatusText(status), "", err.Error(), status)
}
