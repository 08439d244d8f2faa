package common

import (
	"context"
	"time"

	"resumepanel/internal/errors"
	"resumepanel/internal/types"
)

// AnalysisInputs names the files a command reads.
type AnalysisInputs struct {
	ResumeFile string
	JobFile    string
}

// RunAnalysisCommand loads the resume and optional job requirements,
// runs the analysis and writes the formatted result.
func RunAnalysisCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	fp *FileProcessor,
	out *OutputHandler,
	inputs AnalysisInputs,
	cmdConfig CommandConfig,
	operation string,
	run func(context.Context, *types.AnalysisContext) (Output, error),
) error {
	if err := ValidateOutputFormat(cmdConfig.OutputFormat, out.GetSupportedFormats()); err != nil {
		return errors.NewValidationError(errors.ErrCodeUnsupportedFormat, err.Error(), err)
	}

	resume, err := fp.LoadResume(inputs.ResumeFile)
	if err != nil {
		return err
	}
	job, err := fp.LoadJob(inputs.JobFile)
	if err != nil {
		return err
	}

	actx := types.NewAnalysisContext(resume, job)
	logger.Info("Starting analysis",
		"operation", operation,
		"resume_file", inputs.ResumeFile,
		"job_file", inputs.JobFile,
		"format", cmdConfig.OutputFormat)

	start := time.Now()
	result, err := run(ctx, actx)
	if err != nil {
		return err
	}
	logger.Info("Analysis finished", "operation", operation, "duration", time.Since(start).String())

	return out.HandleOutput(result, cmdConfig)
}
