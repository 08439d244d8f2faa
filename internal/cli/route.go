package cli

import (
	"context"
	"fmt"
	"strings"

	"resumepanel/internal/common"
	"resumepanel/internal/formatters"
	"resumepanel/internal/router"
	"resumepanel/internal/types"

	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route <message>",
	Short: "Classify a chat message and dispatch it to the matching expert",
	Long: `Classify a recruiter's chat message into an analysis intent. When a resume
is supplied and the message warrants it, the matching expert (or the full
seven-dimension analysis) runs and its report is printed.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		return routeFlags.resolveFormat(cfg)
	},
	RunE: runRoute,
}

var routeFlags analysisFlags

func init() {
	// Without a resume only the classification is shown.
	routeFlags.register(routeCmd, false)
}

// routeOutput is what the route command prints.
type routeOutput struct {
	Intent       types.Intent    `json:"intent"`
	Confidence   float64         `json:"confidence"`
	ShouldInvoke bool            `json:"should_invoke"`
	Outcome      *router.Outcome `json:"outcome,omitempty"`
}

func runRoute(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	message := strings.Join(args, " ")
	intent, confidence := router.Classify(message)
	out := routeOutput{
		Intent:       intent,
		Confidence:   confidence,
		ShouldInvoke: router.ShouldInvokeExpert(message),
	}

	fp := common.NewFileProcessor(logger, cfg.App.MaxFileSize)
	if routeFlags.inputs.ResumeFile != "" && out.ShouldInvoke {
		resume, err := fp.LoadResume(routeFlags.inputs.ResumeFile)
		if err != nil {
			return err
		}
		job, err := fp.LoadJob(routeFlags.inputs.JobFile)
		if err != nil {
			return err
		}

		eng, err := newEngine(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize analysis engine: %w", err)
		}
		defer eng.Close(context.Background())

		ctx, cancel := eng.analysisContext(cmd.Context())
		defer cancel()

		out.Outcome, err = router.New(eng.coordinator, "", logger).Route(ctx, message, &resume, job)
		if err != nil {
			return fmt.Errorf("failed to route message: %w", err)
		}
	}

	handler := common.NewOutputHandler(fp, logger)
	if routeFlags.output.OutputFormat == formatters.FormatJSON {
		return handler.HandleOutput(out, routeFlags.output)
	}
	if out.Outcome != nil {
		return handler.HandleOutput(routeReport(out.Outcome), routeFlags.output)
	}
	return handler.HandleOutput(out, common.CommandConfig{
		OutputFile:   routeFlags.output.OutputFile,
		OutputFormat: formatters.FormatJSON,
	})
}

// routeReport returns the structured result behind an outcome so the
// markdown and text formatters render it.
func routeReport(o *router.Outcome) any {
	if o.Aggregate != nil {
		return o.Aggregate
	}
	return o.Result
}
