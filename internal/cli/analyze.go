package cli

import (
	"context"
	"fmt"

	"resumepanel/internal/common"
	"resumepanel/internal/config"
	"resumepanel/internal/types"

	"github.com/spf13/cobra"
)

// analysisFlags are shared by the analyze, expert and route commands.
type analysisFlags struct {
	inputs common.AnalysisInputs
	output common.CommandConfig
}

func (f *analysisFlags) register(cmd *cobra.Command, requireResume bool) {
	cmd.Flags().StringVarP(&f.inputs.ResumeFile, "resume", "r", "", "Resume file (.json, .txt, .md, .pdf, .docx)")
	cmd.Flags().StringVarP(&f.inputs.JobFile, "job", "j", "", "Job requirements file (.json or text)")
	cmd.Flags().StringVarP(&f.output.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&f.output.OutputFormat, "format", "", "Output format: json, text, or markdown")
	if requireResume {
		_ = cmd.MarkFlagRequired("resume")
	}

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveFormat applies the configured default and validates the result.
func (f *analysisFlags) resolveFormat(cfg *config.Config) error {
	if f.output.OutputFormat == "" {
		f.output.OutputFormat = cfg.App.DefaultFormat
	}
	f.output.OutputFormat = common.NormalizeFormat(f.output.OutputFormat)
	return common.ValidateOutputFormat(f.output.OutputFormat, cfg.App.SupportedFormats)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full seven-dimension analysis of a resume",
	Long: `Analyze a resume with all seven experts concurrently and combine their
scores using a weight profile. A failing expert degrades to a default
result for its dimension instead of failing the analysis.

Weight profiles: standard, tech_focused, leadership, junior, senior, plus
any defined in the configured profiles file.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		return analyzeFlags.resolveFormat(cfg)
	},
	RunE: runAnalyze,
}

var (
	analyzeFlags   analysisFlags
	analyzeProfile string
)

func init() {
	analyzeFlags.register(analyzeCmd, true)
	analyzeCmd.Flags().StringVarP(&analyzeProfile, "profile", "p", "", "Weight profile (default from config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize analysis engine: %w", err)
	}
	defer eng.Close(context.Background())

	if analyzeProfile != "" {
		if _, ok := eng.coordinator.Registry().Lookup(analyzeProfile); !ok {
			logger.Warn("Unknown weight profile, using default",
				"profile", analyzeProfile,
				"default", eng.coordinator.Registry().DefaultName())
		}
	}

	ctx, cancel := eng.analysisContext(cmd.Context())
	defer cancel()

	fp := common.NewFileProcessor(logger, cfg.App.MaxFileSize)
	err = common.RunAnalysisCommand(ctx, logger, fp, common.NewOutputHandler(fp, logger),
		analyzeFlags.inputs, analyzeFlags.output, "analyze",
		func(ctx context.Context, actx *types.AnalysisContext) (*types.AggregateResult, error) {
			result := eng.coordinator.Analyze(ctx, actx, analyzeProfile)
			if len(result.DegradedDimensions) > 0 {
				logger.Warn("Analysis completed with degraded dimensions",
					"degraded", result.DegradedDimensions)
			}
			return result, nil
		})
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	return nil
}
