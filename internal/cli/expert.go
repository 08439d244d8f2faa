package cli

import (
	"context"
	"fmt"
	"strings"

	"resumepanel/internal/common"
	"resumepanel/internal/errors"
	"resumepanel/internal/types"

	"github.com/spf13/cobra"
)

var expertCmd = &cobra.Command{
	Use:   "expert <dimension>",
	Short: "Run a single expert on a resume",
	Long: `Evaluate one dimension of a resume with its expert.

Dimensions: ` + strings.Join(dimensionNames(), ", "),
	Args:      cobra.ExactArgs(1),
	ValidArgs: dimensionNames(),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		return expertFlags.resolveFormat(cfg)
	},
	RunE: runExpert,
}

var expertFlags analysisFlags

func init() {
	expertFlags.register(expertCmd, true)
}

func dimensionNames() []string {
	names := make([]string, 0, len(types.AllDimensions))
	for _, d := range types.AllDimensions {
		names = append(names, string(d))
	}
	return names
}

func runExpert(cmd *cobra.Command, args []string) error {
	dimension, ok := types.ParseDimension(args[0])
	if !ok {
		return errors.NewValidationError(errors.ErrCodeUnknownDimension,
			fmt.Sprintf("unknown dimension %q (valid: %s)", args[0], strings.Join(dimensionNames(), ", ")), nil)
	}

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

	ctx, cancel := eng.analysisContext(cmd.Context())
	defer cancel()

	fp := common.NewFileProcessor(logger, cfg.App.MaxFileSize)
	err = common.RunAnalysisCommand(ctx, logger, fp, common.NewOutputHandler(fp, logger),
		expertFlags.inputs, expertFlags.output, "expert."+string(dimension),
		func(ctx context.Context, actx *types.AnalysisContext) (*types.ExpertResult, error) {
			return eng.coordinator.AnalyzeDimension(ctx, dimension, actx)
		})
	if err != nil {
		return fmt.Errorf("failed to run %s expert: %w", dimension, err)
	}
	return nil
}
