package cli

import (
	"fmt"

	"resumepanel/internal/common"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the available weight profiles",
	Long: `List every validated weight profile, built-in and file-defined, with the
percentage each dimension contributes to the overall score.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if profilesConfig.OutputFormat == "" {
			profilesConfig.OutputFormat = cfg.App.DefaultFormat
		}
		profilesConfig.OutputFormat = common.NormalizeFormat(profilesConfig.OutputFormat)
		return common.ValidateOutputFormat(profilesConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runProfiles,
}

var profilesConfig common.CommandConfig

func init() {
	profilesCmd.Flags().StringVarP(&profilesConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	profilesCmd.Flags().StringVar(&profilesConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runProfiles(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	registry, err := newRegistry(cfg)
	if err != nil {
		return fmt.Errorf("failed to load weight profiles: %w", err)
	}

	fp := common.NewFileProcessor(logger, cfg.App.MaxFileSize)
	return common.NewOutputHandler(fp, logger).HandleOutput(registry.Profiles(), profilesConfig)
}
