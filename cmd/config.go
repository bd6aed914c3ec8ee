package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/studiodesk/internal/config"
	"github.com/manav03panchal/studiodesk/internal/output"
	"github.com/manav03panchal/studiodesk/internal/runtime"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Show application configuration",
	Long: `Show the resolved configuration and where it is read from.

Settings come from defaults, the config file and STUDIODESK_* environment
variables, in that order. Secrets are masked.

Examples:
  studiodesk config show
  studiodesk config path
  STUDIODESK_SCHEDULE_STRICT_HOURS=false studiodesk config show`,
	Annotations: noRuntime(),
}

// configShowCmd prints every resolved setting.
var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the resolved configuration",
	Args:        usageArgs(cobra.NoArgs),
	Annotations: noRuntime(),
	RunE:        runConfigShow,
}

// configPathCmd prints where configuration and data live.
var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the config file and data directory",
	Args:        usageArgs(cobra.NoArgs),
	Annotations: noRuntime(),
	RunE:        runConfigPath,
}

func loadConfig() (*config.Config, error) {
	opts := runtime.DefaultOptions()
	opts.ConfigFile = flagConfig
	opts.DataDir = flagDataDir
	opts.Debug = flagDebug
	return runtime.LoadConfig(opts)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	settings := cfg.Settings()
	if formatter.Format == output.FormatJSON {
		return formatter.JSON(settings)
	}
	output.NewCLIFormatter(formatter).PrintSettings(settings)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	file := cfg.File()
	if formatter.Format == output.FormatJSON {
		return formatter.JSON(map[string]any{
			"default_file": config.DefaultFile(),
			"file":         file,
			"data_dir":     cfg.DataDir,
		})
	}

	cli := output.NewCLIFormatter(formatter)
	if file == "" {
		cli.Printf("config:   %s ", config.DefaultFile())
		cli.Muted("(not found, using defaults)")
	} else {
		cli.Printf("config:   %s\n", file)
	}
	cli.Printf("data dir: %s\n", cfg.DataDir)
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
