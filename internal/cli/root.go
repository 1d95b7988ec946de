package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/goSession/internal/logging"
)

var (
	flagConfig    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the gosession binary.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gosession",
		Short: "Cookie session server with sliding expiry and role gates",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newServeCmd(),
		newSweepCmd(),
		newSeedAdminCmd(),
		newMakeAdminCmd(),
		newHashPasswordCmd(),
	)

	return root
}

func loadConfig() (FileConfig, error) {
	return LoadConfig(flagConfig)
}
