// Command selinspect reports what a document's selection covers, either for
// a static HTML file or for a page in a live Chrome.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds state shared by the commands of one invocation.
type app struct {
	verbose    bool
	configPath string

	cfg    Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: DefaultConfig(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "selinspect",
		Short: "Inspect the current selection of an HTML document",
		Long: `selinspect reports the common ancestor container of a document's
selection and whether an element with a given tag and attributes lies
inside it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.configPath != "" {
				cfg, err := LoadConfig(a.configPath)
				if err != nil {
					return err
				}
				a.cfg = cfg
			}

			config := zap.NewProductionConfig()
			level, err := zap.ParseAtomicLevel(a.cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid log_level %q: %w", a.cfg.LogLevel, err)
			}
			config.Level = level
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")

	root.AddCommand(newQueryCmd(a), newLiveCmd(a))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
