package cli

import (
	"fmt"
	"os"

	"formpilot/infrastructure/config"
	"formpilot/infrastructure/logging"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the formpilot command tree.
func NewRootCommand() *cobra.Command {
	var cfgFile string
	a := &app{}

	root := &cobra.Command{
		Use:           "formpilot",
		Short:         "Automates third-party application forms with a real browser.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml, json or toml)")

	root.AddCommand(
		newServeCommand(a),
		newRunCommand(a),
		newScriptsCommand(a),
	)
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
