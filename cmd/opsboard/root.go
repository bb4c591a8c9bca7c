package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "opsboard",
		Short:         "OpsBoard board sync tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return setupLogging(cfg.Log, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "Board server base URL (overrides OPSBOARD_BASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&flags.strict, "strict", false, "Fail loudly on cards or lists without identifiers")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (overrides OPSBOARD_LOG_LEVEL)")

	rootCmd.AddCommand(newReplayCommand(ctx))
	rootCmd.AddCommand(newMoveCommand(ctx))
	rootCmd.AddCommand(newStoryboardCommand(ctx))

	return rootCmd
}
