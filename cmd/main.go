package main

import (
	"os"

	"github.com/spf13/cobra"
)

const appName = "WorkTimer"

type options struct {
	dev       bool
	configDir string
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "worktimer",
		Short: "Work/rest timer that counts toward a daily target",
		Long: `WorkTimer alternates work and rest periods until the work done reaches
a target, then plays an alert. Sessions with enough work are kept in a
local history.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(*opts)
		},
	}
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "Use very short durations for debugging (3s work, 3s rest, 10s target)")
	cmd.Flags().StringVar(&opts.configDir, "config-dir", "", "Directory for settings and history (default: user config dir)")
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
