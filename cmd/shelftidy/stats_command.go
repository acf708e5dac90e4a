package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shelftidy/internal/logging"
	"shelftidy/internal/session"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [library]",
		Short: "Show library statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			root, err := resolveRoot(cfg, args)
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			preview, err := session.New(cfg, root, nil, nil, session.Options{}, logger).Preview(cmd.Context())
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)
			printLibraryStats(stdout, preview.Summary, colorize)
			if failures := len(preview.Failures); failures > 0 {
				fmt.Fprintln(stdout)
				fmt.Fprintln(stdout, colorLine(ansiYellow,
					fmt.Sprintf("%s%d folder(s) could not be read; run `shelftidy plan` for details.", statusIndent, failures),
					colorize))
			}
			return nil
		},
	}
}
