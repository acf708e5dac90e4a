package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shelftidy/internal/logging"
	"shelftidy/internal/session"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [library]",
		Short: "Preview the changes a run would make",
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
			fmt.Fprintln(stdout)

			if len(preview.Proposals) == 0 && len(preview.Failures) == 0 {
				printTidyBanner(stdout, colorize)
				return nil
			}
			printFailures(stdout, root, preview.Failures, colorize)

			if len(preview.Proposals) > 0 {
				for _, line := range renderSectionHeader("Proposed Changes", colorize) {
					fmt.Fprintln(stdout, line)
				}
				table := renderTable(
					[]string{"#", "Book", "Files", "Action"},
					buildProposalRows(preview.Proposals),
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(stdout, table)
			}

			fmt.Fprintf(stdout, "\n%d book(s) need changes. Nothing was moved.\n", len(preview.Proposals))
			return nil
		},
	}
}
