package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shelftidy/internal/config"
	"shelftidy/internal/history"
	"shelftidy/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status [library]",
		Short: "Show configuration and library readiness",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			root, err := resolveRoot(cfg, args)
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout, renderStatusLine("Config file", statusInfo, ctx.configSource(), colorize))
			fmt.Fprintln(stdout, renderStatusLine("Library", statusInfo, root, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Audit log", statusInfo, cfg.Library.AuditLogFilename, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Checksum verify", statusInfo, yesNo(cfg.Library.VerifyChecksums), colorize))
			fmt.Fprintln(stdout, renderStatusLine("History", statusInfo, yesNo(cfg.History.Enabled), colorize))
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Preflight Checks", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, result := range preflight.RunAll(cfg, root) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(stdout, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			if cfg.History.Enabled {
				fmt.Fprintln(stdout)
				for _, line := range renderSectionHeader("Recent Activity", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, lastRunLine(cmd, cfg, colorize))
			}
			return nil
		},
	}
}

func lastRunLine(cmd *cobra.Command, cfg *config.Config, colorize bool) string {
	const label = "Last run"
	store, err := history.Open(cfg)
	if err != nil {
		return renderStatusLine(label, statusWarn, err.Error(), colorize)
	}
	defer store.Close()

	sessions, err := store.RecentSessions(cmd.Context(), 1)
	if err != nil {
		return renderStatusLine(label, statusWarn, err.Error(), colorize)
	}
	if len(sessions) == 0 {
		return renderStatusLine(label, statusInfo, "no sessions recorded yet", colorize)
	}
	last := sessions[0]
	detail := fmt.Sprintf("%s (%s, applied %d)",
		formatDisplayTime(last.StartedAt), formatLabel(last.Mode), last.Applied)
	return renderStatusLine(label, statusOK, detail, colorize)
}
