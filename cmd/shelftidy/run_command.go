package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shelftidy/internal/history"
	"shelftidy/internal/logging"
	"shelftidy/internal/session"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var applyAll bool
	var checksum bool

	cmd := &cobra.Command{
		Use:   "run [library]",
		Short: "Tidy the audiobook library",
		Long: "Scan the library for metadata descriptors, compute canonical paths, and\n" +
			"move books into place after confirmation. Without --all the session shows\n" +
			"a menu and can review each book individually.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if checksum {
				cfg.Library.VerifyChecksums = true
			}
			root, err := resolveRoot(cfg, args)
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)
			channel := newConsoleChannel(cmd.InOrStdin(), stdout, colorize)

			// A dry analysis first: the statistics block, the tidy
			// short-circuit, and the menu all need the proposal count
			// before anything is touched.
			preview, err := session.New(cfg, root, nil, nil, session.Options{}, logger).Preview(cmd.Context())
			if err != nil {
				return err
			}

			printLibraryStats(stdout, preview.Summary, colorize)
			fmt.Fprintln(stdout)

			planned := len(preview.Proposals)
			if planned == 0 && len(preview.Failures) == 0 {
				printTidyBanner(stdout, colorize)
				return nil
			}
			printFailures(stdout, root, preview.Failures, colorize)

			if !applyAll && planned > 0 {
				if !interactiveInput(cmd.InOrStdin()) {
					return errors.New("stdin is not a terminal; rerun with --all to apply changes without prompts")
				}
				mode, err := channel.promptMode(planned)
				if err != nil {
					return err
				}
				switch mode {
				case modeExit:
					fmt.Fprintln(stdout, "No changes made.")
					return nil
				case modeApplyAll:
					applyAll = true
				}
			}

			var store *history.Store
			if cfg.History.Enabled {
				store, err = history.Open(cfg)
				if err != nil {
					logger.Warn("history unavailable", logging.Error(err))
					store = nil
				} else {
					defer store.Close()
				}
			}

			controller := session.New(cfg, root, channel, store, session.Options{ApplyAll: applyAll}, logger)
			result, err := controller.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(stdout)
			printResults(stdout, result.Summary, result.LogPath, colorize)
			return nil
		},
	}

	cmd.Flags().BoolVar(&applyAll, "all", false, "Apply every change without prompting")
	cmd.Flags().BoolVar(&checksum, "checksum", false, "Verify identical-looking destination files by checksum")
	return cmd
}
