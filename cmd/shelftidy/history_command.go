package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"shelftidy/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "Show past tidy sessions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if !cfg.History.Enabled {
				return errors.New("session history is disabled in the configuration")
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			if len(args) == 1 {
				return showSessionDetail(cmd.Context(), stdout, store, strings.TrimSpace(args[0]), colorize)
			}

			sessions, err := store.RecentSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(stdout, "No sessions recorded yet")
				return nil
			}
			table := renderTable(
				[]string{"Session", "Started", "Mode", "Applied", "Skipped", "Collisions"},
				buildSessionRows(sessions),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			)
			fmt.Fprintln(stdout, table)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of sessions to list")
	return cmd
}

func showSessionDetail(ctx context.Context, out io.Writer, store *history.Store, id string, colorize bool) error {
	sess, err := resolveSession(ctx, store, id)
	if err != nil {
		return err
	}

	for _, line := range renderSectionHeader("Session "+shortID(sess.ID), colorize) {
		fmt.Fprintln(out, line)
	}
	statLine(out, "Library", sess.LibraryRoot)
	statLine(out, "Mode", formatLabel(sess.Mode))
	statLine(out, "Started", formatDisplayTime(sess.StartedAt))
	if sess.FinishedAt != nil {
		statLine(out, "Finished", formatDisplayTime(*sess.FinishedAt))
	} else {
		statLine(out, "Finished", "still running or interrupted")
	}
	statLine(out, "Books", fmt.Sprintf("%d", sess.Books))
	statLine(out, "Applied", fmt.Sprintf("%d", sess.Applied))
	statLine(out, "Skipped", fmt.Sprintf("%d", sess.UserSkipped))
	statLine(out, "Collisions", fmt.Sprintf("%d", sess.Collisions))
	if sess.Aborted {
		fmt.Fprintln(out, colorLine(ansiYellow, statusIndent+"Session was aborted.", colorize))
	}

	outcomes, err := store.Outcomes(ctx, sess.ID)
	if err != nil {
		return err
	}
	if len(outcomes) == 0 {
		fmt.Fprintln(out, "No outcomes recorded")
		return nil
	}
	fmt.Fprintln(out)
	table := renderTable(
		[]string{"Time", "Action", "Detail"},
		buildOutcomeRows(outcomes),
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	)
	fmt.Fprintln(out, table)
	return nil
}

// resolveSession accepts a full session ID or a unique prefix of one, so the
// truncated IDs shown in the list view work as arguments.
func resolveSession(ctx context.Context, store *history.Store, id string) (*history.Session, error) {
	if sess, err := store.Session(ctx, id); err != nil {
		return nil, err
	} else if sess != nil {
		return sess, nil
	}
	if len(id) < 4 {
		return nil, fmt.Errorf("session %s not found", id)
	}

	recent, err := store.RecentSessions(ctx, 200)
	if err != nil {
		return nil, err
	}
	var match *history.Session
	for i := range recent {
		if !strings.HasPrefix(recent[i].ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("session prefix %s is ambiguous", id)
		}
		match = &recent[i]
	}
	if match == nil {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return match, nil
}
