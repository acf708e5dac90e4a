package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"shelftidy/internal/audit"
	"shelftidy/internal/history"
	"shelftidy/internal/plan"
	"shelftidy/internal/session"
)

const statsValueWidth = 18

func printLibraryStats(out io.Writer, summary audit.Summary, colorize bool) {
	for _, line := range renderSectionHeader("Library Statistics", colorize) {
		fmt.Fprintln(out, line)
	}
	statLine(out, "Books", fmt.Sprintf("%d", summary.Books))
	statLine(out, "Authors", fmt.Sprintf("%d", summary.Authors))
	statLine(out, "Narrators", fmt.Sprintf("%d", summary.Narrators))
	statLine(out, "Series", fmt.Sprintf("%d", summary.Series))
	statLine(out, "Standalone", fmt.Sprintf("%d", summary.Standalone))
	statLine(out, "Total duration", audit.FormatDuration(summary.Seconds))
	statLine(out, "Total size", audit.FormatSize(summary.TotalBytes))
}

func statLine(out io.Writer, label, value string) {
	fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statsValueWidth, label+":", value)
}

func printTidyBanner(out io.Writer, colorize bool) {
	fmt.Fprintln(out, colorLine(ansiGreen, "YOUR LIBRARY IS ALREADY TIDY!", colorize))
}

func printFailures(out io.Writer, root string, failures []session.Failure, colorize bool) {
	for _, failure := range failures {
		subject := relativeTo(root, failure.Dir)
		if failure.Kind == audit.KindPlanFailure && failure.Title != "" {
			subject = failure.Title
		}
		line := fmt.Sprintf("%s! cannot tidy %s (%s)", statusIndent, subject, failure.Reason)
		fmt.Fprintln(out, colorLine(ansiYellow, line, colorize))
	}
	if len(failures) > 0 {
		fmt.Fprintln(out)
	}
}

func printResults(out io.Writer, summary audit.Summary, logPath string, colorize bool) {
	for _, line := range renderSectionHeader("Results", colorize) {
		fmt.Fprintln(out, line)
	}
	statLine(out, "Applied", fmt.Sprintf("%d", summary.Applied))
	statLine(out, "Skipped", fmt.Sprintf("%d", summary.UserSkipped))
	statLine(out, "Collisions", fmt.Sprintf("%d", summary.Collisions))
	statLine(out, "Errors", fmt.Sprintf("%d", summary.MoveErrors))
	if summary.FilesMoved > 0 {
		statLine(out, "Files moved", fmt.Sprintf("%d", summary.FilesMoved))
	}
	if summary.Identical > 0 {
		statLine(out, "Already in place", fmt.Sprintf("%d", summary.Identical))
	}
	if summary.ParseFailures > 0 {
		statLine(out, "Parse failures", fmt.Sprintf("%d", summary.ParseFailures))
	}
	if summary.PlanFailures > 0 {
		statLine(out, "Plan failures", fmt.Sprintf("%d", summary.PlanFailures))
	}
	if len(summary.CollidingFiles) > 0 {
		fmt.Fprintln(out, colorLine(ansiYellow,
			statusIndent+"Colliding files: "+strings.Join(summary.CollidingFiles, ", "), colorize))
	}
	if summary.Aborted {
		fmt.Fprintln(out, colorLine(ansiYellow, statusIndent+"Session ended early.", colorize))
	}
	if logPath != "" {
		statLine(out, "Log", logPath)
	}
}

func buildProposalRows(proposals []session.Proposal) [][]string {
	rows := make([][]string, 0, len(proposals))
	for i, proposal := range proposals {
		files := len(proposal.Resolution.Pending)
		if proposal.Resolution.Action == plan.ActionCollision {
			files = len(proposal.Resolution.Conflicts)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			proposal.Plan.DisplayName,
			fmt.Sprintf("%d", files),
			formatLabel(proposal.Resolution.Action.String()),
		})
	}
	return rows
}

func buildSessionRows(sessions []history.Session) [][]string {
	rows := make([][]string, 0, len(sessions))
	for _, sess := range sessions {
		rows = append(rows, []string{
			shortID(sess.ID),
			formatDisplayTime(sess.StartedAt),
			formatLabel(sess.Mode),
			fmt.Sprintf("%d", sess.Applied),
			fmt.Sprintf("%d", sess.UserSkipped),
			fmt.Sprintf("%d", sess.Collisions),
		})
	}
	return rows
}

func buildOutcomeRows(outcomes []history.Outcome) [][]string {
	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		rows = append(rows, []string{
			outcome.OccurredAt.UTC().Format("15:04:05"),
			outcome.Action,
			outcome.Detail,
		})
	}
	return rows
}

// formatLabel turns a lowercase token like "confirm-each" into "Confirm Each".
func formatLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parts := strings.Split(value, "-")
	for i, part := range parts {
		lower := strings.ToLower(part)
		if lower == "" {
			continue
		}
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

func formatDisplayTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
