package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"shelftidy/internal/session"
)

type runMode int

const (
	modeReview runMode = iota
	modeApplyAll
	modeExit
)

// consoleChannel renders reviews and progress notes on the terminal. One
// buffered reader serves both the mode menu and the per-book prompts so no
// scripted input is lost between them.
type consoleChannel struct {
	in       *bufio.Reader
	out      io.Writer
	colorize bool
}

func newConsoleChannel(in io.Reader, out io.Writer, colorize bool) *consoleChannel {
	return &consoleChannel{in: bufio.NewReader(in), out: out, colorize: colorize}
}

// promptMode shows the session menu and blocks for a choice.
func (c *consoleChannel) promptMode(planned int) (runMode, error) {
	fmt.Fprintf(c.out, "Found %d book(s) that need tidying.\n\n", planned)
	fmt.Fprintln(c.out, "[1] Apply ALL changes automatically")
	fmt.Fprintln(c.out, "[2] Review changes one-by-one")
	fmt.Fprintln(c.out, "[3] Exit without changes")
	for {
		fmt.Fprint(c.out, "Choose an option: ")
		answer, err := c.readAnswer()
		if err != nil {
			return modeExit, err
		}
		switch answer {
		case "1":
			return modeApplyAll, nil
		case "2":
			return modeReview, nil
		case "3":
			return modeExit, nil
		default:
			fmt.Fprintln(c.out, "Please choose 1, 2, or 3.")
		}
	}
}

func (c *consoleChannel) Confirm(ctx context.Context, review session.Review) (session.Decision, error) {
	fmt.Fprintln(c.out)
	header := fmt.Sprintf("[%d/%d] %s", review.Index, review.Total, review.DisplayName)
	fmt.Fprintln(c.out, colorLine(ansiBlue, header, c.colorize))
	for _, move := range review.Moves {
		fmt.Fprintln(c.out, colorLine(ansiRed, "  - "+relativeTo(review.Root, move.Source), c.colorize))
		fmt.Fprintln(c.out, colorLine(ansiGreen, "  + "+relativeTo(review.Root, move.Target), c.colorize))
	}
	for {
		if err := ctx.Err(); err != nil {
			return session.DecisionAbort, err
		}
		fmt.Fprint(c.out, "Apply this change? [Y/n/a/q]: ")
		answer, err := c.readAnswer()
		if err != nil {
			return session.DecisionAbort, err
		}
		switch answer {
		case "", "y", "yes":
			return session.DecisionApprove, nil
		case "a", "all":
			return session.DecisionApplyAll, nil
		case "n", "no":
			return session.DecisionSkip, nil
		case "q", "quit":
			return session.DecisionAbort, nil
		default:
			fmt.Fprintln(c.out, "Please answer y, n, a, or q.")
		}
	}
}

func (c *consoleChannel) Report(note session.Note) {
	color := ansiGreen
	switch note.Kind {
	case session.NoteWarn:
		color = ansiYellow
	case session.NoteError:
		color = ansiRed
	}
	fmt.Fprintln(c.out, colorLine(color, statusIndent+note.Message, c.colorize))
}

// readAnswer returns one trimmed lowercase input line. A final line without
// a trailing newline still counts; a bare EOF does not.
func (c *consoleChannel) readAnswer() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && strings.TrimSpace(line) == "" {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}
