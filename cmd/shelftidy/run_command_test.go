package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCommandAppliesAll(t *testing.T) {
	env := setupCLITestEnv(t)
	writeBookFolder(t, env, "a-dune", "Dune", "Frank Herbert", "dune.m4b")

	out, _, err := runCLI(t, env, []string{"run", "--all"}, "")
	if err != nil {
		t.Fatalf("run --all: %v", err)
	}

	requireContains(t, out, "Library Statistics")
	requireContains(t, out, "Results")
	requireContains(t, out, "Log:")
	requireFile(t, filepath.Join(env.library, "Frank Herbert", "Dune", "Frank Herbert - Dune.m4b"))
	requireFile(t, filepath.Join(env.library, "Frank Herbert", "Dune", "metadata.json"))
	requireNoFile(t, filepath.Join(env.library, "a-dune"))
	requireFile(t, filepath.Join(env.library, env.cfg.Library.AuditLogFilename))
}

func TestRunCommandShowsTidyBanner(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, []string{"run", "--all"}, "")
	if err != nil {
		t.Fatalf("run --all on empty library: %v", err)
	}

	requireContains(t, out, "YOUR LIBRARY IS ALREADY TIDY!")
	requireNoFile(t, filepath.Join(env.library, env.cfg.Library.AuditLogFilename))
}

func TestRunCommandMenuExitLeavesLibraryAlone(t *testing.T) {
	env := setupCLITestEnv(t)
	source := writeBookFolder(t, env, "a-dune", "Dune", "Frank Herbert", "dune.m4b")

	out, _, err := runCLI(t, env, []string{"run"}, "3\n")
	if err != nil {
		t.Fatalf("run with exit choice: %v", err)
	}

	requireContains(t, out, "Found 1 book(s) that need tidying.")
	requireContains(t, out, "No changes made.")
	requireFile(t, filepath.Join(source, "dune.m4b"))
	requireNoFile(t, filepath.Join(env.library, env.cfg.Library.AuditLogFilename))
}

func TestRunCommandMenuReviewApprove(t *testing.T) {
	env := setupCLITestEnv(t)
	writeBookFolder(t, env, "a-dune", "Dune", "Frank Herbert", "dune.m4b")

	out, _, err := runCLI(t, env, []string{"run"}, "2\ny\n")
	if err != nil {
		t.Fatalf("run with review choice: %v", err)
	}

	requireContains(t, out, "[1/1] Frank Herbert - Dune")
	requireContains(t, out, "Apply this change? [Y/n/a/q]: ")
	requireFile(t, filepath.Join(env.library, "Frank Herbert", "Dune", "Frank Herbert - Dune.m4b"))
}

func TestRunCommandMenuApplyAllChoice(t *testing.T) {
	env := setupCLITestEnv(t)
	writeBookFolder(t, env, "a-dune", "Dune", "Frank Herbert", "dune.m4b")
	writeBookFolder(t, env, "b-left", "The Left Hand of Darkness", "Ursula K. Le Guin", "left.m4b")

	out, _, err := runCLI(t, env, []string{"run"}, "1\n")
	if err != nil {
		t.Fatalf("run with apply-all choice: %v", err)
	}

	requireNotContains(t, out, "Apply this change?")
	requireFile(t, filepath.Join(env.library, "Frank Herbert", "Dune", "Frank Herbert - Dune.m4b"))
	requireFile(t, filepath.Join(env.library, "Ursula K. Le Guin", "The Left Hand of Darkness", "Ursula K. Le Guin - The Left Hand of Darkness.m4b"))
}

func TestRunCommandRefusesPipedStdin(t *testing.T) {
	env := setupCLITestEnv(t)
	source := writeBookFolder(t, env, "a-dune", "Dune", "Frank Herbert", "dune.m4b")

	pipePath := filepath.Join(t.TempDir(), "stdin.txt")
	if err := os.WriteFile(pipePath, []byte("2\n"), 0o644); err != nil {
		t.Fatalf("write stdin file: %v", err)
	}
	pipe, err := os.Open(pipePath)
	if err != nil {
		t.Fatalf("open stdin file: %v", err)
	}
	defer pipe.Close()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(pipe)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--config", env.configPath, "run"})
	err = cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "stdin is not a terminal") {
		t.Fatalf("expected terminal refusal, got %v", err)
	}
	requireFile(t, filepath.Join(source, "dune.m4b"))
}

func TestRunCommandReportsParseFailures(t *testing.T) {
	env := setupCLITestEnv(t)
	writeBookFolder(t, env, "a-dune", "Dune", "Frank Herbert", "dune.m4b")
	badDir := filepath.Join(env.library, "z-broken")
	if err := os.MkdirAll(badDir, 0o755); err != nil {
		t.Fatalf("mkdir broken folder: %v", err)
	}
	if err := os.WriteFile(filepath.Join(badDir, "metadata.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write broken metadata: %v", err)
	}

	out, _, err := runCLI(t, env, []string{"run", "--all"}, "")
	if err != nil {
		t.Fatalf("run --all: %v", err)
	}

	requireContains(t, out, "cannot tidy z-broken")
	requireContains(t, out, "Parse failures")
}
