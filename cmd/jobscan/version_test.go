package main

import (
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestVersionCommand(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	Version = "0.1.0-test"
	GitCommit = "abc123"
	BuildDate = "2025-11-20"

	cmd, out := testCommand("")
	versionCmd.Run(cmd, nil)

	for _, want := range []string{
		"jobscan 0.1.0-test",
		"Git Commit: abc123",
		"Build Date: 2025-11-20",
		"Go Version: " + runtime.Version(),
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"serve": false, "analyze": false, "rules": false, "analyses": false, "version": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}

	sub := map[string]bool{}
	for _, c := range analysesCmd.Commands() {
		sub[c.Name()] = true
	}
	for _, name := range []string{"list", "export", "prune"} {
		if !sub[name] {
			t.Errorf("analyses %s not registered", name)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			cmd, out := testCommand("")
			if err := completionCmd.RunE(cmd, []string{shell}); err != nil {
				t.Fatalf("completion %s failed: %v", shell, err)
			}
			if !strings.Contains(out.String(), "jobscan") {
				t.Errorf("%s script does not mention jobscan", shell)
			}
		})
	}
}

func TestFlagCompletions(t *testing.T) {
	fn, ok := analysesListCmd.GetFlagCompletionFunc("risk-level")
	if !ok {
		t.Fatal("no completion registered for analyses list --risk-level")
	}
	values, directive := fn(analysesListCmd, nil, "")
	if strings.Join(values, ",") != "LOW,MEDIUM,HIGH" {
		t.Errorf("values = %v", values)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v", directive)
	}
}
