package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"skill-alert/internal/dispatch"
)

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	printStats(cmd, "alerts", dispatch.Stats{Considered: 3, Matched: 2, Notified: 1}, nil)
	printStats(cmd, "digests", dispatch.Stats{}, dispatch.ErrCycleInProgress)

	out := buf.String()
	if !strings.Contains(out, "alerts: considered=3 skipped=0 evaluated=0 matched=2 notified=1 failed=0") {
		t.Fatalf("unexpected stats line: %q", out)
	}
	if !strings.Contains(out, "digests: skipped (") {
		t.Fatalf("expected skipped digest line, got %q", out)
	}
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	want := map[string]bool{"run": false, "once": false, "migrate": false, "seed": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("expected subcommand %s", name)
		}
	}
}
