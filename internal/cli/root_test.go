package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestRootCommandRegistersCommands(t *testing.T) {
	root := testCLI(t).RootCommand()

	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, want := range []string{"scan", "layout", "render", "stats", "browse", "serve", "snapshot", "cache", "completion"} {
		if !slices.Contains(got, want) {
			t.Errorf("RootCommand() missing %q (have %v)", want, got)
		}
	}
}

func TestRootCommandMissingConfig(t *testing.T) {
	c := testCLI(t)
	missing := filepath.Join(t.TempDir(), "absent.toml")

	err := execute(t, c, "--config", missing, "cache", "path")
	if err == nil {
		t.Fatal("execute() with missing --config succeeded, want error")
	}
	if !strings.Contains(err.Error(), "read config") {
		t.Errorf("error = %v, want read config error", err)
	}
}

func TestRootCommandLoadsConfig(t *testing.T) {
	c := testCLI(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[layout]\nwidth = 640\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, c, "--config", path, "cache", "path"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if c.Config.Layout.Width != 640 {
		t.Errorf("Config.Layout.Width = %d, want 640", c.Config.Layout.Width)
	}
}

func TestCompletionCommand(t *testing.T) {
	root := testCLI(t).RootCommand()
	var out strings.Builder
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion bash error = %v", err)
	}
	if !strings.Contains(out.String(), "__start_treemap") {
		t.Errorf("bash completion does not define __start_treemap")
	}
}

func TestCompleteSnapshotNames(t *testing.T) {
	c := testCLI(t)
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	root := c.RootCommand()
	root.SetContext(context.Background())

	if err := execute(t, c, "snapshot", "save", "before", writeFixture(t)); err != nil {
		t.Fatalf("snapshot save error = %v", err)
	}
	names, _ := c.completeSnapshotNames(root, nil, "")
	if !slices.Equal(names, []string{"before"}) {
		t.Errorf("completeSnapshotNames() = %v, want [before]", names)
	}
}
