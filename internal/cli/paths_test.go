package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestXDGDirs(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		env  string
		fn   func() (string, error)
		def  string
		rel  string
	}{
		{"cache", "XDG_CACHE_HOME", cacheDir, filepath.Join(home, ".cache", appName), appName},
		{"data", "XDG_DATA_HOME", dataDir, filepath.Join(home, ".local", "share", appName), appName},
		{"config", "XDG_CONFIG_HOME", configPath, filepath.Join(home, ".config", appName, "config.toml"), filepath.Join(appName, "config.toml")},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/default", func(t *testing.T) {
			t.Setenv(tt.env, "")
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.def {
				t.Errorf("got %q, want %q", got, tt.def)
			}
		})
		t.Run(tt.name+"/xdg", func(t *testing.T) {
			base := t.TempDir()
			t.Setenv(tt.env, base)
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if want := filepath.Join(base, tt.rel); got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,png", []string{"svg", "png"}},
		{" json , dot ,", []string{"json", "dot"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestSetInput(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "tree.json")
	if err := os.WriteFile(snap, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	plain := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(plain, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		arg       string
		wantRoot  string
		wantInput string
	}{
		{dir, dir, ""},
		{snap, "", snap},
		{plain, plain, ""},
	}
	for _, tt := range tests {
		opts := DefaultConfig().PipelineOptions()
		if err := setInput(&opts, tt.arg); err != nil {
			t.Fatalf("setInput(%q) error = %v", tt.arg, err)
		}
		if opts.Root != tt.wantRoot || opts.Input != tt.wantInput {
			t.Errorf("setInput(%q) = root %q input %q, want root %q input %q",
				tt.arg, opts.Root, opts.Input, tt.wantRoot, tt.wantInput)
		}
	}

	opts := DefaultConfig().PipelineOptions()
	if err := setInput(&opts, filepath.Join(dir, "missing")); err == nil {
		t.Error("setInput(missing) error = nil, want error")
	}
}

func TestBaseName(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		in, want string
	}{
		{dir, filepath.Base(dir)},
		{filepath.Join("out", "tree.json"), filepath.Join("out", "tree")},
		{"layout.json", "layout"},
	}
	for _, tt := range tests {
		if got := baseName(tt.in); got != tt.want {
			t.Errorf("baseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
