package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.PageSize != 20 {
		t.Errorf("Expected default page_size 20, got %d", cfg.PageSize)
	}
	if cfg.DefaultSort != SortNewestFirst {
		t.Errorf("Expected default sort %q, got %q", SortNewestFirst, cfg.DefaultSort)
	}
	if cfg.Tools.AudibleBin != "audible" || cfg.Tools.FFmpegBin != "ffmpeg" {
		t.Errorf("Unexpected default tools: %+v", cfg.Tools)
	}
	if strings.HasPrefix(cfg.OutputDir, "~") {
		t.Errorf("Expected expanded output_dir, got %q", cfg.OutputDir)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
output_dir = "/srv/audiobooks"
page_size = 10
default_sort = "oldest_first"
profile = "uk"

[tools]
audible_bin = "/usr/local/bin/audible"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OutputDir != "/srv/audiobooks" {
		t.Errorf("output_dir = %q", cfg.OutputDir)
	}
	if cfg.PageSize != 10 {
		t.Errorf("page_size = %d", cfg.PageSize)
	}
	if cfg.NewestFirst() {
		t.Error("Expected oldest_first sort")
	}
	if cfg.Profile != "uk" {
		t.Errorf("profile = %q", cfg.Profile)
	}
	if cfg.Tools.AudibleBin != "/usr/local/bin/audible" {
		t.Errorf("audible_bin = %q", cfg.Tools.AudibleBin)
	}
	// Unset table entries keep their defaults.
	if cfg.Tools.FFmpegBin != "ffmpeg" {
		t.Errorf("ffmpeg_bin = %q", cfg.Tools.FFmpegBin)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"zero page size", `page_size = 0`},
		{"negative page size", `page_size = -5`},
		{"unknown sort", `default_sort = "shuffled"`},
		{"empty output dir", `output_dir = ""`},
		{"bad toml", `page_size = "twenty`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, c.content)); err == nil {
				t.Error("Load() should have failed")
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	if got := expandHome("~/Downloads"); got != filepath.Join(home, "Downloads") {
		t.Errorf("expandHome(~/Downloads) = %q", got)
	}
	if got := expandHome("/absolute/path"); got != "/absolute/path" {
		t.Errorf("expandHome should leave absolute paths alone, got %q", got)
	}
}
