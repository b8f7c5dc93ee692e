package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Sort selects the ordering of the library listing.
const (
	SortNewestFirst = "newest_first"
	SortOldestFirst = "oldest_first"
)

// Tools names the external binaries the orchestrator shells out to.
type Tools struct {
	AudibleBin string `toml:"audible_bin"`
	FFmpegBin  string `toml:"ffmpeg_bin"`
}

// Config is the user-editable configuration. It is read once at startup
// and passed down by value; nothing mutates it afterwards.
type Config struct {
	OutputDir   string `toml:"output_dir"`
	PageSize    int    `toml:"page_size"`
	DefaultSort string `toml:"default_sort"`
	Profile     string `toml:"profile"`
	Tools       Tools  `toml:"tools"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir:   "~/Downloads/audiobooks",
		PageSize:    20,
		DefaultSort: SortNewestFirst,
		Tools: Tools{
			AudibleBin: "audible",
			FFmpegBin:  "ffmpeg",
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "audible-dl", "config.toml")
}

// Load reads the TOML config at path, layered over Default. A missing
// file is not an error: defaults apply. Invalid TOML or invalid values
// fail startup so the user fixes the file instead of getting surprising
// paging or sorting behaviour.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg.normalized()
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.normalized()
}

func (c Config) normalized() (Config, error) {
	c.OutputDir = expandHome(c.OutputDir)
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("config: output_dir must not be empty")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("config: page_size must be at least 1, got %d", c.PageSize)
	}
	switch c.DefaultSort {
	case SortNewestFirst, SortOldestFirst:
	default:
		return fmt.Errorf("config: default_sort must be %q or %q, got %q",
			SortNewestFirst, SortOldestFirst, c.DefaultSort)
	}
	if strings.TrimSpace(c.Tools.AudibleBin) == "" {
		return errors.New("config: tools.audible_bin must not be empty")
	}
	if strings.TrimSpace(c.Tools.FFmpegBin) == "" {
		return errors.New("config: tools.ffmpeg_bin must not be empty")
	}
	return nil
}

// NewestFirst reports whether the configured sort puts recent purchases
// on page one.
func (c Config) NewestFirst() bool {
	return c.DefaultSort != SortOldestFirst
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
