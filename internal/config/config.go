// Package config loads the server settings.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	AssetRoot     string        `yaml:"assetRoot"`
	PresetsFile   string        `yaml:"presetsFile"`
	Debounce      time.Duration `yaml:"debounce"`
	FetchTimeout  time.Duration `yaml:"fetchTimeout"`
	MaxFetchBytes int64         `yaml:"maxFetchBytes"`
	MaxPixels     int64         `yaml:"maxPixels"`
	FontFiles     []string      `yaml:"fontFiles"`
	LogLevel      string        `yaml:"logLevel"`
	Development   bool          `yaml:"development"`
}

func Default() Config {
	return Config{
		Addr:          ":8080",
		AssetRoot:     "public",
		PresetsFile:   "public/systems/colors/system_gradients.json",
		Debounce:      150 * time.Millisecond,
		FetchTimeout:  10 * time.Second,
		MaxFetchBytes: 32 << 20,
		MaxPixels:     40_000_000,
		LogLevel:      "info",
	}
}

// LoadFile overlays the YAML file at path onto cfg. A missing file is not an
// error.
func LoadFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Load builds the config from defaults, an optional YAML file, the PORT
// environment variable and finally command line flags.
func Load(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	path := fs.String("config", "config.yaml", "path to YAML config file")
	addr := fs.String("addr", "", "listen address")
	root := fs.String("assets", "", "directory image path references resolve against")
	presetsFile := fs.String("presets", "", "system gradients JSON file")
	debounce := fs.Duration("debounce", 0, "preview render quiescence delay")
	level := fs.String("log-level", "", "log level (debug, info, warn, error)")
	dev := fs.Bool("dev", false, "human readable logs")
	fonts := fs.String("fonts", "", "comma separated TTF/OTF files tried before Go Regular for badge glyphs")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if err := LoadFile(&cfg, *path); err != nil {
		return cfg, err
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "assets":
			cfg.AssetRoot = *root
		case "presets":
			cfg.PresetsFile = *presetsFile
		case "debounce":
			cfg.Debounce = *debounce
		case "log-level":
			cfg.LogLevel = *level
		case "dev":
			cfg.Development = *dev
		case "fonts":
			cfg.FontFiles = SplitList(*fonts)
		}
	})
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if c.Debounce < 0 {
		return fmt.Errorf("config: negative debounce %v", c.Debounce)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("config: fetchTimeout must be positive, got %v", c.FetchTimeout)
	}
	if c.MaxPixels < 0 {
		return fmt.Errorf("config: negative maxPixels %d", c.MaxPixels)
	}
	return nil
}

// SplitList splits a comma separated flag value, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
