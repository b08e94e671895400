// Package config provides configuration management for the content processor.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the optional configuration file looked up in the base directory.
const FileName = "processor.yaml"

// Configuration validation errors.
var (
	ErrMissingExportPath  = errors.New("paths.export is required")
	ErrMissingAssetSource = errors.New("paths.asset_source is required")
	ErrMissingJSONDest    = errors.New("paths.json_dest is required")
	ErrMissingImageDest   = errors.New("paths.image_dest is required")
	ErrMissingLocale      = errors.New("content.locale is required")
	ErrInvalidWidth       = errors.New("images.card_width and images.post_width must be positive")
	ErrInvalidQuality     = errors.New("images.quality must be between 1 and 100")
	ErrInvalidWorkers     = errors.New("images.workers must be at least 1")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat   = errors.New("logging.format must be one of: auto, text, json")
	ErrInvalidEnvValue    = errors.New("invalid environment override")
)

// Config represents the complete processor configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Content ContentConfig `yaml:"content"`
	Logging LoggingConfig `yaml:"logging"`
	Images  ImagesConfig  `yaml:"images"`

	// BaseDir anchors relative paths. It is the directory of the config file,
	// or the working directory when there is none.
	BaseDir string `yaml:"-"`
}

// PathsConfig locates the export input and the generated outputs.
type PathsConfig struct {
	Export      string `yaml:"export"`
	AssetSource string `yaml:"asset_source"`
	JSONDest    string `yaml:"json_dest"`
	ImageDest   string `yaml:"image_dest"`
}

// ContentConfig controls normalization.
type ContentConfig struct {
	Locale             string `yaml:"locale"`
	ImagePrefix        string `yaml:"image_prefix"`
	MusicFallbackImage string `yaml:"music_fallback_image"`
}

// ImagesConfig controls transcoding.
type ImagesConfig struct {
	Quality   int `yaml:"quality"`
	CardWidth int `yaml:"card_width"`
	PostWidth int `yaml:"post_width"`
	Workers   int `yaml:"workers"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration matching the repository layout:
// the export under export/, JSON data in data/ and images in ../dist/img.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Export:      filepath.Join("export", "content.json"),
			AssetSource: filepath.Join("export", "images.ctfassets.net"),
			JSONDest:    "data",
			ImageDest:   filepath.Join("..", "dist", "img"),
		},
		Content: ContentConfig{
			Locale:             "en-US",
			ImagePrefix:        "/img",
			MusicFallbackImage: "/img/music-player.webp",
		},
		Images: ImagesConfig{
			Quality:   80,
			CardWidth: 400,
			PostWidth: 150,
			Workers:   runtime.NumCPU(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load builds the configuration for baseDir: defaults, then baseDir/processor.yaml
// when present, then environment overrides (a .env file in baseDir is loaded
// first and never overrides variables already set).
func Load(baseDir string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(baseDir, ".env"))

	cfg := Default()

	path := filepath.Join(baseDir, FileName)
	if _, err := os.Stat(path); err == nil {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	cfg.BaseDir = baseDir

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.ResolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
// Relative paths stay relative to the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.BaseDir = filepath.Dir(path)

	return cfg, nil
}

// ApplyEnv overrides settings from CMS_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	textVars := map[string]*string{
		"CMS_EXPORT_PATH":      &c.Paths.Export,
		"CMS_ASSET_SOURCE_DIR": &c.Paths.AssetSource,
		"CMS_JSON_DEST_DIR":    &c.Paths.JSONDest,
		"CMS_IMAGE_DEST_DIR":   &c.Paths.ImageDest,
		"CMS_LOCALE":           &c.Content.Locale,
		"CMS_LOG_LEVEL":        &c.Logging.Level,
		"CMS_LOG_FORMAT":       &c.Logging.Format,
	}

	for key, target := range textVars {
		if v, ok := lookup(key); ok && v != "" {
			*target = v
		}
	}

	intVars := map[string]*int{
		"CMS_WORKERS":       &c.Images.Workers,
		"CMS_IMAGE_QUALITY": &c.Images.Quality,
	}

	for key, target := range intVars {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}

		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, key, v)
		}

		*target = n
	}

	return nil
}

// ResolvePaths makes every relative path absolute against BaseDir.
func (c *Config) ResolvePaths() {
	for _, p := range []*string{&c.Paths.Export, &c.Paths.AssetSource, &c.Paths.JSONDest, &c.Paths.ImageDest} {
		if *p == "" || filepath.IsAbs(*p) {
			continue
		}

		*p = filepath.Join(c.BaseDir, *p)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Paths.Export == "" {
		return ErrMissingExportPath
	}

	if c.Paths.AssetSource == "" {
		return ErrMissingAssetSource
	}

	if c.Paths.JSONDest == "" {
		return ErrMissingJSONDest
	}

	if c.Paths.ImageDest == "" {
		return ErrMissingImageDest
	}

	if c.Content.Locale == "" {
		return ErrMissingLocale
	}

	if c.Images.CardWidth <= 0 || c.Images.PostWidth <= 0 {
		return ErrInvalidWidth
	}

	if c.Images.Quality < 1 || c.Images.Quality > 100 {
		return ErrInvalidQuality
	}

	if c.Images.Workers < 1 {
		return ErrInvalidWorkers
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validFormats := map[string]bool{"auto": true, "text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Export: %s, JSONDest: %s, ImageDest: %s, Locale: %s, Workers: %d}",
		c.Paths.Export,
		c.Paths.JSONDest,
		c.Paths.ImageDest,
		c.Content.Locale,
		c.Images.Workers,
	)
}
