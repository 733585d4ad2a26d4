// Package config handles segtag configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/philipparndt/segtag/pkg/placement"
	"github.com/philipparndt/segtag/pkg/tags"
)

// Config holds all segtag settings.
type Config struct {
	Tags     TagsConfig     `yaml:"tags"`
	Watch    WatchConfig    `yaml:"watch"`
	Server   ServerConfig   `yaml:"server"`
	OpenSCAD OpenSCADConfig `yaml:"openscad"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TagsConfig holds label settings.
type TagsConfig struct {
	Size            float64   `yaml:"size"`
	UseSegmentColor bool      `yaml:"use_segment_color"`
	FixedColor      []float64 `yaml:"fixed_color"` // r, g, b in [0, 1]
}

// WatchConfig holds file watching settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// OpenSCADConfig holds the renderer settings for .scad segments.
type OpenSCADConfig struct {
	Binary string `yaml:"binary"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Tags: TagsConfig{
			Size:       tags.DefaultSize,
			FixedColor: []float64{1, 1, 1},
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			ReadTimeout: 10 * time.Second,
		},
		OpenSCAD: OpenSCADConfig{
			Binary: "openscad",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	if !(c.Tags.Size >= 0) {
		return fmt.Errorf("tags.size must not be negative, got %v", c.Tags.Size)
	}
	if len(c.Tags.FixedColor) != 3 {
		return fmt.Errorf("tags.fixed_color needs 3 components, got %d", len(c.Tags.FixedColor))
	}
	for _, v := range c.Tags.FixedColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("tags.fixed_color component %v outside [0, 1]", v)
		}
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", c.Watch.Debounce)
	}
	return nil
}

// TagOptions converts the tag settings into session options.
func (c *Config) TagOptions() tags.Options {
	opts := tags.DefaultOptions()
	opts.UseSegmentColor = c.Tags.UseSegmentColor
	if len(c.Tags.FixedColor) == 3 {
		opts.FixedColor = placement.Color{
			R: c.Tags.FixedColor[0],
			G: c.Tags.FixedColor[1],
			B: c.Tags.FixedColor[2],
		}
	}
	return opts
}
