// Package config loads chatkit settings from ~/.chatkit/config.yaml.
// Every field is optional; missing values are filled from DefaultConfig.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the top-level chatkit configuration.
type Config struct {
	User                 UserConfig       `yaml:"user"`
	Pagination           PaginationConfig `yaml:"pagination"`
	Recorder             RecorderConfig   `yaml:"recorder"`
	Media                MediaConfig      `yaml:"media"`
	Input                InputConfig      `yaml:"input"`
	Typing               TypingConfig     `yaml:"typing"`
	Logging              LoggingConfig    `yaml:"logging"`
	UI                   UIConfig         `yaml:"ui"`
	NotificationsEnabled *bool            `yaml:"notifications_enabled"`
}

// UserConfig identifies the local user in the host application.
type UserConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// PaginationConfig controls when older history is requested.
type PaginationConfig struct {
	Offset   *int `yaml:"offset"`    // Rows from the oldest loaded row that trigger a load
	PageSize *int `yaml:"page_size"` // Messages requested per load
}

// RecorderConfig controls audio capture.
type RecorderConfig struct {
	SampleInterval  *Duration `yaml:"sample_interval"`
	MaxDuration     *Duration `yaml:"max_duration"`      // Hard stop for any recording
	MaxHoldDuration *Duration `yaml:"max_hold_duration"` // Auto-stop for unlocked hold recordings
}

// MediaConfig controls attachment resolution.
type MediaConfig struct {
	CacheDir              string `yaml:"cache_dir"`
	ThumbnailSize         *int   `yaml:"thumbnail_size"` // Longest edge in pixels
	MaxConcurrentResolves *int   `yaml:"max_concurrent_resolves"`
}

// InputConfig controls the compose bar.
type InputConfig struct {
	MaxTextLength *int `yaml:"max_text_length"` // In grapheme clusters, 0 means unlimited
}

// TypingConfig controls the typing observer broadcast.
type TypingConfig struct {
	Buffer *int `yaml:"buffer"`
}

// LoggingConfig controls the debug log.
type LoggingConfig struct {
	Path  string `yaml:"path"`
	Debug *bool  `yaml:"debug"`
}

// UIConfig controls presentation.
type UIConfig struct {
	Theme        string `yaml:"theme"`        // Built-in theme name; unknown names fall back to the default
	Conversation string `yaml:"conversation"` // Title shown in the header
}

// Duration is a wrapper around time.Duration that implements YAML unmarshaling
// from human-readable strings like "100ms", "2m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

// Accessors below assume the config went through Merge.

func (c *Config) PaginationOffset() int {
	return *c.Pagination.Offset
}

func (c *Config) PageSize() int {
	return *c.Pagination.PageSize
}

func (c *Config) SampleInterval() time.Duration {
	return c.Recorder.SampleInterval.Duration
}

func (c *Config) MaxRecordingDuration() time.Duration {
	return c.Recorder.MaxDuration.Duration
}

func (c *Config) MaxHoldDuration() time.Duration {
	return c.Recorder.MaxHoldDuration.Duration
}

func (c *Config) ThumbnailSize() int {
	return *c.Media.ThumbnailSize
}

func (c *Config) MaxConcurrentResolves() int {
	return *c.Media.MaxConcurrentResolves
}

func (c *Config) MaxTextLength() int {
	return *c.Input.MaxTextLength
}

func (c *Config) TypingBuffer() int {
	return *c.Typing.Buffer
}

func (c *Config) Debug() bool {
	return *c.Logging.Debug
}

func (c *Config) Theme() string {
	return c.UI.Theme
}

func (c *Config) Notifications() bool {
	return *c.NotificationsEnabled
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".chatkit"), nil
}

// DefaultPath returns the path to the user's config file
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
