package config

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	offset := 3
	pageSize := 20
	sampleInterval := Duration{100 * time.Millisecond}
	maxDuration := Duration{10 * time.Minute}
	maxHold := Duration{time.Minute}
	thumbnailSize := 320
	maxResolves := 4
	maxText := 4096
	typingBuffer := 16
	debug := false
	notifications := false

	return &Config{
		User: UserConfig{
			ID:   "me",
			Name: "You",
		},
		Pagination: PaginationConfig{
			Offset:   &offset,
			PageSize: &pageSize,
		},
		Recorder: RecorderConfig{
			SampleInterval:  &sampleInterval,
			MaxDuration:     &maxDuration,
			MaxHoldDuration: &maxHold,
		},
		Media: MediaConfig{
			CacheDir:              filepath.Join(os.TempDir(), "chatkit-media"),
			ThumbnailSize:         &thumbnailSize,
			MaxConcurrentResolves: &maxResolves,
		},
		Input: InputConfig{
			MaxTextLength: &maxText,
		},
		Typing: TypingConfig{
			Buffer: &typingBuffer,
		},
		Logging: LoggingConfig{
			Debug: &debug,
		},
		UI: UIConfig{
			Theme:        "dark-purple",
			Conversation: "General",
		},
		NotificationsEnabled: &notifications,
	}
}

// Merge fills in missing values in partial from defaults.
// partial takes precedence; defaults fill gaps.
func Merge(partial, defaults *Config) *Config {
	result := *partial

	if result.User.ID == "" {
		result.User.ID = defaults.User.ID
	}
	if result.User.Name == "" {
		result.User.Name = defaults.User.Name
	}

	if result.Pagination.Offset == nil {
		result.Pagination.Offset = defaults.Pagination.Offset
	}
	if result.Pagination.PageSize == nil {
		result.Pagination.PageSize = defaults.Pagination.PageSize
	}

	if result.Recorder.SampleInterval == nil {
		result.Recorder.SampleInterval = defaults.Recorder.SampleInterval
	}
	if result.Recorder.MaxDuration == nil {
		result.Recorder.MaxDuration = defaults.Recorder.MaxDuration
	}
	if result.Recorder.MaxHoldDuration == nil {
		result.Recorder.MaxHoldDuration = defaults.Recorder.MaxHoldDuration
	}

	if result.Media.CacheDir == "" {
		result.Media.CacheDir = defaults.Media.CacheDir
	}
	if result.Media.ThumbnailSize == nil {
		result.Media.ThumbnailSize = defaults.Media.ThumbnailSize
	}
	if result.Media.MaxConcurrentResolves == nil {
		result.Media.MaxConcurrentResolves = defaults.Media.MaxConcurrentResolves
	}

	if result.Input.MaxTextLength == nil {
		result.Input.MaxTextLength = defaults.Input.MaxTextLength
	}
	if result.Typing.Buffer == nil {
		result.Typing.Buffer = defaults.Typing.Buffer
	}

	if result.Logging.Path == "" {
		result.Logging.Path = defaults.Logging.Path
	}
	if result.Logging.Debug == nil {
		result.Logging.Debug = defaults.Logging.Debug
	}
	if result.UI.Theme == "" {
		result.UI.Theme = defaults.UI.Theme
	}
	if result.UI.Conversation == "" {
		result.UI.Conversation = defaults.UI.Conversation
	}
	if result.NotificationsEnabled == nil {
		result.NotificationsEnabled = defaults.NotificationsEnabled
	}

	return &result
}
