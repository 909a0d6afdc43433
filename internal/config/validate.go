package config

import (
	"fmt"
	"time"
)

// ValidationError describes a single validation problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a merged Config and returns all problems found.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if cfg.PaginationOffset() < 0 {
		errs = append(errs, ValidationError{
			Field:   "pagination.offset",
			Message: "must not be negative",
		})
	}
	if cfg.PageSize() < 1 {
		errs = append(errs, ValidationError{
			Field:   "pagination.page_size",
			Message: "must be at least 1",
		})
	}

	if cfg.SampleInterval() < 10*time.Millisecond {
		errs = append(errs, ValidationError{
			Field:   "recorder.sample_interval",
			Message: fmt.Sprintf("%s is too short (minimum 10ms)", cfg.SampleInterval()),
		})
	}
	if cfg.MaxRecordingDuration() <= 0 {
		errs = append(errs, ValidationError{
			Field:   "recorder.max_duration",
			Message: "must be positive",
		})
	}
	if cfg.MaxHoldDuration() <= 0 || cfg.MaxHoldDuration() > cfg.MaxRecordingDuration() {
		errs = append(errs, ValidationError{
			Field:   "recorder.max_hold_duration",
			Message: "must be positive and not exceed recorder.max_duration",
		})
	}

	if cfg.ThumbnailSize() < 16 {
		errs = append(errs, ValidationError{
			Field:   "media.thumbnail_size",
			Message: "must be at least 16 pixels",
		})
	}
	if cfg.MaxConcurrentResolves() < 1 {
		errs = append(errs, ValidationError{
			Field:   "media.max_concurrent_resolves",
			Message: "must be at least 1",
		})
	}

	if cfg.MaxTextLength() < 0 {
		errs = append(errs, ValidationError{
			Field:   "input.max_text_length",
			Message: "must not be negative",
		})
	}
	if cfg.TypingBuffer() < 1 {
		errs = append(errs, ValidationError{
			Field:   "typing.buffer",
			Message: "must be at least 1",
		})
	}

	return errs
}
