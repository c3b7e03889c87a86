// Package errdefs defines the error taxonomy shared by the uploader:
// configuration errors, validation errors and upload errors. Every error
// carries the component that raised it and matches one of the sentinels below
// through errors.Is.
package errdefs

import (
	"errors"
	"fmt"
)

// Component names used as message prefixes.
const (
	ComponentPlugin  = "OSSPlugin"
	ComponentStorage = "OSSPlugin:OSS"
)

var (
	ErrConfig     = errors.New("configuration error")
	ErrValidation = errors.New("validation error")
	ErrUpload     = errors.New("upload error")
)

// ConfigError reports a missing or invalid option.
type ConfigError struct {
	Component string
	Field     string // option name, e.g. "bucket"; empty when the options as a whole are invalid
	Msg       string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s %s", prefix(e.Component), e.Msg)
	}
	return fmt.Sprintf("%s options.%s %s", prefix(e.Component), e.Field, e.Msg)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// ValidationError reports bad input to one of the pipeline stages.
type ValidationError struct {
	Component string
	Key       string // offending file or remote key, if any
	Msg       string
}

func (e *ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s %s", prefix(e.Component), e.Msg)
	}
	return fmt.Sprintf("%s %s: %s", prefix(e.Component), e.Key, e.Msg)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UploadError reports a put that failed or returned an unexpected response.
// Response holds whatever the storage client handed back, for diagnostics.
type UploadError struct {
	Component string
	Key       string
	Response  any
	Err       error
}

func (e *UploadError) Error() string {
	msg := fmt.Sprintf("%s uploaded %s wrong", prefix(e.Component), e.Key)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Response != nil {
		msg += fmt.Sprintf(", response is %+v", e.Response)
	}
	return msg
}

func (e *UploadError) Is(target error) bool { return target == ErrUpload }

func (e *UploadError) Unwrap() error { return e.Err }

// Config builds a ConfigError.
func Config(component, field, format string, args ...any) error {
	return &ConfigError{Component: component, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Validation builds a ValidationError.
func Validation(component, key, format string, args ...any) error {
	return &ValidationError{Component: component, Key: key, Msg: fmt.Sprintf(format, args...)}
}

// Upload builds an UploadError.
func Upload(component, key string, response any, err error) error {
	return &UploadError{Component: component, Key: key, Response: response, Err: err}
}

func prefix(component string) string {
	if component == "" {
		return ComponentPlugin
	}
	return component
}
