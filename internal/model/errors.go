package model

import (
	"errors"
	"fmt"
	"strings"
)

// InputError is returned when a run is started without a seed.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	if e.Reason == "" {
		return "input: provide a company URL or description"
	}
	return "input: " + e.Reason
}

// ConfigError lists required configuration items that are missing or invalid.
type ConfigError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, "; "))
	}
	return "config: " + strings.Join(parts, "; ")
}

// ProviderError wraps a failure from an external search, extraction or
// analysis provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err as coming from provider. A nil err stays nil.
func NewProviderError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Provider: provider, StatusCode: statusOf(err), Err: err}
}

// EmptyResultError marks a stage that produced nothing usable. It routes
// the run to the aborted state rather than failing it.
type EmptyResultError struct {
	Stage string
}

func (e *EmptyResultError) Error() string {
	return e.Stage + ": no usable results"
}

// IsInputError reports whether err (or its chain) is an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// IsConfigError reports whether err (or its chain) is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// AsProviderError extracts a ProviderError from err's chain.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// statusCoder is implemented by the API error types in pkg/.
type statusCoder interface {
	HTTPStatus() int
}

func statusOf(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return 0
}
