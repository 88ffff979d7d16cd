// Package provider holds the error vocabulary shared by the LLM and email adapters.
package provider

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when an adapter has no API key.
var ErrNotConfigured = errors.New("provider is not configured")

// Error describes a non-successful response from an upstream API.
type Error struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s API error: %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s API error: %d %s", e.Provider, e.StatusCode, e.Body)
}

// NotConfigured wraps ErrNotConfigured with the name of the missing variable.
func NotConfigured(envKey string) error {
	return fmt.Errorf("%s is not set: %w", envKey, ErrNotConfigured)
}
