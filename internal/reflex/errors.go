package reflex

import (
	"errors"
	"strings"
)

var (
	// ErrConfiguration indicates at least one error-severity finding.
	ErrConfiguration = errors.New("reflex: invalid configuration")

	// ErrUnknownTopology indicates a topology name missing from the registry.
	ErrUnknownTopology = errors.New("reflex: unknown topology")
)

// ConfigurationError carries every error finding of a failed validation.
type ConfigurationError struct {
	Title    string
	Findings []Finding
}

func (e *ConfigurationError) Error() string {
	msgs := make([]string, len(e.Findings))
	for i, f := range e.Findings {
		msgs[i] = f.Message
	}
	return e.Title + " configuration errors:\n" + strings.Join(msgs, "\n")
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
