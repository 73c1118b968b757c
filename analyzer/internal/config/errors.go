package config

import "fmt"

// ConfigurationError reports an option value that cannot be used. It is
// raised before any computation starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}
