package cli

import "fmt"

// ConfigError reports an invalid or unloadable configuration value.
type ConfigError struct {
	// Field is the dotted config path, empty when the file itself
	// failed to load or parse.
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration invalid: %s", e.Message)
	}
	return fmt.Sprintf("configuration field %s: %s", e.Field, e.Message)
}

// CommandError wraps a failure from a brainbot subcommand with the
// subcommand's name, so top-level error output says which one failed.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("brainbot %s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError wraps err under the named subcommand.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}
