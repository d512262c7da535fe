package reference

import "fmt"

// ConfigurationError means the store cannot operate: the reference directory
// is missing or an exclude glob is malformed. It is never retried.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("reference: invalid configuration for %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ParseError reports one reference file that could not be read or decoded.
// Builders log it and continue without the file.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("reference: parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
