package flame

import (
	"errors"
	"fmt"
)

// Domain errors for the fire pipeline.
var (
	// ErrConfiguration indicates parameters that can never produce a valid run.
	ErrConfiguration = errors.New("flame: invalid configuration")

	// ErrQuantizationOverflow indicates a cell whose bin falls outside the palette.
	ErrQuantizationOverflow = errors.New("flame: quantization overflow")
)

// ConfigError names the offending setting.
type ConfigError struct {
	Field  string
	Reason string
}

// Configf builds a ConfigError with a formatted reason.
func Configf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// QuantizationError reports the first out-of-range cell of a frame.
type QuantizationError struct {
	Row, Col int
	Bin      int
	Bins     int
}

func (e *QuantizationError) Error() string {
	return fmt.Sprintf("%s: bin %d at (%d,%d) outside [0,%d]", ErrQuantizationOverflow, e.Bin, e.Row, e.Col, e.Bins-1)
}

func (e *QuantizationError) Unwrap() error {
	return ErrQuantizationOverflow
}
