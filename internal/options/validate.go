// Package options validates functional options before a pipeline runs.
package options

import "github.com/erraggy/refparser/referrors"

// ValidateSingleInputSource returns a *referrors.ConfigError unless exactly
// one of sources is true. The messages are used for the none and many cases.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	n := 0
	for _, set := range sources {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return &referrors.ConfigError{Option: "input", Message: noSourceMsg}
	case n > 1:
		return &referrors.ConfigError{Option: "input", Value: n, Message: multiSourceMsg}
	}
	return nil
}

// ValidatePositive ensures a numeric limit option is greater than zero.
func ValidatePositive(option string, value int64) error {
	if value <= 0 {
		return &referrors.ConfigError{Option: option, Value: value, Message: "must be positive"}
	}
	return nil
}
