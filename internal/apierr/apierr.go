// Package apierr defines the error kinds of spec.md §7: two fatal bootstrap
// errors and two HTTP-facing request errors, each wrapping an underlying
// cause the way _examples/GoCodeAlone-EvoSim/web_interface.go wraps errors
// with %w throughout its handlers.
package apierr

import (
	"fmt"
	"net/http"
)

// ConfigLoadError is fatal at bootstrap: the configuration file could not
// be read or parsed.
type ConfigLoadError struct{ Cause error }

func (e *ConfigLoadError) Error() string { return fmt.Sprintf("config load error: %v", e.Cause) }
func (e *ConfigLoadError) Unwrap() error { return e.Cause }

// HeightMapMismatch is fatal at bootstrap: the height-map image's
// dimensions do not match the configured map_size.
type HeightMapMismatch struct {
	Expected, ActualWidth, ActualHeight int
}

func (e *HeightMapMismatch) Error() string {
	return fmt.Sprintf("height map is %dx%d, expected %dx%d", e.ActualWidth, e.ActualHeight, e.Expected, e.Expected)
}

// BadRequest is returned to an HTTP caller as 400: an out-of-range
// coordinate or a non-paintable color.
type BadRequest struct{ Cause error }

func (e *BadRequest) Error() string    { return fmt.Sprintf("bad request: %v", e.Cause) }
func (e *BadRequest) Unwrap() error    { return e.Cause }
func (e *BadRequest) StatusCode() int  { return http.StatusBadRequest }

// InternalError is returned to an HTTP caller as 500: an unexpected failure.
type InternalError struct{ Cause error }

func (e *InternalError) Error() string   { return fmt.Sprintf("internal error: %v", e.Cause) }
func (e *InternalError) Unwrap() error   { return e.Cause }
func (e *InternalError) StatusCode() int { return http.StatusInternalServerError }
