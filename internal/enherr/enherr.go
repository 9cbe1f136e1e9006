// Package enherr defines the structured error taxonomy for the enhancement
// engine. Every failure that crosses the library boundary is an *Error
// carrying a machine-readable code, a recommended recovery strategy, and
// enough user-facing text that a generic error surface needs no per-code
// special-casing. The engine only classifies failures — applying a recovery
// strategy (retry, CPU fallback, quality reduction) is the caller's call.
package enherr

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Code identifies the kind of failure.
type Code string

const (
	CodeGPUNotAvailable     Code = "GPU_NOT_AVAILABLE"
	CodeInsufficientMemory  Code = "INSUFFICIENT_MEMORY"
	CodeMemoryLimitExceeded Code = "MEMORY_LIMIT_EXCEEDED"
	CodeProcessingFailed    Code = "PROCESSING_FAILED"
	CodeInvalidVideoFormat  Code = "INVALID_VIDEO_FORMAT"
	CodeInvalidAudioFormat  Code = "INVALID_AUDIO_FORMAT"
	CodeUnsupported         Code = "UNSUPPORTED_ENVIRONMENT"
	CodeCancelled           Code = "OPERATION_CANCELLED"
	CodeUnknown             Code = "UNKNOWN_ERROR"
)

// Strategy is the recommended remediation class for a failure.
type Strategy string

const (
	StrategyRetry           Strategy = "RETRY"
	StrategyFallbackToCPU   Strategy = "FALLBACK_TO_CPU"
	StrategyReduceQuality   Strategy = "REDUCE_QUALITY"
	StrategySkipEnhancement Strategy = "SKIP_ENHANCEMENT"
	StrategyChunkProcessing Strategy = "CHUNK_PROCESSING"
	StrategyNone            Strategy = "NONE"
)

// Error is the structured enhancement error. Immutable once constructed;
// With returns a copy rather than mutating in place.
type Error struct {
	Code        Code
	Message     string
	UserMessage string
	Suggestion  string
	Strategy    Strategy
	Recoverable bool
	Context     map[string]string

	cause error
}

// defaults maps each code to its user-facing text and recovery policy.
// Strategy None implies non-recoverable regardless of the flag.
var defaults = map[Code]struct {
	userMessage string
	suggestion  string
	strategy    Strategy
	recoverable bool
}{
	CodeGPUNotAvailable: {
		userMessage: "Hardware acceleration is not available.",
		suggestion:  "Enhancement will run on the CPU; processing may be slower.",
		strategy:    StrategyFallbackToCPU,
		recoverable: true,
	},
	CodeInsufficientMemory: {
		userMessage: "There is not enough memory to process this recording.",
		suggestion:  "Close other applications or lower the output resolution.",
		strategy:    StrategyReduceQuality,
		recoverable: true,
	},
	CodeMemoryLimitExceeded: {
		userMessage: "Memory usage exceeded the configured limit.",
		suggestion:  "Process the recording in smaller chunks.",
		strategy:    StrategyChunkProcessing,
		recoverable: true,
	},
	CodeProcessingFailed: {
		userMessage: "Enhancement failed while processing.",
		suggestion:  "Try again, or disable the failing effect.",
		strategy:    StrategyRetry,
		recoverable: true,
	},
	CodeInvalidVideoFormat: {
		userMessage: "The video frame data is malformed.",
		suggestion:  "Re-record or re-export the source video.",
		strategy:    StrategySkipEnhancement,
		recoverable: true,
	},
	CodeInvalidAudioFormat: {
		userMessage: "The audio data is malformed.",
		suggestion:  "Re-record or re-export the source audio.",
		strategy:    StrategySkipEnhancement,
		recoverable: true,
	},
	CodeUnsupported: {
		userMessage: "This environment does not support the requested feature.",
		suggestion:  "Update your installation or disable the feature.",
		strategy:    StrategyNone,
		recoverable: false,
	},
	CodeCancelled: {
		userMessage: "Enhancement was cancelled.",
		suggestion:  "Restart the enhancement to process the remaining frames.",
		strategy:    StrategyNone,
		recoverable: false,
	},
	CodeUnknown: {
		userMessage: "An unexpected error occurred during enhancement.",
		suggestion:  "Try again; report the issue if it persists.",
		strategy:    StrategyRetry,
		recoverable: true,
	},
}

// New constructs an Error for the given code with default user text,
// strategy, and recoverable flag.
func New(code Code, format string, args ...any) *Error {
	d, ok := defaults[code]
	if !ok {
		d = defaults[CodeUnknown]
	}
	return &Error{
		Code:        code,
		Message:     fmt.Sprintf(format, args...),
		UserMessage: d.userMessage,
		Suggestion:  d.suggestion,
		Strategy:    d.strategy,
		Recoverable: d.recoverable && d.strategy != StrategyNone,
	}
}

// Wrap constructs an Error for the given code that records err as its cause.
func Wrap(err error, code Code, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.cause = err
	return e
}

// Classify returns err as an *Error if it already is one, maps context
// cancellation to CodeCancelled, and wraps everything else under
// CodeUnknown. Guarantees no unclassified error crosses the library
// boundary.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, CodeCancelled, "operation cancelled")
	}
	return Wrap(err, CodeUnknown, "%s", err.Error())
}

// With returns a copy of the error with an added context key/value pair.
func (e *Error) With(key, value string) *Error {
	c := *e
	c.Context = make(map[string]string, len(e.Context)+1)
	for k, v := range e.Context {
		c.Context[k] = v
	}
	c.Context[key] = value
	return &c
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
