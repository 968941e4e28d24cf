package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-screener/src/logger"
)

// ErrNoData means the upstream source answered but had nothing for the ticker.
var ErrNoData = errors.New("no data available")

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type ScreenerError struct {
	Message string
	Cause   error
}

func (e *ScreenerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ScreenerError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As
type ConfigurationError struct{ ScreenerError }
type NetworkError struct{ ScreenerError }
type StorageError struct{ ScreenerError }

// ProviderError is a failed fetch for one ticker from one source.
type ProviderError struct {
	ScreenerError
	Source string
	Ticker string
}

// NoDataError wraps ErrNoData with the ticker it concerns.
type NoDataError struct {
	Ticker string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("%s: %s", e.Ticker, ErrNoData.Error())
}

func (e *NoDataError) Unwrap() error {
	return ErrNoData
}

// -----------------------------------------------------------------------------

func NewProviderError(source, ticker string, cause error) *ProviderError {
	return &ProviderError{
		ScreenerError: ScreenerError{Message: fmt.Sprintf("%s fetch for %s failed", source, ticker), Cause: cause},
		Source:        source,
		Ticker:        ticker,
	}
}

func NewStorageError(operation string, cause error) *StorageError {
	return &StorageError{ScreenerError{Message: operation + " failed", Cause: cause}}
}

func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{ScreenerError{Message: fmt.Sprintf(format, args...)}}
}

func NewNetworkError(message string, cause error) *NetworkError {
	return &NetworkError{ScreenerError{Message: message, Cause: cause}}
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff runs fn up to maxRetries times, doubling baseDelay after
// each failure. ErrNoData and context cancellation are returned at once.
func RetryWithBackoff[T any](ctx context.Context, log *logger.Logger, operation string, maxRetries int, baseDelay time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	if maxRetries < 1 {
		maxRetries = 1
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}

		lastErr = err
		if errors.Is(err, ErrNoData) || ctx.Err() != nil || attempt == maxRetries-1 {
			break
		}

		delay := baseDelay * (1 << attempt)
		if log != nil {
			log.Warning("Attempt %d/%d failed for %s: %v. Retrying in %v", attempt+1, maxRetries, operation, err, delay)
		}

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%s: %w", operation, ctx.Err())
		case <-time.After(delay):
		}
	}

	return zero, lastErr
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

// ErrorHandler tracks consecutive failures of a recurring job.
type ErrorHandler struct {
	Logger                 *logger.Logger
	ErrorCount             int
	MaxErrorsBeforeBackoff int
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	if log == nil {
		log = logger.NewLogger(nil, "ErrorHandler")
	}
	return &ErrorHandler{
		Logger:                 log,
		MaxErrorsBeforeBackoff: 5,
	}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ResetErrorCount() {
	e.ErrorCount = 0
}

// -----------------------------------------------------------------------------

// Handle logs err and counts it. A nil error resets the counter.
func (e *ErrorHandler) Handle(err error, context string) {
	if err == nil {
		e.ResetErrorCount()
		return
	}
	e.ErrorCount++
	e.Logger.Error("Error in %s (%d consecutive): %v", context, e.ErrorCount, err)
}

// -----------------------------------------------------------------------------

// ShouldBackOff reports whether enough consecutive failures piled up that
// the caller should skip work for a while.
func (e *ErrorHandler) ShouldBackOff() bool {
	return e.ErrorCount >= e.MaxErrorsBeforeBackoff
}
