package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

/**
 * Custom error types for the roster extraction worker
 *
 * The taxonomy separates terminal pipeline failures (undecodable image,
 * OCR engine failure) from the expected no-names outcome so callers can
 * present different remediation messages.
 */

// ErrorCode enum for structured error handling
type ErrorCode string

const (
	// Pipeline errors
	ErrorPreprocessFailed ErrorCode = "PREPROCESS_FAILED"
	ErrorOCREngineFailed  ErrorCode = "OCR_ENGINE_FAILED"
	ErrorNoNamesFound     ErrorCode = "NO_NAMES_FOUND"

	// Job errors
	ErrorExtractionTimeout ErrorCode = "EXTRACTION_TIMEOUT"
	ErrorStorageFailed     ErrorCode = "STORAGE_FAILED"
)

// ExtractionError represents a structured extraction error
type ExtractionError struct {
	Code      ErrorCode
	Message   string
	JobID     string
	Timestamp time.Time
	Details   map[string]interface{}
	Cause     error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err is (or wraps) an ExtractionError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var e *ExtractionError
	return stderrors.As(err, &e) && e.Code == code
}

// Factory functions for common errors

func NewPreprocessFailedError(cause error) *ExtractionError {
	return &ExtractionError{
		Code:      ErrorPreprocessFailed,
		Message:   "Source image could not be decoded for preprocessing",
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

func NewOCREngineError(mode string, cause error) *ExtractionError {
	return &ExtractionError{
		Code:      ErrorOCREngineFailed,
		Message:   fmt.Sprintf("OCR engine failed in segmentation mode: %s", mode),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"segmentation_mode": mode,
		},
		Cause: cause,
	}
}

func NewNoNamesFoundError(passes int) *ExtractionError {
	return &ExtractionError{
		Code:      ErrorNoNamesFound,
		Message:   "No plausible player names were detected in the image",
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"passes": passes,
		},
	}
}

func NewExtractionTimeoutError(jobID string, duration time.Duration, cause error) *ExtractionError {
	return &ExtractionError{
		Code:      ErrorExtractionTimeout,
		Message:   fmt.Sprintf("Extraction timed out after %v", duration),
		JobID:     jobID,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"timeout_duration": duration.String(),
		},
		Cause: cause,
	}
}

func NewStorageFailedError(jobID string, cause error) *ExtractionError {
	return &ExtractionError{
		Code:      ErrorStorageFailed,
		Message:   "Failed to store extraction results",
		JobID:     jobID,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// ToMap converts error to map for database storage
func (e *ExtractionError) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error_code": string(e.Code),
		"message":    e.Message,
		"timestamp":  e.Timestamp,
	}

	for k, v := range e.Details {
		result[k] = v
	}

	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}

	return result
}
