package entities

import (
	"errors"
	"fmt"
)

// ConversionErrorType categorizes different types of pipeline failures
type ConversionErrorType string

const (
	ErrorTypeUploadTooLarge ConversionErrorType = "upload_too_large"
	ErrorTypeExtraction     ConversionErrorType = "extraction"
	ErrorTypeGeneration     ConversionErrorType = "generation"
	ErrorTypeDeckRender     ConversionErrorType = "deck_render"
	ErrorTypeSession        ConversionErrorType = "session"
)

// ConversionError provides detailed error information with categorization.
// Every failure surfaces to the user as a human-readable message; the wrapped
// cause stays server-side.
type ConversionError struct {
	Type    ConversionErrorType `json:"type"`
	Message string              `json:"message"`
	Cause   error               `json:"-"`
}

func (e *ConversionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// NewUploadTooLargeError reports an upload rejected before any processing
func NewUploadTooLargeError(maxMB int64) *ConversionError {
	return &ConversionError{
		Type:    ErrorTypeUploadTooLarge,
		Message: fmt.Sprintf("file too large (max %dMB)", maxMB),
	}
}

// NewExtractionError reports that no strategy yielded sufficient text
func NewExtractionError(message string, cause error) *ConversionError {
	return &ConversionError{
		Type:    ErrorTypeExtraction,
		Message: message,
		Cause:   cause,
	}
}

// NewGenerationError reports a generation service failure; never retried
func NewGenerationError(message string, cause error) *ConversionError {
	return &ConversionError{
		Type:    ErrorTypeGeneration,
		Message: message,
		Cause:   cause,
	}
}

// NewDeckRenderError reports an unexpected serialization fault; the operation
// yields no artifact
func NewDeckRenderError(message string, cause error) *ConversionError {
	return &ConversionError{
		Type:    ErrorTypeDeckRender,
		Message: message,
		Cause:   cause,
	}
}

// NewSessionError reports an unknown or expired session
func NewSessionError(message string) *ConversionError {
	return &ConversionError{
		Type:    ErrorTypeSession,
		Message: message,
	}
}

// ConversionTypeOf extracts the category from an error chain; ok is false
// when no ConversionError is present.
func ConversionTypeOf(err error) (ConversionErrorType, bool) {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Type, true
	}
	return "", false
}
