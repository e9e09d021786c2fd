// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Upload validation types and error codes for the detect endpoint.
package datatypes

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sehrish64-crew/TrueAutoCheck-sub000/pkg/validation"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultMaxUploadBytes is the default upload size limit (20 MiB).
	DefaultMaxUploadBytes int64 = 20 * 1024 * 1024
)

// Validation error codes surfaced to the HTTP caller.
const (
	CodeMissingFile     = "MISSING_FILE"
	CodeInvalidMIMEType = "INVALID_MIME_TYPE"
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeProcessingError = "PROCESSING_ERROR"
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// uploadValidate is the validator instance for upload datatypes.
// Initialized in init() with custom validators.
var uploadValidate *validator.Validate

func init() {
	uploadValidate = validator.New()

	_ = uploadValidate.RegisterValidation("imagemime", validateImageMIME)
}

// validateImageMIME checks that a declared content type is one of the
// accepted image types. Delegates to pkg/validation so the whitelist has a
// single owner.
func validateImageMIME(fl validator.FieldLevel) bool {
	return validation.ValidateImageType(fl.Field().String()) == nil
}

// =============================================================================
// Upload Metadata
// =============================================================================

// UploadMeta describes a candidate upload before any bytes reach the
// inference gateway: the declared content type and byte size of the file
// part. It exists so the input check is a pure function of its fields.
type UploadMeta struct {
	ContentType string `validate:"required,imagemime"`
	SizeBytes   int64  `validate:"gt=0"`
}

// ValidationError is a rejected upload with a stable machine-readable code.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks the upload metadata against the accepted types and the
// size limit. maxBytes <= 0 falls back to DefaultMaxUploadBytes.
//
// Pure function of its inputs; no side effects.
func (m UploadMeta) Validate(maxBytes int64) *ValidationError {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}

	// Presence is checked before anything else so an empty part reports
	// MISSING_FILE rather than a type mismatch.
	if m.SizeBytes <= 0 {
		return &ValidationError{Code: CodeMissingFile, Message: "no image file provided"}
	}

	if err := uploadValidate.Struct(m); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				switch fe.Field() {
				case "ContentType":
					return &ValidationError{
						Code:    CodeInvalidMIMEType,
						Message: "unsupported image type; accepted: image/jpeg, image/jpg, image/png, image/webp",
					}
				case "SizeBytes":
					return &ValidationError{
						Code:    CodeMissingFile,
						Message: "no image file provided",
					}
				}
			}
		}
		return &ValidationError{Code: CodeMissingFile, Message: "no image file provided"}
	}

	if m.SizeBytes > maxBytes {
		return &ValidationError{
			Code:    CodeFileTooLarge,
			Message: fmt.Sprintf("image exceeds the maximum upload size of %d MiB", maxBytes/(1024*1024)),
		}
	}

	return nil
}

// =============================================================================
// Error Response
// =============================================================================

// ErrorResponse is the JSON error payload for the detect endpoint.
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Code      string `json:"code"`
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Code:      code,
	}
}
