// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that cross a trust
// boundary (uploaded files, declared content types, filenames). Using these
// validators prevents content-type smuggling and path traversal via uploaded
// filenames.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// AllowedImageTypes lists the declared MIME types the inspector accepts.
// Order is not significant; lookups are exact after normalization.
var AllowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/webp",
}

// filenamePattern matches safe uploaded filenames: a base name with an image
// extension, no path separators, no leading dots.
// Max length: 128 characters.
var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-]{0,123}\.(jpe?g|png|webp)$`)

// ValidateImageType validates a declared MIME type against the accepted image
// types. Comparison happens after trimming whitespace, lower-casing, and
// stripping any media-type parameters ("image/jpeg; charset=binary").
//
// Returns an error if the type is not an accepted image type.
//
// Example:
//
//	if err := validation.ValidateImageType(header.Header.Get("Content-Type")); err != nil {
//	    return nil, fmt.Errorf("invalid upload: %w", err)
//	}
func ValidateImageType(contentType string) error {
	normalized := NormalizeContentType(contentType)
	if normalized == "" {
		return fmt.Errorf("content type cannot be empty")
	}

	for _, allowed := range AllowedImageTypes {
		if normalized == allowed {
			return nil
		}
	}
	return fmt.Errorf("unsupported content type: %q (accepted: %v)", normalized, AllowedImageTypes)
}

// NormalizeContentType lower-cases a declared content type and strips any
// parameters after the first semicolon.
func NormalizeContentType(contentType string) string {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(normalized, ";"); idx != -1 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	return normalized
}

// SanitizeUploadFilename validates and normalizes an uploaded filename so it
// is safe to echo into logs or use as a storage key.
// Returns the lower-cased filename if valid, or an error if invalid.
//
// Use this when you need both validation and normalization:
//
//	safeName, err := validation.SanitizeUploadFilename(header.Filename)
//	if err != nil {
//	    return err
//	}
func SanitizeUploadFilename(filename string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(filename))
	if normalized == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}
	if strings.ContainsAny(normalized, `/\`) {
		return "", fmt.Errorf("filename must not contain path separators: %q", filename)
	}
	if !filenamePattern.MatchString(normalized) {
		return "", fmt.Errorf("invalid filename: %q (must be alphanumeric with a jpg/jpeg/png/webp extension)", filename)
	}
	return normalized, nil
}
