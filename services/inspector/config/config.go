// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the inspector's runtime configuration from the
// environment, with code defaults for everything except the provider
// credential. A missing credential is not a startup error: the gateway
// degrades to the fallback path and logs it, per the availability contract.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all externally configurable settings.
type Config struct {
	// Port is the HTTP listen port.
	Port string `validate:"required,numeric"`

	// DetectionAPIURL is the external inference provider base URL.
	DetectionAPIURL string `validate:"required,url"`

	// DetectionModelID is the hosted model path segment.
	DetectionModelID string `validate:"required"`

	// DetectionAPIKey authenticates provider calls. May be empty.
	DetectionAPIKey string

	// DetectionTimeout bounds one inference call.
	DetectionTimeout time.Duration `validate:"gt=0"`

	// ConfidenceThreshold is the provider-side minimum confidence percent.
	ConfidenceThreshold int `validate:"gte=0,lte=100"`

	// MaxUploadBytes is the upload size limit.
	MaxUploadBytes int64 `validate:"gt=0"`

	// MaxInFlight caps concurrent upstream inference calls.
	MaxInFlight int64 `validate:"gt=0"`
}

var configValidate = validator.New()

// Load reads configuration from the environment (after an optional .env
// file) and validates it.
func Load() (*Config, error) {
	// Load .env if present; ignore the error when the file is absent.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("INSPECTOR_PORT", "8090"),
		DetectionAPIURL:     getEnv("DETECTION_API_URL", "https://detect.roboflow.com"),
		DetectionModelID:    getEnv("DETECTION_MODEL_ID", "vehicle-damage-detection/3"),
		DetectionAPIKey:     os.Getenv("DETECTION_API_KEY"),
		DetectionTimeout:    time.Duration(getEnvInt("DETECTION_TIMEOUT_SECONDS", 30)) * time.Second,
		ConfidenceThreshold: getEnvInt("DETECTION_CONFIDENCE_THRESHOLD", 40),
		MaxUploadBytes:      int64(getEnvInt("MAX_UPLOAD_BYTES", 20*1024*1024)),
		MaxInFlight:         int64(getEnvInt("DETECTION_MAX_IN_FLIGHT", 8)),
	}

	if err := configValidate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getEnv returns the env value or the default when unset or empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the env value parsed as int, or the default when unset
// or unparseable.
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
