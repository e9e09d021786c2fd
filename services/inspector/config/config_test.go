// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for configuration loading

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "https://detect.roboflow.com", cfg.DetectionAPIURL)
	assert.Equal(t, "vehicle-damage-detection/3", cfg.DetectionModelID)
	assert.Equal(t, 30*time.Second, cfg.DetectionTimeout)
	assert.Equal(t, 40, cfg.ConfidenceThreshold)
	assert.Equal(t, int64(20*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, int64(8), cfg.MaxInFlight)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("INSPECTOR_PORT", "9999")
	t.Setenv("DETECTION_API_URL", "https://inference.internal")
	t.Setenv("DETECTION_MODEL_ID", "car-damage/7")
	t.Setenv("DETECTION_API_KEY", "secret")
	t.Setenv("DETECTION_TIMEOUT_SECONDS", "5")
	t.Setenv("DETECTION_CONFIDENCE_THRESHOLD", "60")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("DETECTION_MAX_IN_FLIGHT", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "https://inference.internal", cfg.DetectionAPIURL)
	assert.Equal(t, "car-damage/7", cfg.DetectionModelID)
	assert.Equal(t, "secret", cfg.DetectionAPIKey)
	assert.Equal(t, 5*time.Second, cfg.DetectionTimeout)
	assert.Equal(t, 60, cfg.ConfidenceThreshold)
	assert.Equal(t, int64(1048576), cfg.MaxUploadBytes)
	assert.Equal(t, int64(2), cfg.MaxInFlight)
}

func TestLoad_EmptyAPIKeyIsNotAnError(t *testing.T) {
	t.Setenv("DETECTION_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DetectionAPIKey)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "INSPECTOR_PORT", "web"},
		{"bad provider url", "DETECTION_API_URL", "not a url"},
		{"threshold above 100", "DETECTION_CONFIDENCE_THRESHOLD", "150"},
		{"negative timeout", "DETECTION_TIMEOUT_SECONDS", "-1"},
		{"zero upload limit", "MAX_UPLOAD_BYTES", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetEnvInt_Unparseable(t *testing.T) {
	t.Setenv("DETECTION_MAX_IN_FLIGHT", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(8), cfg.MaxInFlight)
}
