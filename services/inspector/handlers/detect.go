// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers contains the Gin handlers for the damage inspector.
package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	"github.com/sehrish64-crew/TrueAutoCheck-sub000/pkg/validation"
	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/assess"
	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/datatypes"
	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/inference"
	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/middleware"
	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/observability"
)

// Create a new tracer
var handlersTracer = otel.Tracer("trueautocheck.inspector.handlers")

// imageFormField is the multipart field carrying the upload.
const imageFormField = "image"

// Detector is the inference gateway surface the handler depends on.
// Satisfied by *inference.Client; tests inject fakes.
type Detector interface {
	Detect(ctx context.Context, image []byte, contentType string) inference.Outcome
}

// DetectDamage handles a vehicle photo upload and runs the full assessment
// pipeline: validate, call the inference gateway, then either normalize the
// real predictions or synthesize the deterministic fallback. Always answers
// HTTP 200 with a complete DetectionResult unless the upload itself is
// invalid (400) or unreadable (500).
func DetectDamage(detector Detector, pipeline *assess.Pipeline, maxUploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := handlersTracer.Start(c.Request.Context(), "DetectDamage")
		defer span.End()

		m := observability.DefaultMetrics
		if m != nil {
			m.ActiveAnalyses.Inc()
			defer m.ActiveAnalyses.Dec()
		}

		file, header, err := c.Request.FormFile(imageFormField)
		if err != nil {
			rejectUpload(c, m, datatypes.CodeMissingFile, "no image file provided")
			return
		}
		defer file.Close()

		// The client-supplied filename is only ever echoed into logs, and only
		// after sanitation.
		fileName, nameErr := validation.SanitizeUploadFilename(header.Filename)
		if nameErr != nil {
			fileName = "upload"
		}

		contentType := validation.NormalizeContentType(header.Header.Get("Content-Type"))
		meta := datatypes.UploadMeta{ContentType: contentType, SizeBytes: header.Size}
		if verr := meta.Validate(maxUploadBytes); verr != nil {
			rejectUpload(c, m, verr.Code, verr.Message)
			return
		}

		image, err := io.ReadAll(file)
		if err != nil {
			slog.Error("Failed to read upload stream",
				"request_id", middleware.GetRequestID(c), "error", err)
			span.RecordError(err)
			if m != nil {
				m.RequestsTotal.WithLabelValues(observability.StatusFailed).Inc()
			}
			c.JSON(http.StatusInternalServerError,
				datatypes.NewErrorResponse(datatypes.CodeProcessingError, "failed to process the uploaded image"))
			return
		}

		start := time.Now()
		outcome := detector.Detect(ctx, image, contentType)
		if m != nil {
			m.InferenceLatencySeconds.Observe(time.Since(start).Seconds())
		}

		var result datatypes.DetectionResult
		if outcome.OK {
			damages, dropped := pipeline.Normalize(outcome.Predictions, outcome.ImageWidth, outcome.ImageHeight)
			result = assess.Assemble(damages, assess.Aggregate(damages))
			if m != nil {
				m.RequestsTotal.WithLabelValues(observability.StatusDetected).Inc()
				if dropped > 0 {
					m.PredictionsDroppedTotal.Add(float64(dropped))
				}
				for _, d := range damages {
					m.DetectionsTotal.WithLabelValues(string(d.Type)).Inc()
				}
			}
		} else {
			slog.Warn("Inference unavailable, serving synthesized assessment",
				"request_id", middleware.GetRequestID(c),
				"reason", outcome.Reason,
				"image_bytes", len(image))
			damages, overall := assess.Synthesize(len(image))
			result = assess.Assemble(damages, overall)
			if m != nil {
				m.RequestsTotal.WithLabelValues(observability.StatusFallback).Inc()
				m.FallbacksTotal.WithLabelValues(outcome.Reason).Inc()
			}
		}

		slog.Info("Damage assessment complete",
			"request_id", middleware.GetRequestID(c),
			"file", fileName,
			"total_detected", result.TotalDetected,
			"overall", result.OverallAssessment,
			"degraded", !outcome.OK)
		c.JSON(http.StatusOK, result)
	}
}

// rejectUpload answers a validation failure with its stable code.
func rejectUpload(c *gin.Context, m *observability.InspectorMetrics, code, message string) {
	if m != nil {
		m.RequestsTotal.WithLabelValues(observability.StatusRejected).Inc()
	}
	c.JSON(http.StatusBadRequest, datatypes.NewErrorResponse(code, message))
}
