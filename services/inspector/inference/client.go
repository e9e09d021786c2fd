// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package inference is the gateway to the external damage-detection provider.
//
// # Description
//
// The gateway posts validated image bytes to a hosted detection model and
// decodes the prediction list. Every failure mode on this path (missing
// credential, capacity wait timeout, transport error, non-2xx status,
// malformed body) collapses into an Unavailable outcome with a stable reason
// string. The gateway never returns an error to callers: unavailability is a
// designed degrade path, not a fault.
//
// # Request Shape
//
//	POST {base}/{model}?api_key={key}&confidence={threshold}
//	Body: raw image bytes, Content-Type as declared by the upload
//
// Expected response body:
//
//	{ "predictions": [ {class, confidence, x, y, width, height}, ... ],
//	  "image": { "width": W, "height": H } }
//
// # Concurrency
//
// A weighted semaphore caps in-flight upstream calls. Waiting for a slot
// happens under the caller's deadline, so a saturated gateway degrades to
// fallback instead of queueing unboundedly.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/semaphore"

	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/datatypes"
)

// Tracer for gateway spans.
var inferenceTracer = otel.Tracer("trueautocheck.inspector.inference")

// Unavailability reasons. Stable strings: they label the fallback metric.
const (
	ReasonMissingCredential = "missing_credential"
	ReasonCapacity          = "capacity"
	ReasonTransport         = "transport_error"
	ReasonBadStatus         = "bad_status"
	ReasonMalformedBody     = "malformed_body"
)

// DefaultTimeout bounds a single inference call end to end.
const DefaultTimeout = 30 * time.Second

// DefaultMaxInFlight caps concurrent upstream calls.
const DefaultMaxInFlight = 8

// HTTPClient interface allows injecting mock HTTP clients for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Outcome is the tagged result of one inference attempt: either a prediction
// list with the inference image dimensions, or an unavailability reason.
type Outcome struct {
	OK          bool
	Reason      string
	Predictions []datatypes.RawPrediction
	ImageWidth  int
	ImageHeight int
}

// Available builds a successful outcome.
func Available(preds []datatypes.RawPrediction, width, height int) Outcome {
	return Outcome{OK: true, Predictions: preds, ImageWidth: width, ImageHeight: height}
}

// Unavailable builds a degraded outcome with a stable reason.
func Unavailable(reason string) Outcome {
	return Outcome{OK: false, Reason: reason}
}

// Config holds the provider settings for a Client.
type Config struct {
	// BaseURL is the provider endpoint, e.g. "https://detect.example.com".
	BaseURL string
	// ModelID is the hosted model path segment, e.g. "car-damage/3".
	ModelID string
	// APIKey authenticates the call. Empty key means the gateway reports
	// unavailability without issuing a request.
	APIKey string
	// ConfidenceThreshold is the provider-side minimum confidence in
	// percent (the provider convention), e.g. 40.
	ConfidenceThreshold int
	// Timeout bounds one call including the capacity wait. Zero means
	// DefaultTimeout.
	Timeout time.Duration
	// MaxInFlight caps concurrent upstream calls. Zero means
	// DefaultMaxInFlight.
	MaxInFlight int64
}

// Client calls the external detection provider. Safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient HTTPClient
	slots      *semaphore.Weighted
}

// NewClient builds a gateway client. httpClient may be nil, in which case a
// plain http.Client is used (the per-call context carries the deadline).
func NewClient(cfg Config, httpClient HTTPClient) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = DefaultMaxInFlight
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		slots:      semaphore.NewWeighted(cfg.MaxInFlight),
	}
}

// providerResponse is the provider's wire shape.
type providerResponse struct {
	Predictions []datatypes.RawPrediction `json:"predictions"`
	Image       struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"image"`
}

// Detect runs a single inference attempt for the given image bytes.
//
// One attempt only, no retries: a second 30s window would double worst-case
// latency for a feature that has a deterministic fallback. Failures are
// logged here and reported as Unavailable; callers switch to the fallback
// synthesizer on any non-OK outcome.
func (c *Client) Detect(ctx context.Context, image []byte, contentType string) Outcome {
	ctx, span := inferenceTracer.Start(ctx, "inference.Detect")
	defer span.End()

	if c.cfg.APIKey == "" {
		slog.Warn("Detection provider credential is not configured, degrading to fallback")
		return Unavailable(ReasonMissingCredential)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	// The capacity wait shares the call deadline so saturation degrades
	// instead of queueing.
	if err := c.slots.Acquire(ctx, 1); err != nil {
		slog.Warn("Inference capacity wait expired", "error", err)
		span.RecordError(err)
		return Unavailable(ReasonCapacity)
	}
	defer c.slots.Release(1)

	endpoint, err := c.requestURL()
	if err != nil {
		slog.Error("Invalid detection provider configuration", "error", err)
		span.RecordError(err)
		return Unavailable(ReasonTransport)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(image))
	if err != nil {
		slog.Error("Failed to build inference request", "error", err)
		span.RecordError(err)
		return Unavailable(ReasonTransport)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("Inference call failed, degrading to fallback", "error", err)
		span.RecordError(err)
		return Unavailable(ReasonTransport)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("Inference provider returned non-success status, degrading to fallback",
			"status", resp.Status)
		return Unavailable(ReasonBadStatus)
	}

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		slog.Warn("Failed to decode inference response, degrading to fallback", "error", err)
		span.RecordError(err)
		return Unavailable(ReasonMalformedBody)
	}

	slog.Info("Inference call succeeded",
		"predictions", len(body.Predictions),
		"image_width", body.Image.Width,
		"image_height", body.Image.Height)
	return Available(body.Predictions, body.Image.Width, body.Image.Height)
}

// requestURL assembles the provider URL with credential and threshold params.
func (c *Client) requestURL() (string, error) {
	u, err := url.Parse(fmt.Sprintf("%s/%s", c.cfg.BaseURL, c.cfg.ModelID))
	if err != nil {
		return "", fmt.Errorf("parse provider URL: %w", err)
	}
	q := u.Query()
	q.Set("api_key", c.cfg.APIKey)
	q.Set("confidence", strconv.Itoa(c.cfg.ConfidenceThreshold))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
