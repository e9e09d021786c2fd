// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides data structures for the damage inspector service.
//
// This file contains the public wire types for the detect endpoint: the
// normalized damage records returned to callers and the coarse damage/severity
// taxonomies. Upload validation types live in upload.go.
package datatypes

import "math"

// =============================================================================
// Damage Taxonomy
// =============================================================================

// DamageType is the coarse two-value damage classification.
type DamageType string

const (
	DamageScratch DamageType = "Scratch"
	DamageDent    DamageType = "Dent"
)

// OverallAssessment is the single severity verdict for a whole image.
type OverallAssessment string

const (
	AssessmentNone     OverallAssessment = "None"
	AssessmentMinor    OverallAssessment = "Minor"
	AssessmentModerate OverallAssessment = "Moderate"
	AssessmentSevere   OverallAssessment = "Severe"
)

// =============================================================================
// Detection Records
// =============================================================================

// BoundingBox is a detection rectangle in image pixel space. X and Y are the
// box center, matching the coordinate convention of the inference provider.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RawPrediction is one detection as reported by the inference provider.
// Confidence is taken as-is from the provider and may be out of [0,1];
// the normalizer clamps it. Ephemeral: produced by the inference gateway,
// consumed only by the normalizer.
type RawPrediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Box returns the prediction's bounding box.
func (p RawPrediction) Box() BoundingBox {
	return BoundingBox{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// NormalizedDamage is one accepted detection after classification.
//
// Severity carries the original lower-cased provider label (for example
// "moderate"), a finer-grained signal than the mapped Type. Confidence is
// clamped to [0,1] and rounded to 4 decimals. Location is a body-zone name
// or "other area".
type NormalizedDamage struct {
	Type        DamageType  `json:"type"`
	Severity    string      `json:"severity"`
	Confidence  float64     `json:"confidence"`
	Location    string      `json:"location"`
	BoundingBox BoundingBox `json:"boundingBox"`
}

// DetectionResult is the final record returned to the HTTP caller.
// Invariants: TotalDetected == len(Damages);
// OverallAssessment == AssessmentNone iff Damages is empty.
type DetectionResult struct {
	TotalDetected     int                `json:"totalDetected"`
	Damages           []NormalizedDamage `json:"damages"`
	OverallAssessment OverallAssessment  `json:"overallAssessment"`
	Message           string             `json:"message"`
}

// =============================================================================
// Numeric Helpers
// =============================================================================

// ClampConfidence constrains a provider-reported confidence to [0,1] and
// rounds it to 4 decimal places. Providers occasionally report values
// slightly above 1.0 or below 0; clamping happens before rounding so the
// bounds always hold.
func ClampConfidence(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return math.Round(v*10000) / 10000
}
