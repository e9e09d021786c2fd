// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package assess

import "github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/datatypes"

// Synthesize deterministically derives a small damage set from the image
// byte length, for when the inference provider is unavailable. Identical
// input size always yields identical output, which keeps the degrade path
// reproducible and testable.
//
// Both divisibility checks run independently: a length divisible by 6
// yields both damages. Severity labels here are capitalized fixed strings
// and "left door" is not a zone-table name; both are part of the synthetic
// contract and must stay as-is.
//
// The overall assessment on this path is count-based (None/Minor/Moderate
// for 0/1/2 damages), not confidence-based.
func Synthesize(byteLength int) ([]datatypes.NormalizedDamage, datatypes.OverallAssessment) {
	damages := []datatypes.NormalizedDamage{}

	if byteLength%3 == 0 {
		damages = append(damages, datatypes.NormalizedDamage{
			Type:        datatypes.DamageDent,
			Severity:    "Moderate",
			Confidence:  0.76,
			Location:    "front bumper",
			BoundingBox: datatypes.BoundingBox{X: 150, Y: 280, Width: 200, Height: 140},
		})
	}

	if byteLength%2 == 0 {
		damages = append(damages, datatypes.NormalizedDamage{
			Type:        datatypes.DamageScratch,
			Severity:    "Minor",
			Confidence:  0.54,
			Location:    "left door",
			BoundingBox: datatypes.BoundingBox{X: 50, Y: 180, Width: 120, Height: 100},
		})
	}

	var overall datatypes.OverallAssessment
	switch len(damages) {
	case 0:
		overall = datatypes.AssessmentNone
	case 1:
		overall = datatypes.AssessmentMinor
	default:
		overall = datatypes.AssessmentModerate
	}

	return damages, overall
}
