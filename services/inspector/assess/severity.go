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

import (
	"fmt"
	"strings"

	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/datatypes"
)

// Severity thresholds are exclusive lower bounds: a confidence of exactly
// 0.8 is Moderate and exactly 0.6 is Minor. Callers depend on this boundary
// behavior; do not change it to >=.
const (
	severeThreshold   = 0.8
	moderateThreshold = 0.6
)

// noDamageMessage is the fixed sentence for an empty damage list.
const noDamageMessage = "No visible damage detected on the vehicle."

// Aggregate derives the overall assessment from the maximum confidence
// across the damage list. Empty list means AssessmentNone.
func Aggregate(damages []datatypes.NormalizedDamage) datatypes.OverallAssessment {
	if len(damages) == 0 {
		return datatypes.AssessmentNone
	}

	maxConfidence := 0.0
	for _, d := range damages {
		if d.Confidence > maxConfidence {
			maxConfidence = d.Confidence
		}
	}

	switch {
	case maxConfidence > severeThreshold:
		return datatypes.AssessmentSevere
	case maxConfidence > moderateThreshold:
		return datatypes.AssessmentModerate
	default:
		return datatypes.AssessmentMinor
	}
}

// ComposeMessage builds the human-readable summary sentence: a fixed
// no-damage sentence, or the count plus the severity labels of each damage
// comma-joined in detection order.
func ComposeMessage(damages []datatypes.NormalizedDamage) string {
	if len(damages) == 0 {
		return noDamageMessage
	}

	labels := make([]string, 0, len(damages))
	for _, d := range damages {
		labels = append(labels, d.Severity)
	}
	return fmt.Sprintf("Detected %d damage area(s): %s", len(damages), strings.Join(labels, ", "))
}

// Assemble builds the final result record from whichever path produced the
// damage list. No business logic beyond field copying and the count.
func Assemble(damages []datatypes.NormalizedDamage, overall datatypes.OverallAssessment) datatypes.DetectionResult {
	if damages == nil {
		damages = []datatypes.NormalizedDamage{}
	}
	return datatypes.DetectionResult{
		TotalDetected:     len(damages),
		Damages:           damages,
		OverallAssessment: overall,
		Message:           ComposeMessage(damages),
	}
}
